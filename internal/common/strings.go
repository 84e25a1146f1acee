package common

// UnknownStr is the String() result of out of range enum values.
const UnknownStr = "unknown"
