package diagnostic

// Codes of the records produced by the engine.
const (
	CodeMissingDocument   = "missing_document"
	CodeDocumentParse     = "document_parse"
	CodeMissingValue      = "missing_value"
	CodeDefaultApplied    = "default_applied"
	CodeConversion        = "conversion"
	CodeMalformedPath     = "malformed_path"
	CodeNamespace         = "namespace"
	CodeRootMismatch      = "root_mismatch"
	CodeCollectionMapping = "collection_mapping"
	CodeFanIn             = "fan_in"
	CodeComplexValue      = "complex_value"
	CodeReadFailed        = "read_failed"
	CodeWriteFailed       = "write_failed"

	CodeUnknownDocument  = "unknown_document"
	CodeUnknownFormat    = "unknown_format"
	CodeUnknownType      = "unknown_type"
	CodeMissingConverter = "missing_converter"
	CodeDuplicateID      = "duplicate_id"
	CodeUnsafeConversion = "unsafe_conversion"
)
