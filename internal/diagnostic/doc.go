// Package diagnostic provides the audit trail of a mapping pass:
// structured warnings and errors attached to a document and a path.
//
// Key capabilities:
//   - Missing source values, with "did you mean" suggestions
//   - Recoverable conversion failures
//   - Namespace fallbacks and collection count mismatches
//   - Validation findings for mapping definitions
package diagnostic
