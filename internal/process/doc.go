// Package process runs mapping definitions against documents.
//
// An Engine is built once and shared: it holds the conversion service, the
// parsed path cache, the logger and the metrics. Each run creates a Pass
// that owns one reader per source document, one writer per target document
// and the audit records of the run.
//
// # Directive execution
//
// A directive reads its source path, applies the default when the value is
// absent, converts every value to the declared target type and writes the
// result. Reading a path with vacant collection indexes yields a group;
// the group fans out into the target path:
//
//   - collection indexes are copied from source to target left to right
//   - when the source has more collection levels than the target, the
//     innermost target index is the member's position in the group
//   - remaining vacant target indexes are set to 0
//   - a target without collections receives every member and keeps the
//     last one (fan-in, audited as a warning)
//
// All values of a directive are converted before anything is written.
//
// # Failures
//
// A failing directive is recorded as an audit error and the pass moves on,
// unless Config.FailFast is set. A source document that does not parse
// fails every directive reading from it while the other documents are
// still processed.
package process
