package process

import (
	"errors"
	"fmt"

	"docmapper/internal/diagnostic"
	"docmapper/internal/document"
	"docmapper/internal/fieldpath"
	"docmapper/primitive"
)

var (
	// ErrUnknownDocument is returned for a directive naming an undeclared document.
	ErrUnknownDocument = errors.New("unknown document")
	// ErrSourceUnavailable is returned for directives reading from a source
	// document that failed to parse.
	ErrSourceUnavailable = errors.New("source document unavailable")
	// ErrInvalidMapping is returned when a definition fails validation.
	ErrInvalidMapping = errors.New("invalid mapping")
)

// DirectiveError reports a failed directive.
type DirectiveError struct {
	Index  int
	Source string
	Target string
	Err    error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("directive %d (%s -> %s): %v", e.Index, e.Source, e.Target, e.Err)
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}

// codeOf classifies a directive failure into an audit code.
func codeOf(err error) string {
	switch {
	case errors.Is(err, fieldpath.ErrMalformedPath):
		return diagnostic.CodeMalformedPath
	case errors.Is(err, primitive.ErrConversion):
		return diagnostic.CodeConversion
	case errors.Is(err, document.ErrNamespace):
		return diagnostic.CodeNamespace
	case errors.Is(err, document.ErrRootMismatch):
		return diagnostic.CodeRootMismatch
	case errors.Is(err, ErrUnknownDocument):
		return diagnostic.CodeUnknownDocument
	case errors.Is(err, ErrSourceUnavailable), errors.Is(err, document.ErrNotLoaded):
		return diagnostic.CodeReadFailed
	default:
		return diagnostic.CodeWriteFailed
	}
}
