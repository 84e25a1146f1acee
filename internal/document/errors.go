package document

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentParse is wrapped by every ParseError.
	ErrDocumentParse = errors.New("document parse failed")
	// ErrNamespace is wrapped by every NamespaceError.
	ErrNamespace = errors.New("namespace not resolved")
	// ErrRootMismatch is wrapped by every RootMismatchError.
	ErrRootMismatch = errors.New("root mismatch")
	// ErrNotLoaded is returned by Read before SetDocument.
	ErrNotLoaded = errors.New("document not loaded")
	// ErrFinalized is returned by Write after Document.
	ErrFinalized = errors.New("document already finalized")
)

// ParseError reports a source document that cannot be parsed.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s document: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrDocumentParse, e.Err}
}

// NamespaceError reports a namespace alias with no known URI.
type NamespaceError struct {
	Alias string
	Path  string
}

func (e *NamespaceError) Error() string {
	return fmt.Sprintf("namespace alias %q of %s is not declared", e.Alias, e.Path)
}

func (e *NamespaceError) Unwrap() error { return ErrNamespace }

// RootMismatchError reports a write whose first segment does not match the
// existing document root.
type RootMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *RootMismatchError) Error() string {
	return fmt.Sprintf("path %s does not match the document root: expected %s, found %s", e.Path, e.Expected, e.Actual)
}

func (e *RootMismatchError) Unwrap() error { return ErrRootMismatch }
