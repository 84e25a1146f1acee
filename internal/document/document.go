package document

import (
	"errors"

	"go.uber.org/zap"

	"docmapper/internal/diagnostic"
	"docmapper/internal/field"
	"docmapper/internal/fieldpath"
	"docmapper/options"
	"docmapper/primitive"
)

// Reader resolves paths against a loaded source document.
type Reader interface {
	// SetDocument parses the native form. Empty input is an intentionally
	// absent document: every read then yields a null value.
	SetDocument(raw []byte) error
	// Read resolves f.Path. Paths without vacant collection indexes fill
	// and return f itself; paths with a vacant index return a *field.Group
	// with one concrete member per match, in document order.
	Read(f *field.Field) (field.Node, error)
}

// Writer builds a target document.
type Writer interface {
	// Write injects a field or every member of a group.
	Write(n field.Node) error
	// Document finalizes the tree and serializes it.
	Document() ([]byte, error)
}

// Suggester is implemented by readers that can list the names available
// where a path stops resolving.
type Suggester interface {
	Suggest(p fieldpath.Path, limit int) []string
}

// Options configure a reader or writer.
type Options struct {
	DocID string
	// Converter coerces native values to declared types and renders
	// values into text.
	Converter *primitive.Service
	Logger    *zap.Logger
	// Audit receives non fatal records such as namespace fallbacks.
	Audit *diagnostic.Diagnostics
	// Namespaces maps aliases to URIs.
	Namespaces      map[string]string
	NamespacePolicy options.NamespacePolicy
	// Template seeds a writer with an existing document.
	Template []byte
}

// WithDefaults fills unset collaborators.
func (o Options) WithDefaults() Options {
	if o.Converter == nil {
		o.Converter = primitive.NewService(options.CategoryAll)
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	if o.Audit == nil {
		o.Audit = &diagnostic.Diagnostics{}
	}

	return o
}

// Assign stores a native value on f. An undeclared field takes the native
// type; a declared scalar type is reached through the converter. Container
// nodes mark undeclared fields COMPLEX and leave the value null.
func (o Options) Assign(f *field.Field, native primitive.Value, nativeType primitive.FieldType) error {
	if nativeType == primitive.TypeComplex {
		if !f.Type.IsDeclared() {
			f.Type = primitive.TypeComplex
		}

		f.Value = primitive.Value{}

		return nil
	}

	if !f.Type.IsScalar() || native.IsNull() || native.Type() == f.Type {
		f.SetValue(native)
		return nil
	}

	v, err := o.Converter.Convert(native, f.Type, f.Format)
	if err != nil {
		f.Value = primitive.Value{}
		return err
	}

	f.Value = v

	return nil
}

// ReadAll builds the read outcome from resolved matches. value returns the
// native value of a node and its type (TypeComplex for containers); it may
// also record format metadata on the field it is called for. Member
// conversion failures leave that member null and are joined into the
// returned error; the group is still returned.
func ReadAll[N any](o Options, f *field.Field, matches []Match[N], value func(N, *field.Field) (primitive.Value, primitive.FieldType)) (field.Node, error) {
	if !f.Path.HasVacantIndex() {
		if len(matches) == 0 || !matches[0].Found {
			f.Value = primitive.Value{}
			return f, nil
		}

		v, t := value(matches[0].Node, f)

		return f, o.Assign(f, v, t)
	}

	group := field.NewGroupFrom(f, true)

	var errs []error

	for _, m := range matches {
		member := f.Clone()
		member.Path = m.Path
		member.Value = primitive.Value{}

		if m.Found {
			v, t := value(m.Node, member)
			if err := o.Assign(member, v, t); err != nil {
				errs = append(errs, err)
			}
		}

		group.Add(member)
	}

	return group, errors.Join(errs...)
}
