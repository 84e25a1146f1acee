package mapping

import (
	"docmapper/internal/document"
	"docmapper/options"
	"docmapper/primitive"
)

// MappingFile represents the root of a YAML mapping definition file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	Sources []DocumentDef `yaml:"sources"`
	Targets []DocumentDef `yaml:"targets"`

	// OneToOne is the simplified mapping syntax where keys are source paths
	// and values are target paths, both in the first documents. Entries run
	// before Mappings, in the order written.
	OneToOne OrderedPairs `yaml:"121,omitempty"`

	// Mappings are the explicit directives in execution order.
	Mappings []FieldMapping `yaml:"mappings,omitempty"`
}

// DocumentDef declares a source or target document of a pass.
type DocumentDef struct {
	ID     string          `yaml:"id"`
	Format document.Format `yaml:"format"`
	// Namespaces maps aliases used in paths to URIs (XML only).
	Namespaces map[string]string `yaml:"namespaces,omitempty"`
	// NamespacePolicy overrides the engine policy for this document.
	NamespacePolicy *options.NamespacePolicy `yaml:"namespace_policy,omitempty"`
	// Template seeds a target document (targets only).
	Template string `yaml:"template,omitempty"`
}

// FieldMapping is one explicit mapping directive.
type FieldMapping struct {
	Source string `yaml:"source"`
	// Target is one path or a list of paths fed from the same source read.
	Target StringOrArray `yaml:"target"`

	SourceDoc string `yaml:"source_doc,omitempty"`
	TargetDoc string `yaml:"target_doc,omitempty"`

	// SourceType and TargetType declare the field types; undeclared types
	// are inferred from the source document.
	SourceType primitive.FieldType `yaml:"source_type,omitempty"`
	TargetType primitive.FieldType `yaml:"target_type,omitempty"`

	// Format is the lexical layout used by conversions (e.g. a date layout).
	Format string `yaml:"format,omitempty"`

	// Default is a literal used when the source value is absent. It is
	// converted to the target type like a read value.
	Default *string `yaml:"default,omitempty"`
}

// StringOrArray represents a value that can be either a single string or an array of strings.
type StringOrArray []string

// Pair is one entry of the 121 shorthand.
type Pair struct {
	Source string
	Target string
}

// OrderedPairs keeps 121 entries in document order.
type OrderedPairs []Pair

// Directive is a single resolved source to target instruction.
type Directive struct {
	// Index is the position in execution order.
	Index int

	Source     string
	Target     string
	SourceDoc  string
	TargetDoc  string
	SourceType primitive.FieldType
	TargetType primitive.FieldType
	Format     string
	Default    *string
}

// Source returns the source document with the given id.
func (mf *MappingFile) Source(id string) (DocumentDef, bool) {
	return findDoc(mf.Sources, id)
}

// Target returns the target document with the given id.
func (mf *MappingFile) Target(id string) (DocumentDef, bool) {
	return findDoc(mf.Targets, id)
}

func findDoc(docs []DocumentDef, id string) (DocumentDef, bool) {
	for _, d := range docs {
		if d.ID == id {
			return d, true
		}
	}

	return DocumentDef{}, false
}

// Directives expands the 121 shorthand and multi-target mappings into the
// ordered directive list. Defaults must have been applied.
func (mf *MappingFile) Directives() []Directive {
	var out []Directive

	add := func(d Directive) {
		d.Index = len(out)
		out = append(out, d)
	}

	firstSource, firstTarget := mf.defaultDocs()

	for _, p := range mf.OneToOne {
		add(Directive{Source: p.Source, Target: p.Target, SourceDoc: firstSource, TargetDoc: firstTarget})
	}

	for _, fm := range mf.Mappings {
		for _, target := range fm.Target {
			add(Directive{
				Source:     fm.Source,
				Target:     target,
				SourceDoc:  fm.SourceDoc,
				TargetDoc:  fm.TargetDoc,
				SourceType: fm.SourceType,
				TargetType: fm.TargetType,
				Format:     fm.Format,
				Default:    fm.Default,
			})
		}
	}

	return out
}

func (mf *MappingFile) defaultDocs() (string, string) {
	var src, dst string

	if len(mf.Sources) > 0 {
		src = mf.Sources[0].ID
	}

	if len(mf.Targets) > 0 {
		dst = mf.Targets[0].ID
	}

	return src, dst
}
