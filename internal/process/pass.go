package process

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"docmapper/internal/diagnostic"
	"docmapper/internal/document"
	"docmapper/internal/document/jsondoc"
	"docmapper/internal/document/xmldoc"
	"docmapper/internal/document/yamldoc"
	"docmapper/internal/mapping"
	"docmapper/internal/metrics"
	"docmapper/primitive"
)

// Pass is a single run of a definition. It owns its readers, writers and
// audit records and must not be shared between goroutines.
type Pass struct {
	engine  *Engine
	logger  *zap.Logger
	audit   *diagnostic.Diagnostics
	readers map[string]document.Reader
	writers map[string]document.Writer
	formats map[string]document.Format
	// failed holds the parse errors of unusable source documents.
	failed map[string]error
}

// NewPass prepares a pass over mf. templates override the templates of the
// definition by target id. A template that does not parse is an error.
func (e *Engine) NewPass(mf *mapping.MappingFile, templates map[string][]byte) (*Pass, error) {
	return e.newPass(mf, templates, e.logger, &diagnostic.Diagnostics{})
}

func (e *Engine) newPass(
	mf *mapping.MappingFile,
	templates map[string][]byte,
	log *zap.Logger,
	audit *diagnostic.Diagnostics,
) (*Pass, error) {
	if mf == nil {
		return nil, fmt.Errorf("%w: mapping is nil", ErrInvalidMapping)
	}

	p := &Pass{
		engine:  e,
		logger:  log,
		audit:   audit,
		readers: map[string]document.Reader{},
		writers: map[string]document.Writer{},
		formats: map[string]document.Format{},
		failed:  map[string]error{},
	}

	for _, def := range mf.Sources {
		r, err := newReader(def.Format, p.options(def, nil))
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", def.ID, err)
		}

		p.readers[def.ID] = r
		p.formats[def.ID] = def.Format
	}

	for _, def := range mf.Targets {
		tmpl, ok := templates[def.ID]
		if !ok && def.Template != "" {
			tmpl = []byte(def.Template)
		}

		w, err := newWriter(def.Format, p.options(def, tmpl))
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", def.ID, err)
		}

		p.writers[def.ID] = w
		p.formats[def.ID] = def.Format
	}

	return p, nil
}

func (p *Pass) options(def mapping.DocumentDef, template []byte) document.Options {
	policy := p.engine.config.NamespacePolicy
	if def.NamespacePolicy != nil {
		policy = *def.NamespacePolicy
	}

	return document.Options{
		DocID:           def.ID,
		Converter:       p.engine.service,
		Logger:          p.logger.With(zap.String("doc", def.ID), zap.Stringer("format", def.Format)),
		Audit:           p.audit,
		Namespaces:      def.Namespaces,
		NamespacePolicy: policy,
		Template:        template,
	}
}

func newReader(format document.Format, opts document.Options) (document.Reader, error) {
	switch format {
	case document.FormatXML:
		return xmldoc.NewReader(opts), nil
	case document.FormatJSON:
		return jsondoc.NewReader(opts), nil
	case document.FormatYAML:
		return yamldoc.NewReader(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
}

func newWriter(format document.Format, opts document.Options) (document.Writer, error) {
	switch format {
	case document.FormatXML:
		return xmldoc.NewWriter(opts)
	case document.FormatJSON:
		return jsondoc.NewWriter(opts)
	case document.FormatYAML:
		return yamldoc.NewWriter(opts)
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
}

// Audit returns the records collected so far.
func (p *Pass) Audit() *diagnostic.Diagnostics {
	return p.audit
}

// Load parses the source document id. Nil or blank raw is an absent
// document. A parse failure is audited and makes every directive reading
// from id fail; the error is returned so callers can stop early.
func (p *Pass) Load(id string, raw []byte) error {
	r, ok := p.readers[id]
	if !ok {
		return fmt.Errorf("%w: source %q", ErrUnknownDocument, id)
	}

	if err := r.SetDocument(raw); err != nil {
		p.failed[id] = err

		p.logger.Error("source document does not parse", zap.String("doc", id), zap.Error(err))
		p.audit.AddError(diagnostic.CodeDocumentParse, err.Error(), id, "")

		return fmt.Errorf("source %q: %w", id, err)
	}

	delete(p.failed, id)

	return nil
}

// Run executes directives in order. Failures are audited; with FailFast
// the first one stops the pass and is returned.
func (p *Pass) Run(directives []mapping.Directive) error {
	var failures int

	for _, d := range directives {
		if err := p.Execute(d); err != nil {
			if p.engine.config.FailFast {
				return err
			}

			failures++
		}
	}

	p.logger.Debug("directives executed", zap.Int("total", len(directives)), zap.Int("failed", failures))

	return nil
}

// Execute runs one directive and records its outcome.
func (p *Pass) Execute(d mapping.Directive) error {
	status, err := p.execute(d)
	if err == nil {
		p.engine.metrics.Directive(status)
		return nil
	}

	err = &DirectiveError{Index: d.Index, Source: d.Source, Target: d.Target, Err: err}

	status = metrics.StatusFailed
	if errors.Is(err, ErrSourceUnavailable) {
		status = metrics.StatusSkipped
	}

	var convErr *primitive.ConversionError
	if errors.As(err, &convErr) {
		p.engine.metrics.ConversionFailure(convErr.Concern.String())
	}

	p.engine.metrics.Directive(status)
	p.logger.Warn("directive failed", zap.Int("index", d.Index), zap.Error(err))
	p.audit.AddError(codeOf(err), err.Error(), d.TargetDoc, d.Target)

	return err
}

// Documents serializes every target document by id.
func (p *Pass) Documents() (map[string][]byte, error) {
	out := make(map[string][]byte, len(p.writers))

	for id, w := range p.writers {
		raw, err := w.Document()
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", id, err)
		}

		out[id] = raw
	}

	return out, nil
}
