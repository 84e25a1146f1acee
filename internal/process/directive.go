package process

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docmapper/internal/diagnostic"
	"docmapper/internal/document"
	"docmapper/internal/field"
	"docmapper/internal/fieldpath"
	"docmapper/internal/mapping"
	"docmapper/internal/metrics"
	"docmapper/primitive"
)

// execute runs d and returns the metrics status of a directive that did
// not fail.
func (p *Pass) execute(d mapping.Directive) (string, error) {
	src, err := p.engine.paths.Parse(d.Source)
	if err != nil {
		return "", err
	}

	dst, err := p.engine.paths.Parse(d.Target)
	if err != nil {
		return "", err
	}

	r, ok := p.readers[d.SourceDoc]
	if !ok {
		return "", fmt.Errorf("%w: source %q", ErrUnknownDocument, d.SourceDoc)
	}

	if cause, failed := p.failed[d.SourceDoc]; failed {
		return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, cause)
	}

	w, ok := p.writers[d.TargetDoc]
	if !ok {
		return "", fmt.Errorf("%w: target %q", ErrUnknownDocument, d.TargetDoc)
	}

	f := field.New(d.SourceDoc, src)
	f.Type = d.SourceType
	f.Format = d.Format

	read, err := r.Read(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", src, err)
	}

	_, grouped := read.(*field.Group)
	leaves := field.Leaves(read)

	if grouped && len(leaves) == 0 {
		p.missing(d, r, src)
		return metrics.StatusMissing, nil
	}

	status := metrics.StatusOK
	out := make([]*field.Field, 0, len(leaves))

	for i, leaf := range leaves {
		if leaf.Type == primitive.TypeComplex {
			p.audit.AddWarning(diagnostic.CodeComplexValue,
				"source addresses a container, not a value; nothing written", d.SourceDoc, leaf.Path.String())

			continue
		}

		v := leaf.Value
		if v.IsNull() {
			switch {
			case d.Default != nil:
				v = primitive.String(*d.Default)
				p.audit.AddInfo(diagnostic.CodeDefaultApplied,
					fmt.Sprintf("default %q applied", *d.Default), d.SourceDoc, leaf.Path.String())
			case !grouped:
				p.missing(d, r, src)
				status = metrics.StatusMissing
			}
		}

		if d.TargetType.IsDeclared() {
			if v, err = p.engine.service.Convert(v, d.TargetType, d.Format); err != nil {
				return "", fmt.Errorf("convert %s: %w", leaf.Path, err)
			}
		}

		path := dst
		if grouped {
			path = fanOut(leaf.Path, dst, i)
		}

		tf := field.New(d.TargetDoc, path)
		tf.Type = d.TargetType
		tf.Format = d.Format
		tf.SetValue(v)

		if !tf.Type.IsDeclared() {
			tf.Type = leaf.Type
		}

		out = append(out, tf)
	}

	if len(out) == 0 {
		return metrics.StatusSkipped, nil
	}

	node := field.Node(out[0])

	if grouped {
		if dst.CollectionCount() == 0 && len(out) > 1 {
			p.audit.AddWarning(diagnostic.CodeFanIn,
				fmt.Sprintf("%d values written to a single target; the last one is kept", len(out)),
				d.TargetDoc, dst.String())
		}

		g := &field.Group{Path: dst, Type: d.TargetType, DocID: d.TargetDoc, Format: d.Format}
		for _, tf := range out {
			g.Add(tf)
		}

		node = g
	}

	if err := w.Write(node); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}

	p.engine.metrics.Written(p.formats[d.TargetDoc].String(), len(out))
	p.logger.Debug("directive executed",
		zap.Int("index", d.Index), zap.Stringer("source", src), zap.Stringer("target", dst), zap.Int("values", len(out)))

	return status, nil
}

// missing records an absent source value with the names available where
// the source path stops resolving.
func (p *Pass) missing(d mapping.Directive, r document.Reader, src fieldpath.Path) {
	msg := "source value is absent, null written"
	if src.HasVacantIndex() {
		msg = "source collection is empty, nothing written"
	}

	diag := diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticWarning,
		Code:     diagnostic.CodeMissingValue,
		Message:  msg,
		DocID:    d.SourceDoc,
		Path:     src.String(),
	}

	if s, ok := r.(document.Suggester); ok {
		diag.Suggestions = s.Suggest(src, p.engine.config.MaxSuggestions)
		if len(diag.Suggestions) > 0 {
			diag.Message += "; did you mean " + strings.Join(diag.Suggestions, ", ") + "?"
		}
	}

	p.audit.Add(diag)
}

// fanOut computes the target path of the ordinal-th member of a group read
// from a member path.
func fanOut(member, target fieldpath.Path, ordinal int) fieldpath.Path {
	out, _ := fieldpath.CopyCollectionIndexes(member, target)

	positions := target.CollectionPositions()
	if member.CollectionCount() > len(positions) && len(positions) > 0 {
		out, _ = out.SetCollectionIndex(positions[len(positions)-1], fieldpath.At(ordinal))
	}

	for {
		next, ok := out.SetVacantCollectionIndex(0)
		if !ok {
			return out
		}

		out = next
	}
}
