package mapping

import (
	"fmt"

	"docmapper/internal/diagnostic"
	"docmapper/internal/document"
	"docmapper/internal/fieldpath"
	"docmapper/primitive"
)

// Validate checks a mapping definition before any document is read:
// document declarations, directive references and paths, and that every
// declared type pair has a conversion rule in svc. Lossy rules are
// reported as warnings.
func Validate(mf *MappingFile, svc *primitive.Service) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if svc == nil {
		res.AddError("service_is_nil", "conversion service is nil", "", "")
		return res
	}

	if len(mf.Sources) == 0 {
		res.AddError(diagnostic.CodeUnknownDocument, "no source document declared", "", "")
	}

	if len(mf.Targets) == 0 {
		res.AddError(diagnostic.CodeUnknownDocument, "no target document declared", "", "")
	}

	validateDocs(res, "source", mf.Sources)
	validateDocs(res, "target", mf.Targets)

	for _, d := range mf.Directives() {
		validateDirective(res, mf, svc, d)
	}

	return res
}

func validateDocs(res *diagnostic.Diagnostics, role string, docs []DocumentDef) {
	seen := map[string]struct{}{}

	for _, d := range docs {
		if d.ID == "" {
			res.AddError(diagnostic.CodeUnknownDocument, fmt.Sprintf("%s document without id", role), "", "")
			continue
		}

		if _, ok := seen[d.ID]; ok {
			res.AddError(diagnostic.CodeDuplicateID, fmt.Sprintf("duplicate %s document %q", role, d.ID), d.ID, "")
			continue
		}

		seen[d.ID] = struct{}{}

		if d.Format == document.FormatUnknown {
			res.AddError(diagnostic.CodeUnknownFormat, fmt.Sprintf("%s document %q has no format", role, d.ID), d.ID, "")
		}

		if role == "source" && d.Template != "" {
			res.AddWarning("template_ignored", "templates only apply to target documents", d.ID, "")
		}
	}
}

func validateDirective(res *diagnostic.Diagnostics, mf *MappingFile, svc *primitive.Service, d Directive) {
	if _, ok := mf.Source(d.SourceDoc); !ok {
		res.AddError(diagnostic.CodeUnknownDocument,
			fmt.Sprintf("directive %d: unknown source document %q", d.Index, d.SourceDoc), d.SourceDoc, d.Source)
	}

	if _, ok := mf.Target(d.TargetDoc); !ok {
		res.AddError(diagnostic.CodeUnknownDocument,
			fmt.Sprintf("directive %d: unknown target document %q", d.Index, d.TargetDoc), d.TargetDoc, d.Target)
	}

	src, srcErr := parseAbsolute(d.Source)
	if srcErr != nil {
		res.AddError(diagnostic.CodeMalformedPath, fmt.Sprintf("directive %d: source: %v", d.Index, srcErr), d.SourceDoc, d.Source)
	}

	dst, dstErr := parseAbsolute(d.Target)
	if dstErr != nil {
		res.AddError(diagnostic.CodeMalformedPath, fmt.Sprintf("directive %d: target: %v", d.Index, dstErr), d.TargetDoc, d.Target)
	}

	if srcErr == nil && dstErr == nil && src.HasVacantIndex() && src.CollectionCount() != dst.CollectionCount() {
		res.AddWarning(diagnostic.CodeCollectionMapping,
			fmt.Sprintf("directive %d: source has %d collection segments, target has %d", d.Index, src.CollectionCount(), dst.CollectionCount()),
			d.TargetDoc, d.Target)
	}

	validateTypes(res, svc, d, sourceType(mf, d))
}

// sourceType returns the type a directive reads: the declared source type,
// or STRING for XML sources whose text carries no type of its own.
func sourceType(mf *MappingFile, d Directive) primitive.FieldType {
	if d.SourceType.IsDeclared() {
		return d.SourceType
	}

	if def, ok := mf.Source(d.SourceDoc); ok && def.Format == document.FormatXML {
		return primitive.TypeString
	}

	return d.SourceType
}

func parseAbsolute(text string) (fieldpath.Path, error) {
	p, err := fieldpath.Parse(text)
	if err != nil {
		return fieldpath.Path{}, err
	}

	if p.IsRelative() || p.IsRoot() {
		return fieldpath.Path{}, &fieldpath.MalformedPathError{Path: text, Reason: "directive paths must address a node below the document root"}
	}

	return p, nil
}

func validateTypes(res *diagnostic.Diagnostics, svc *primitive.Service, d Directive, from primitive.FieldType) {
	for _, t := range []primitive.FieldType{d.SourceType, d.TargetType} {
		if t != 0 && !t.IsScalar() {
			res.AddError(diagnostic.CodeUnknownType,
				fmt.Sprintf("directive %d: %s cannot be converted", d.Index, t), d.TargetDoc, d.Target)

			return
		}
	}

	if from.IsDeclared() && d.TargetType.IsDeclared() {
		c, ok := svc.FindConverter(from, d.TargetType)
		if !ok {
			res.AddError(diagnostic.CodeMissingConverter,
				fmt.Sprintf("directive %d: no conversion from %s to %s", d.Index, from, d.TargetType),
				d.TargetDoc, d.Target)
		} else if c.Concerns != primitive.ConcernNone && d.SourceType.IsDeclared() {
			res.AddWarning(diagnostic.CodeUnsafeConversion,
				fmt.Sprintf("directive %d: conversion from %s to %s may fail [%s]", d.Index, d.SourceType, d.TargetType, c.Concerns),
				d.TargetDoc, d.Target)
		}
	}

	if d.Default != nil && d.TargetType.IsDeclared() {
		if _, err := svc.Convert(primitive.String(*d.Default), d.TargetType, d.Format); err != nil {
			res.AddError(diagnostic.CodeConversion,
				fmt.Sprintf("directive %d: default %q: %v", d.Index, *d.Default, err), d.TargetDoc, d.Target)
		}
	}
}
