package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docmapper/internal/mapping"
	"docmapper/internal/process"
)

// inputs holds everything read from disk before any pass starts.
type inputs struct {
	jobs []process.Job
	// targets lists the target ids of each job in declaration order.
	targets map[string][]string
	// outs maps target ids to output files.
	outs map[string]string
}

// parseAssignments parses ID=FILE flag values. Each id may appear once.
func parseAssignments(flag string, values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))

	for _, v := range values {
		id, file, ok := strings.Cut(v, "=")
		id = strings.TrimSpace(id)

		if !ok || id == "" || file == "" {
			return nil, fmt.Errorf("--%s %q: expected ID=FILE", flag, v)
		}

		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("--%s: document %q given twice", flag, id)
		}

		out[id] = file
	}

	return out, nil
}

func readAll(flag string, values []string) (map[string][]byte, error) {
	files, err := parseAssignments(flag, values)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(files))

	for id, file := range files {
		data, err := os.ReadFile(filepath.Clean(file))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s %q: %w", flag, id, err)
		}

		out[id] = data
	}

	return out, nil
}

func readInputs(opts cliOptions) (*inputs, error) {
	sources, err := readAll("source", opts.sources)
	if err != nil {
		return nil, err
	}

	templates, err := readAll("template", opts.templates)
	if err != nil {
		return nil, err
	}

	outs, err := parseAssignments("out", opts.outs)
	if err != nil {
		return nil, err
	}

	in := &inputs{targets: map[string][]string{}, outs: outs}
	owner := map[string]string{}

	for _, path := range opts.mappings {
		mf, err := mapping.LoadFile(path)
		if err != nil {
			return nil, err
		}

		for _, def := range mf.Targets {
			if prev, ok := owner[def.ID]; ok {
				return nil, fmt.Errorf("target %q is declared by both %s and %s", def.ID, prev, path)
			}

			owner[def.ID] = path
			in.targets[path] = append(in.targets[path], def.ID)
		}

		in.jobs = append(in.jobs, process.Job{
			Name:      path,
			Mapping:   mf,
			Sources:   sources,
			Templates: templates,
		})
	}

	return in, nil
}

// writeOutputs stores the targets of res. Targets without an output file
// are printed to stdout in declaration order.
func writeOutputs(res *process.Result, in *inputs, stdout io.Writer) error {
	for _, id := range in.targets[res.Job] {
		doc := res.Documents[id]

		file, ok := in.outs[id]
		if !ok {
			if _, err := fmt.Fprintf(stdout, "%s\n", strings.TrimRight(string(doc), "\n")); err != nil {
				return fmt.Errorf("failed to print target %q: %w", id, err)
			}

			continue
		}

		if err := os.WriteFile(file, doc, 0o644); err != nil { //nolint:gosec // output documents are not secrets
			return fmt.Errorf("failed to write target %q: %w", id, err)
		}
	}

	return nil
}
