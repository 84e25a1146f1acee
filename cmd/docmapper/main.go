// Package main provides the docmapper CLI.
//
// docmapper reads XML, JSON and YAML source documents, applies the
// directives of one or more mapping definitions and writes the target
// documents to files or stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"docmapper/internal/config"
	"docmapper/internal/diagnostic"
	logpkg "docmapper/internal/logger"
	"docmapper/internal/metrics"
	"docmapper/internal/process"
	"docmapper/internal/version"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitAuditError = 3
)

type cliOptions struct {
	configPath  string
	mappings    []string
	sources     []string
	outs        []string
	templates   []string
	env         string
	dump        bool
	metricsFile string
	showVersion bool
	help        bool
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func newFlagSet(opts *cliOptions, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("docmapper", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: docmapper --mapping FILE [--source ID=FILE]... [options]\n\n")
		fmt.Fprintf(stderr, "docmapper maps values between XML, JSON and YAML documents using path directives.\n")
		fmt.Fprintf(stderr, "Targets without --out are printed to stdout.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  docmapper -m map.yaml -s src=in.xml                 # print the target to stdout\n")
		fmt.Fprintf(stderr, "  docmapper -m map.yaml -s src=in.xml -o out=out.json # write the target to a file\n")
		fmt.Fprintf(stderr, "  docmapper -m a.yaml -m b.yaml -s src=in.xml --dump  # run two mappings, dump the audit\n")
	}

	fs.StringVarP(&opts.configPath, "config", "c", "", "Engine configuration file (YAML)")
	fs.StringArrayVarP(&opts.mappings, "mapping", "m", nil, "Mapping definition file (repeatable, one pass each)")
	fs.StringArrayVarP(&opts.sources, "source", "s", nil, "Source document as ID=FILE (repeatable)")
	fs.StringArrayVarP(&opts.outs, "out", "o", nil, "Target output as ID=FILE (repeatable)")
	fs.StringArrayVarP(&opts.templates, "template", "t", nil, "Target template as ID=FILE (repeatable)")
	fs.StringVar(&opts.env, "env", "", "Logging environment: local, dev or prod (default $DOCMAPPER_ENV or local)")
	fs.BoolVar(&opts.dump, "dump", false, "Dump the audit records of every pass to stderr")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file when done")
	fs.BoolVarP(&opts.showVersion, "version", "V", false, "Print version information")
	fs.BoolVarP(&opts.help, "help", "h", false, "Show this help message")

	return fs
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts cliOptions

	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if opts.help {
		fs.Usage()
		return exitOK
	}

	if opts.showVersion {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}

	if len(opts.mappings) == 0 {
		fmt.Fprintln(stderr, "Error: at least one --mapping is required")
		fs.Usage()

		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	logger, err := logpkg.New(stderr, cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create logger: %v\n", err)
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("starting docmapper",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", cfg.Logging.Env),
		zap.Int("mappings", len(opts.mappings)))

	code, err := execute(logpkg.ContextWithLogger(ctx, logger), cfg, opts, stdout, stderr)
	if err != nil {
		logger.Error("docmapper failed", zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}

	return code
}

func loadConfig(opts cliOptions) (config.Config, error) {
	cfg := config.Default()

	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}

		cfg = loaded
	}

	if opts.env != "" {
		cfg.Logging.Env = opts.env
		if err := cfg.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("invalid config: %w", err)
		}
	}

	return cfg, nil
}

func engineConfig(cfg config.Config) (process.Config, error) {
	categories, err := cfg.Categories()
	if err != nil {
		return process.Config{}, err
	}

	out := process.DefaultConfig()
	out.NamespacePolicy = cfg.Engine.NamespacePolicy
	out.FailFast = cfg.Engine.FailFast
	out.Categories = categories
	out.PathCacheSize = cfg.Engine.PathCacheSize
	out.Parallelism = cfg.Engine.Parallelism

	return out, nil
}

func execute(ctx context.Context, cfg config.Config, opts cliOptions, stdout, stderr io.Writer) (int, error) {
	in, err := readInputs(opts)
	if err != nil {
		return exitUsage, err
	}

	engineCfg, err := engineConfig(cfg)
	if err != nil {
		return exitFailure, err
	}

	reg := prometheus.NewRegistry()

	engine, err := process.NewEngine(engineCfg,
		process.WithLogger(logpkg.FromContext(ctx)),
		process.WithMetrics(metrics.New(reg)))
	if err != nil {
		return exitFailure, err
	}

	results, batchErr := engine.RunBatch(ctx, in.jobs, engineCfg.Parallelism)

	code := exitOK

	for _, res := range results {
		reportAudit(stderr, res, opts.dump)

		switch {
		case res.Err != nil:
			fmt.Fprintf(stderr, "Error: %s: %v\n", res.Job, res.Err)

			code = exitFailure
		case res.Audit.HasErrors() && code == exitOK:
			code = exitAuditError
		}

		if res.Err == nil {
			if err := writeOutputs(res, in, stdout); err != nil {
				return exitFailure, err
			}
		}
	}

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
			return exitFailure, fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if batchErr != nil {
		return exitFailure, batchErr
	}

	return code, nil
}

func reportAudit(w io.Writer, res *process.Result, dump bool) {
	for _, group := range [][]diagnostic.Diagnostic{res.Audit.Errors, res.Audit.Warnings} {
		for _, d := range group {
			fmt.Fprintf(w, "%s: %s\n", res.Job, d)
		}
	}

	if dump {
		spew.Fdump(w, res.Audit)
	}
}
