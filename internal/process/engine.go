package process

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docmapper/internal/diagnostic"
	"docmapper/internal/fieldpath"
	"docmapper/internal/logger"
	"docmapper/internal/mapping"
	"docmapper/internal/metrics"
	"docmapper/options"
	"docmapper/primitive"
)

// Config holds the engine settings.
type Config struct {
	// NamespacePolicy applies to documents that do not set their own.
	NamespacePolicy options.NamespacePolicy
	// FailFast aborts a pass on the first failing directive or document.
	FailFast bool
	// Categories selects the enabled conversion rules.
	Categories options.CategoryEnum
	// PathCacheSize bounds the parsed path cache.
	PathCacheSize int
	// Parallelism bounds the passes RunBatch runs at once.
	Parallelism int
	// MaxSuggestions limits the names suggested for a missing value.
	MaxSuggestions int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		NamespacePolicy: options.NamespaceTolerate,
		Categories:      options.CategoryAll,
		PathCacheSize:   fieldpath.DefaultCacheSize,
		Parallelism:     4,
		MaxSuggestions:  3,
	}
}

// Engine runs mapping passes. It is immutable once built and safe for
// concurrent use.
type Engine struct {
	config  Config
	service *primitive.Service
	paths   *fieldpath.Cache
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger (nop by default).
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics sets the metrics sink (none by default).
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithService replaces the conversion service built from Config.Categories.
func WithService(s *primitive.Service) Option {
	return func(e *Engine) {
		e.service = s
	}
}

// NewEngine builds an engine.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	paths, err := fieldpath.NewCache(cfg.PathCacheSize)
	if err != nil {
		return nil, err
	}

	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}

	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = DefaultConfig().MaxSuggestions
	}

	e := &Engine{config: cfg, paths: paths, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}

	if e.service == nil {
		e.service = primitive.NewService(cfg.Categories)
	}

	return e, nil
}

// Service returns the conversion service used by the engine.
func (e *Engine) Service() *primitive.Service {
	return e.service
}

// Job is one mapping run.
type Job struct {
	// Name identifies the job in logs and results.
	Name    string
	Mapping *mapping.MappingFile
	// Sources holds the raw source documents by id. A missing entry is an
	// absent document.
	Sources map[string][]byte
	// Templates override the templates of the definition by target id.
	Templates map[string][]byte
}

// Result is the outcome of a job.
type Result struct {
	Job string
	// Documents holds the serialized targets by id.
	Documents map[string][]byte
	Audit     *diagnostic.Diagnostics
	// Err is set when the job produced no documents.
	Err      error
	Duration time.Duration
}

// Run validates the definition of job and executes it in a single pass.
// Directive failures are recorded in the audit; Result.Err is only set
// when the job could not produce its documents.
func (e *Engine) Run(ctx context.Context, job Job) *Result {
	start := time.Now()
	log := logger.FromContextOr(ctx, e.logger).With(zap.String("job", job.Name))

	res := e.run(log, job)
	res.Duration = time.Since(start)

	status := metrics.StatusOK
	if res.Err != nil {
		status = metrics.StatusFailed

		log.Error("mapping job failed", zap.Error(res.Err))
	} else {
		log.Info("mapping job completed",
			zap.Int("documents", len(res.Documents)),
			zap.Int("errors", len(res.Audit.Errors)),
			zap.Int("warnings", len(res.Audit.Warnings)),
			zap.Duration("duration", res.Duration))
	}

	e.metrics.Pass(status, res.Duration)

	return res
}

func (e *Engine) run(log *zap.Logger, job Job) *Result {
	res := &Result{Job: job.Name, Audit: &diagnostic.Diagnostics{}}

	validation := mapping.Validate(job.Mapping, e.service)
	res.Audit.Merge(*validation)

	if validation.HasErrors() {
		res.Err = fmt.Errorf("%w: %w", ErrInvalidMapping, validation.Error())
		return res
	}

	pass, err := e.newPass(job.Mapping, job.Templates, log, res.Audit)
	if err != nil {
		res.Err = err
		return res
	}

	if err := e.execute(pass, job); err != nil {
		res.Err = err
		return res
	}

	res.Documents, res.Err = pass.Documents()

	return res
}

func (e *Engine) execute(pass *Pass, job Job) error {
	for _, def := range job.Mapping.Sources {
		if err := pass.Load(def.ID, job.Sources[def.ID]); err != nil && e.config.FailFast {
			return err
		}
	}

	return pass.Run(job.Mapping.Directives())
}

// RunBatch runs independent jobs with at most limit passes at once
// (Config.Parallelism when limit is not positive). Results keep the order
// of jobs. Cancelling ctx stops scheduling: jobs not started by then carry
// the context error, which is also returned. A started pass runs to
// completion.
func (e *Engine) RunBatch(ctx context.Context, jobs []Job, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = e.config.Parallelism
	}

	log := logger.FromContextOr(ctx, e.logger)
	results := make([]*Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, job := range jobs {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = e.Run(logger.ContextWithLogger(ctx, log), job)

			return nil
		})
	}

	err := g.Wait()

	for i, res := range results {
		if res != nil {
			continue
		}

		if err == nil {
			err = ctx.Err()
		}

		results[i] = &Result{Job: jobs[i].Name, Audit: &diagnostic.Diagnostics{}, Err: err}
	}

	if err != nil {
		log.Warn("batch interrupted", zap.Error(err))
	}

	return results, err
}
