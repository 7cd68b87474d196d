package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/dpl/internal/compiler"
	"github.com/roach88/dpl/internal/directive"
	"github.com/roach88/dpl/internal/queryir"
	"github.com/roach88/dpl/internal/queryspec"
	"github.com/roach88/dpl/internal/render"
)

// Output is the result of one render.
type Output struct {
	// HTML is the markup fragment replacing the list tag.
	HTML string

	// CacheExpiry is how long the host may cache the page holding the
	// list. Zero means the host's default.
	CacheExpiry time.Duration
}

// Renderer runs the whole pipeline for one list tag:
//
//	text → directives → spec → select → rows → markup
//
// A Renderer holds only immutable collaborators; Render may be called
// concurrently. Each call issues at most one query.
type Renderer struct {
	limits      queryspec.Config
	compiler    *compiler.Compiler
	executor    *Executor
	formatter   *render.Formatter
	log         *zap.Logger
	ids         IDGenerator
	cacheExpiry time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// WithIDGenerator sets the render ID source. The default is UUIDv7.
func WithIDGenerator(ids IDGenerator) Option {
	return func(r *Renderer) { r.ids = ids }
}

// WithCacheExpiry sets the expiry reported with every output.
func WithCacheExpiry(d time.Duration) Option {
	return func(r *Renderer) { r.cacheExpiry = d }
}

// WithSchema sets the table layout queries are compiled against.
// The default is compiler.DefaultSchema.
func WithSchema(s compiler.Schema) Option {
	return func(r *Renderer) { r.compiler = compiler.New(s) }
}

// NewRenderer creates a renderer with the given limits, store executor
// and formatter.
func NewRenderer(limits queryspec.Config, exec *Executor, f *render.Formatter, opts ...Option) *Renderer {
	r := &Renderer{
		limits:    limits,
		compiler:  compiler.New(compiler.DefaultSchema()),
		executor:  exec,
		formatter: f,
		log:       zap.NewNop(),
		ids:       UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders the list described by text.
//
// Directive problems are not errors: they render as the localized message
// of their code, or as "" when suppresserrors=true. The error return is
// reserved for compiler defects and store failures, both *RenderError.
func (r *Renderer) Render(ctx context.Context, text string) (Output, error) {
	id := r.ids.Generate()
	log := r.log.With(zap.String("render_id", id))

	spec, err := queryspec.Build(directive.Parse(text), r.limits)
	if err != nil {
		ve, ok := queryspec.AsValidationError(err)
		if !ok {
			return Output{}, fmt.Errorf("build list spec: %w", err)
		}
		log.Warn("list rejected",
			zap.String("code", string(ve.Code)),
			zap.Bool("suppressed", ve.SuppressErrors),
			zap.Any("details", ve.Details),
		)
		return r.output(r.validationMessage(ve)), nil
	}

	q, err := r.compiler.Compile(spec)
	if err != nil {
		log.Error("list query could not be compiled", zap.Error(err))
		return Output{}, NewCompileError(id, err)
	}
	r.logQuery(log, q)

	rows, err := r.executor.Run(ctx, q)
	if err != nil {
		var re *RenderError
		if errors.As(err, &re) {
			re.RenderID = id
		}
		log.Warn("list query failed", zap.Error(err))
		return Output{}, err
	}

	log.Debug("list rendered",
		zap.Int("rows", len(rows)),
		zap.Stringer("mode", spec.Mode),
	)
	return r.output(r.formatter.Format(rows, spec)), nil
}

// Compile builds and compiles text without running the query. A
// validation problem is returned as its *queryspec.ValidationError.
func (r *Renderer) Compile(text string) (queryir.Select, error) {
	spec, err := queryspec.Build(directive.Parse(text), r.limits)
	if err != nil {
		return queryir.Select{}, err
	}
	return r.compiler.Compile(spec)
}

// Explain returns the SQL and parameters text would run.
func (r *Renderer) Explain(text string) (string, []any, error) {
	q, err := r.Compile(text)
	if err != nil {
		return "", nil, err
	}
	return r.executor.SQL(q)
}

func (r *Renderer) validationMessage(ve *queryspec.ValidationError) string {
	if ve.SuppressErrors {
		return ""
	}
	return r.formatter.Message(string(ve.Code))
}

func (r *Renderer) output(html string) Output {
	return Output{HTML: html, CacheExpiry: r.cacheExpiry}
}

// logQuery logs the SQL at debug level. Serialization is skipped when
// debug logging is off.
func (r *Renderer) logQuery(log *zap.Logger, q queryir.Select) {
	ce := log.Check(zap.DebugLevel, "list query")
	if ce == nil {
		return
	}
	sql, params, err := r.executor.SQL(q)
	if err != nil {
		ce.Write(zap.Error(err))
		return
	}
	ce.Write(
		zap.String("sql", sql),
		zap.Any("params", params),
		zap.Int("joins", len(q.Joins)),
	)
}
