// Package session evaluates a text buffer the way an editor host does: the
// definition lines build the context, the last line is the term, and the
// result comes back as text. Nothing is kept between calls.
package session

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/vic/lambdabox/pkg/defs"
	"github.com/vic/lambdabox/pkg/lambda"
	"github.com/vic/lambdabox/pkg/reduce"
)

// ErrNoTerm is returned when the buffer ends without a term line.
var ErrNoTerm = errors.New("no term to evaluate")

// Result is the outcome of one evaluation.
type Result struct {
	Term lambda.Term
	// Output is Term rendered for display.
	Output string
	// Steps holds every intermediate term when Config.ShowSteps is set.
	Steps []string
	// Reduced is false when the term was already in normal form.
	Reduced bool
	Stats   reduce.Stats
	// Trace holds the first rule applications when WithTrace is set.
	Trace []reduce.TraceEvent
}

type Session struct {
	cfg    Config
	logger *slog.Logger
	yield  func()
	trace  int
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithYield overrides the cooperative yield hook of long reductions.
func WithYield(f func()) Option {
	return func(s *Session) { s.yield = f }
}

// WithTrace records up to capacity rule applications of the evaluated term
// into Result.Trace. Definitions reduced by "!!" are not traced.
func WithTrace(capacity int) Option {
	return func(s *Session) { s.trace = capacity }
}

func New(cfg Config, opts ...Option) *Session {
	s := &Session{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Config() Config { return s.cfg }

// Context builds the definitions of buffer.
func (s *Session) Context(buffer string) (*defs.Context, error) {
	ctx, err := defs.Build(buffer, s.cfg.Limit, s.reduceOptions()...)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("context built", "definitions", ctx.Len())
	return ctx, nil
}

// Step applies a single reduction to the term line of buffer.
func (s *Session) Step(buffer string) (Result, error) {
	t, ctx, err := s.prepare(buffer)
	if err != nil {
		return Result{}, err
	}

	r := s.reducer(ctx)
	t, reduced := r.Step(t)
	return Result{
		Term:    t,
		Output:  s.Render(t, ctx),
		Reduced: reduced,
		Stats:   r.GetStats(),
		Trace:   r.TraceSnapshot(),
	}, nil
}

// Normalize reduces the term line of buffer to normal form within the
// configured limit.
func (s *Session) Normalize(buffer string) (Result, error) {
	t, ctx, err := s.prepare(buffer)
	if err != nil {
		return Result{}, err
	}

	var (
		steps     []string
		performed int
	)
	onStep := func(t lambda.Term) {
		performed++
		if s.cfg.ShowSteps {
			steps = append(steps, s.Render(t, ctx))
		}
	}

	r := s.reducer(ctx)
	t, err = r.NormalForm(t, s.cfg.Limit, onStep)
	if err != nil {
		return Result{}, err
	}
	stats := r.GetStats()
	s.logger.Debug("normal form reached", "steps", performed, "reductions", stats.TotalReductions)

	return Result{
		Term:    t,
		Output:  s.Render(t, ctx),
		Steps:   steps,
		Reduced: performed > 0,
		Stats:   stats,
		Trace:   r.TraceSnapshot(),
	}, nil
}

// Render prints t, folding definitions of ctx when NamedOutput is set.
func (s *Session) Render(t lambda.Term, ctx *defs.Context) string {
	if !s.cfg.NamedOutput {
		return lambda.Render(t, nil)
	}
	return lambda.Render(t, ctx.Names())
}

func (s *Session) prepare(buffer string) (lambda.Term, *defs.Context, error) {
	ctx, err := s.Context(buffer)
	if err != nil {
		return nil, nil, err
	}
	line, err := TermLine(buffer)
	if err != nil {
		return nil, nil, err
	}
	t, err := lambda.Parse(line)
	if err != nil {
		return nil, nil, err
	}
	return t, ctx, nil
}

func (s *Session) reducer(ctx *defs.Context) *reduce.Reducer {
	r := reduce.New(ctx, s.reduceOptions()...)
	if s.trace > 0 {
		r.EnableTrace(s.trace)
	}
	return r
}

func (s *Session) reduceOptions() []reduce.Option {
	opts := []reduce.Option{reduce.WithLogger(s.logger)}
	if s.yield != nil {
		opts = append(opts, reduce.WithYield(s.yield))
	}
	return opts
}

// TermLine returns the last non-blank line of buffer, which must not be a
// definition.
func TermLine(buffer string) (string, error) {
	lines := strings.Split(buffer, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if defs.IsDefinition(line) {
			return "", ErrNoTerm
		}
		return line, nil
	}
	return "", ErrNoTerm
}
