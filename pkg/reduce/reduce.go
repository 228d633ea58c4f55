package reduce

import (
	"log/slog"
	"runtime"
	"slices"

	"github.com/vic/lambdabox/pkg/lambda"
)

// Resolver looks up named definitions. *defs.Context implements it.
type Resolver interface {
	Lookup(name string) (lambda.Snapshot, bool)
}

// Stats holds reduction statistics.
type Stats struct {
	TotalReductions uint64
	Erasures        uint64
	Identities      uint64
	Projections     uint64
	Substitutions   uint64
	Resolutions     uint64
	// Unfoldings counts steps that only expanded a recursive definition.
	Unfoldings      uint64
}

// Reducer performs normal-order (leftmost-outermost) beta reduction.
// Reduction is destructive: Step rewrites the term it is given, so callers
// that need the input afterwards must clone it first. A Reducer is not safe
// for concurrent use.
type Reducer struct {
	defs   Resolver
	logger *slog.Logger
	yield  func()

	stats     Stats
	expanding map[string]int // definitions expanded on the current descent path

	events   uint64
	traceBuf []TraceEvent
	traceOn  bool
}

type Option func(*Reducer)

// WithLogger sets the logger used for debug output. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Reducer) { r.logger = l }
}

// WithYield sets the hook NormalForm calls every YieldInterval steps.
// Defaults to runtime.Gosched.
func WithYield(f func()) Option {
	return func(r *Reducer) { r.yield = f }
}

// New returns a Reducer resolving names through defs, which may be nil.
func New(defs Resolver, opts ...Option) *Reducer {
	r := &Reducer{
		defs:      defs,
		logger:    slog.Default(),
		yield:     runtime.Gosched,
		expanding: make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reducer) GetStats() Stats {
	return r.stats
}

// Step applies one beta reduction to t and reports whether one happened.
// The returned term replaces t; t itself may have been rewritten.
//
// A definition met again while its own expansion is being searched is
// written into the term in place and the step ends there, so recursive
// definitions unfold one level per step and stay under the driver's limit.
func (r *Reducer) Step(t lambda.Term) (lambda.Term, bool) {
	clear(r.expanding)
	return r.step(t)
}

func (r *Reducer) step(t lambda.Term) (lambda.Term, bool) {
	switch t := t.(type) {
	case *lambda.Abs:
		body, reduced := r.step(t.Body)
		t.Body = body
		return t, reduced

	case *lambda.App:
		// Resolving the head is part of this step, not a step of its own.
		var chain []string
		if n, ok := t.Fun.(*lambda.Named); ok {
			if def, names, ok := r.resolve(n.Name); ok {
				t.Fun, chain = def, names
			}
		}
		if abs, ok := t.Fun.(*lambda.Abs); ok {
			return r.beta(abs, t.Arg), true
		}
		if r.recursive(chain) {
			r.stats.Unfoldings++
			return t, true
		}

		r.enter(chain)
		fun, reduced := r.step(t.Fun)
		r.leave(chain)
		t.Fun = fun
		if reduced {
			return t, true
		}
		arg, reduced := r.step(t.Arg)
		t.Arg = arg
		return t, reduced

	case *lambda.Named:
		def, chain, ok := r.resolve(t.Name)
		if !ok {
			return t, false
		}
		if r.recursive(chain) {
			r.stats.Unfoldings++
			return def, true
		}
		r.enter(chain)
		defer r.leave(chain)
		return r.step(def)

	default:
		// Bound and Free are irreducible.
		return t, false
	}
}

// beta contracts (λ.body) arg. The three variable bodies are handled
// without copying arg.
func (r *Reducer) beta(abs *lambda.Abs, arg lambda.Term) lambda.Term {
	r.stats.TotalReductions++

	switch body := abs.Body.(type) {
	case *lambda.Free:
		r.stats.Erasures++
		r.recordTrace(RuleErase, "")
		return body
	case *lambda.Bound:
		if body.Depth == 1 {
			r.stats.Identities++
			r.recordTrace(RuleIdentity, "")
			lambda.Shift(arg, 0, -1)
			return arg
		}
		// Bound by an outer abstraction: skip the consumed App and Abs edges.
		r.stats.Projections++
		r.recordTrace(RuleProject, "")
		body.Depth -= 2
		return body
	}

	r.stats.Substitutions++
	r.recordTrace(RuleSubstitute, "")
	substituted := lambda.Substitute(abs.Body, 1, lambda.Freeze(arg))
	lambda.Shift(substituted, 1, -2)
	return substituted
}

// resolve returns a fresh copy of the definition of name, following alias
// chains, and the names it went through. A cyclic chain does not resolve.
func (r *Reducer) resolve(name string) (lambda.Term, []string, bool) {
	if r.defs == nil {
		return nil, nil, false
	}
	var (
		t     lambda.Term
		chain []string
	)
	for {
		snap, ok := r.defs.Lookup(name)
		if !ok {
			break
		}
		if slices.Contains(chain, name) {
			r.logger.Debug("cyclic definition left unresolved", "name", name)
			return nil, nil, false
		}
		chain = append(chain, name)

		t = snap.Thaw()
		r.stats.Resolutions++
		r.recordTrace(RuleResolve, name)

		alias, ok := t.(*lambda.Named)
		if !ok {
			break
		}
		name = alias.Name
	}
	return t, chain, t != nil
}

// recursive reports whether any of names is already being expanded on the
// current descent path.
func (r *Reducer) recursive(names []string) bool {
	return slices.ContainsFunc(names, func(name string) bool {
		return r.expanding[name] > 0
	})
}

func (r *Reducer) enter(names []string) {
	for _, name := range names {
		r.expanding[name]++
	}
}

func (r *Reducer) leave(names []string) {
	for _, name := range names {
		if r.expanding[name]--; r.expanding[name] == 0 {
			delete(r.expanding, name)
		}
	}
}

// Step is the stateless form of (*Reducer).Step.
func Step(t lambda.Term, defs Resolver) (lambda.Term, bool) {
	return New(defs).Step(t)
}
