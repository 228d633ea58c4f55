package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vic/lambdabox/pkg/reduce"
	"github.com/vic/lambdabox/pkg/session"
)

func TestEvaluate(t *testing.T) {
	s := session.New(session.DefaultConfig())

	out, res, err := evaluate(s, "!I=λx.x\n\"I\"a", Options{})
	require.NoError(t, err)
	assert.Equal(t, "A\n", out)
	assert.True(t, res.Reduced)
}

func TestEvaluateSingleStep(t *testing.T) {
	s := session.New(session.DefaultConfig())

	out, _, err := evaluate(s, "(λx.x)((λy.y)a)", Options{Single: true})
	require.NoError(t, err)
	assert.Equal(t, "((λA.A)B)\n", out)

	out, res, err := evaluate(s, "λx.x", Options{Single: true})
	require.NoError(t, err)
	assert.False(t, res.Reduced)
	assert.Contains(t, out, "(λA.A)\n")
	assert.Contains(t, out, "Term is in normal form")
}

func TestEvaluateAST(t *testing.T) {
	s := session.New(session.DefaultConfig())
	out, _, err := evaluate(s, "(λx.x)a", Options{AST: true})
	require.NoError(t, err)
	assert.Contains(t, out, "lambda.App")
	assert.Contains(t, out, "lambda.Abs")
}

func TestEvaluateErrors(t *testing.T) {
	s := session.New(session.Config{Limit: 10})
	_, _, err := evaluate(s, "(λx.xx)(λx.xx)", Options{})
	assert.EqualError(t, err, "Computation exceeded provided limits")

	_, _, err = evaluate(s, "!I=λx.x", Options{AST: true})
	assert.ErrorIs(t, err, session.ErrNoTerm)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.lam")
	second := filepath.Join(dir, "second.lam")
	require.NoError(t, os.WriteFile(first, []byte("!K=λxy.x\n\"K\"ab\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("(λxy.y)ab"), 0644))

	var stdout, stderr bytes.Buffer
	err := runFiles(context.Background(), session.DefaultConfig(), Options{Stats: true},
		[]string{first, second}, &stdout, &stderr)
	require.NoError(t, err)

	// Names are minted per result, so both free variables print as A.
	assert.Equal(t, "A\nA\n", stdout.String())
	assert.Contains(t, stderr.String(), "Stats ("+first+")")
	assert.Contains(t, stderr.String(), "Stats ("+second+")")
}

func TestRunFilesMissing(t *testing.T) {
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "missing.lam")
	err := runFiles(context.Background(), session.DefaultConfig(), Options{},
		[]string{missing}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading "+missing)
	assert.Empty(t, stdout.String())
}

func TestReplSession(t *testing.T) {
	var out bytes.Buffer
	r := newRepl(session.New(session.DefaultConfig()), Options{}, &out)

	assert.False(t, r.handle(`!I=\x.x`))
	assert.False(t, r.handle(`"I"a`))
	assert.Equal(t, "A\n", out.String())

	out.Reset()
	assert.False(t, r.handle(":defs"))
	assert.Equal(t, "I = (λA.A)\n", out.String())

	out.Reset()
	assert.False(t, r.handle(`:step (\x.x)((\y.y)a)`))
	assert.Equal(t, "((λA.A)B)\n", out.String())

	out.Reset()
	assert.False(t, r.handle(":clear"))
	assert.False(t, r.handle(":defs"))
	assert.Empty(t, out.String())

	assert.True(t, r.handle(":q"))
	assert.True(t, r.handle(":quit"))
}

func TestReplRejectsBadDefinition(t *testing.T) {
	var out bytes.Buffer
	r := newRepl(session.New(session.DefaultConfig()), Options{}, &out)

	assert.False(t, r.handle(`!J=\xx.x`))
	assert.Contains(t, out.String(), "Variable used under lambda is already bound")
	assert.Empty(t, r.defs)

	out.Reset()
	assert.False(t, r.handle(":frobnicate"))
	assert.Contains(t, out.String(), "unknown command")
}

func TestRunFilesTrace(t *testing.T) {
	file := filepath.Join(t.TempDir(), "trace.lam")
	require.NoError(t, os.WriteFile(file, []byte("!I=λx.x\n\"I\"a\n"), 0644))

	var stdout, stderr bytes.Buffer
	err := runFiles(context.Background(), session.DefaultConfig(), Options{Trace: 8},
		[]string{file}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "A\n", stdout.String())
	assert.Contains(t, stderr.String(), "Trace ("+file+")")
	assert.Contains(t, stderr.String(), "Resolve")
	assert.Contains(t, stderr.String(), " I\n")
	assert.Contains(t, stderr.String(), "Identity")
	assert.NotContains(t, stderr.String(), "Stats")
}

func TestErrorMessage(t *testing.T) {
	limitErr := &reduce.LimitExceededError{Limit: 10}

	assert.Equal(t, "Computation exceeded provided limits (10 steps)", errorMessage(limitErr))
	assert.Equal(t, "first.lam: Computation exceeded provided limits (10 steps)",
		errorMessage(errors.Wrap(limitErr, "first.lam")))
	assert.Equal(t, "unknown command", errorMessage(errors.New("unknown command")))
}

func TestReplReportsStepLimit(t *testing.T) {
	var out bytes.Buffer
	r := newRepl(session.New(session.Config{Limit: 10}), Options{}, &out)

	assert.False(t, r.handle(`(\x.xx)(\x.xx)`))
	assert.Contains(t, out.String(), "Computation exceeded provided limits (10 steps)")
}

func TestExpandLambda(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"term", `(\x.x)a`, "(λx.x)a"},
		{"quoted name", `\x."a\b"x`, `λx."a\b"x`},
		{"after quoted name", `"a\b"\x.x`, `"a\b"λx.x`},
		{"definition name", `!a\b=\x.x`, `!a\b=λx.x`},
		{"normalized definition name", `!!a\b=\x."a\b"`, `!!a\b=λx."a\b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandLambda(tt.line))
		})
	}
}

func TestReplKeepsBackslashInNames(t *testing.T) {
	var out bytes.Buffer
	r := newRepl(session.New(session.DefaultConfig()), Options{}, &out)

	assert.False(t, r.handle(`!a\b=\x.x`))
	assert.False(t, r.handle(":defs"))
	assert.Equal(t, "a\\b = (λA.A)\n", out.String())

	out.Reset()
	assert.False(t, r.handle(`"a\b"c`))
	assert.Equal(t, "A\n", out.String())
}
