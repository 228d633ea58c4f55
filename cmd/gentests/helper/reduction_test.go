package gentests

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recorder collects failures without stopping the calling test.
type recorder struct {
	failed bool
	errors []string
}

func (r *recorder) Errorf(format string, args ...any) {
	r.failed = true
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recorder) FailNow() {
	r.failed = true
	runtime.Goexit()
}

func (r *recorder) Helper()                         {}
func (r *recorder) Logf(format string, args ...any) {}

func check(input, output string) *recorder {
	rec := &recorder{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		CheckLambdaReduction(rec, "check", input, output)
	}()
	<-done
	return rec
}

func TestCheckLambdaReduction(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		pass   bool
	}{
		{"second argument", "(λxy.y)ab", "b", true},
		{"wrong argument", "(λxy.y)ab", "a", false},
		{"first of pair", "(λp.p(λxy.x))((λxyf.fxy)ab)", "a", true},
		{"second of pair expected", "(λp.p(λxy.x))((λxyf.fxy)ab)", "b", false},
		{"binder names are irrelevant", "(λx.x)(λy.y)", "λq.q", true},
		{"free variable order matters", "(λxy.yx)ab", "ab", false},
		{"new free variable", "(λx.x)a", "c", false},
		{"with definitions", "!K=λxy.x\n\"K\"ab", "a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := check(tt.input, tt.output)
			assert.Equal(t, !tt.pass, rec.failed, "errors: %v", rec.errors)
		})
	}
}

func TestCheckLambdaReductionReportsParseErrors(t *testing.T) {
	rec := check("(λx.x)a", "λx")
	assert.True(t, rec.failed)
}
