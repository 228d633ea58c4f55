package gentests

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vic/lambdabox/pkg/defs"
	"github.com/vic/lambdabox/pkg/lambda"
	"github.com/vic/lambdabox/pkg/reduce"
	"github.com/vic/lambdabox/pkg/session"
)

// Limit bounds every generated reduction.
const Limit = 100000

// T is the part of *testing.T the check uses.
type T interface {
	require.TestingT
	Helper()
	Logf(format string, args ...any)
}

var _ T = (*testing.T)(nil)

// CheckLambdaReduction reduces the last line of inputStr, with the
// definitions of inputStr in scope, and compares the normal form with
// outputStr.
//
// outputStr is parsed with the free variables of the term line, so a free
// variable in the expected output names the same variable as in the input.
// The comparison is structural: alpha-equivalent results match whatever
// binder names either side used.
func CheckLambdaReduction(t T, testName string, inputStr string, outputStr string) {
	t.Helper()

	ctx, err := defs.Build(inputStr, Limit)
	require.NoError(t, err, "building definitions")

	line, err := session.TermLine(inputStr)
	require.NoError(t, err)

	free := make(map[rune]int)
	term, err := lambda.ParseWith(line, free)
	require.NoError(t, err, "parse error")
	expectedTerm, err := lambda.ParseWith(strings.TrimSpace(outputStr), free)
	require.NoError(t, err, "parse error for expected output")

	r := reduce.New(ctx)
	start := time.Now()
	actual, err := r.NormalForm(term, Limit, nil)
	elapsed := time.Since(start)
	require.NoError(t, err, "reducing %s", testName)

	assert.True(t, lambda.Equal(expectedTerm, actual),
		"Mismatch in %s:\nInput:    %s\nExpected: %s\nActual:   %s",
		testName, inputStr, strings.TrimSpace(outputStr), actual)

	stats := r.GetStats()
	t.Logf("%s: %d reductions in %v", testName, stats.TotalReductions, elapsed)
}
