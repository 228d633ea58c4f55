package gentests

import _ "embed"
import "testing"
import "github.com/stretchr/testify/require"
import "github.com/vic/lambdabox/pkg/lambda"
import "github.com/vic/lambdabox/pkg/reduce"

//go:embed input.lam
var input string

// Ω reduces to itself forever: every step must reproduce the input exactly
// and the driver must stop at the limit.
func Test_102_non_normalizing_Limit(t *testing.T) {
	term, err := lambda.Parse(input)
	require.NoError(t, err)

	maxSteps := 1000
	performedSteps := 0
	r := reduce.New(nil)
	_, err = r.NormalForm(term, maxSteps, func(step lambda.Term) {
		performedSteps++
		if !lambda.Equal(step, term) {
			t.Fatalf("step %d: expected Ω to reduce to itself, got %v", performedSteps, step)
		}
	})

	var limitErr *reduce.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	require.Equal(t, maxSteps, limitErr.Limit)
	require.Equal(t, maxSteps, performedSteps)

	stats := r.GetStats()
	t.Logf("Non-normalizing term: performed %d reductions (%d substitutions)",
		stats.TotalReductions, stats.Substitutions)
	require.Equal(t, uint64(maxSteps), stats.Substitutions)
}
