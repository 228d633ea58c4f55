package reduce

import (
	"fmt"

	"github.com/vic/lambdabox/pkg/lambda"
)

// YieldInterval is the number of steps between cooperative yields.
const YieldInterval = 10000

const limitExceededMessage = "Computation exceeded provided limits"

// LimitExceededError is returned when no normal form was reached within the
// step limit.
type LimitExceededError struct {
	Limit int
}

func (e *LimitExceededError) Error() string {
	return limitExceededMessage
}

// Detail is the message with the limit that was hit.
func (e *LimitExceededError) Detail() string {
	return fmt.Sprintf("%s (%d steps)", limitExceededMessage, e.Limit)
}

// NormalForm reduces a copy of t until no step applies. t is not modified.
//
// limit bounds the number of steps attempted; a negative limit means no
// bound. onStep, if not nil, sees the term after every step that reduced;
// it must not keep the term, which is rewritten by the next step.
// There is no cancellation: the limit is the only way to bound the work.
func (r *Reducer) NormalForm(t lambda.Term, limit int, onStep func(lambda.Term)) (lambda.Term, error) {
	t = lambda.Clone(t)
	for i := 0; limit < 0 || i < limit; i++ {
		if i%YieldInterval == 0 {
			if i > 0 {
				r.logger.Debug("yielding", "step", i, "reductions", r.stats.TotalReductions)
			}
			r.yield()
		}

		var reduced bool
		t, reduced = r.Step(t)
		if !reduced {
			return t, nil
		}
		if onStep != nil {
			onStep(t)
		}
	}
	r.logger.Debug("step limit exceeded", "limit", limit)
	return nil, &LimitExceededError{Limit: limit}
}

// NormalForm is the stateless form of (*Reducer).NormalForm.
func NormalForm(t lambda.Term, limit int, onStep func(lambda.Term), defs Resolver) (lambda.Term, error) {
	return New(defs).NormalForm(t, limit, onStep)
}
