package engine

import (
	"fmt"
	"time"

	"github.com/VibeCAD/roomforge/pkg/plan"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult is the internal type used to pass evaluation results
// through channels.
type evalResult struct {
	plans  []plan.Plan
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds EvalTimeout.
//
// On timeout the evaluation goroutine may still be running; it writes
// its late result into the buffered channel and exits, and the result is
// simply dropped with the channel.
func waitWithTimeout(ch <-chan evalResult) ([]plan.Plan, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.plans, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
