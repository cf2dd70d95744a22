package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrModelCallLimit is returned once a run has used up its model call budget.
var ErrModelCallLimit = errors.New("model call limit exceeded")

// ModelLimiter caps the number of model calls made during one run. A single
// limiter is shared by every agent of the run, so a pipeline is bounded as a
// whole and not only per step.
type ModelLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewModelLimiter creates a limiter allowing max calls. max <= 0 means unlimited.
func NewModelLimiter(max int) *ModelLimiter {
	return &ModelLimiter{max: max}
}

// Increment records a call and fails when the budget is exceeded.
func (ml *ModelLimiter) Increment() error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	ml.count++
	if ml.max > 0 && ml.count > ml.max {
		return fmt.Errorf("%w: %d", ErrModelCallLimit, ml.max)
	}

	return nil
}

// Count returns the number of calls recorded so far.
func (ml *ModelLimiter) Count() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	return ml.count
}

// Remaining returns the calls left, or -1 when unlimited.
func (ml *ModelLimiter) Remaining() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if ml.max <= 0 {
		return -1
	}

	return max(ml.max-ml.count, 0)
}
