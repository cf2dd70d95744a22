package plan

import "fmt"

// PlanError reports planner output that cannot be turned into a Plan.
type PlanError struct {
	// Field is the offending JSON field ("" for document level problems).
	Field   string
	Message string
	Err     error
}

func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%v)", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *PlanError) Unwrap() error { return e.Err }

func missingText(key string) *PlanError {
	return &PlanError{
		Field:   key,
		Message: fmt.Sprintf("Agent planner response is missing a non-empty string for '%s'.", key),
	}
}
