package workflow

import "fmt"

// ConfigurationError reports an AgentSpec (plus overrides) that cannot be
// turned into an agent.
type ConfigurationError struct {
	Agent   string
	Field   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Agent == "" {
		return fmt.Sprintf("invalid agent configuration (%s): %s", e.Field, e.Message)
	}
	return fmt.Sprintf("agent '%s' configuration (%s): %s", e.Agent, e.Field, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ConfigurationError) Unwrap() error { return e.Err }
