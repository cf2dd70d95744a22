// Package logging provides a minimal logging interface and adapters for lifemesh.
//
// The Logger interface defines the leveled methods (Debug, Info, Warn, Error)
// that agents, flows, the runner and the workflow layer use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NewLogger / NewSlogLogger building JSON or text handlers from config
//   - NoOpLogger for silent operation (tests, library defaults)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	factory := workflow.NewFactory(models, func(o *workflow.FactoryOptions) { o.Logger = logger })
package logging
