// Package core provides the foundational domain types, interfaces and execution
// contexts used by lifemesh. It defines the core abstractions for:
//
//   - Agents (units of work composed into linear pipelines)
//   - Sessions (stateful containers with event history and output-key state)
//   - Events (immutable communication + state delta records)
//   - RunContext / ToolContext (scoped execution & tool sandboxing)
//   - Pluggable stores for session state and artifacts
//
// The package intentionally keeps implementation concerns (persistence, model
// providers, concrete agents) out of scope, exposing small interfaces to
// enable custom backends.
package core
