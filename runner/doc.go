// Package runner drives an agent against a session.
//
// For every run the Runner appends the user content to the session, starts
// the agent with a fresh core.RunContext and consumes the events it emits:
// state deltas are applied, complete events are persisted, the event is
// forwarded to the caller, and the agent is released (resume handshake) so
// that its next step sees the updated session. A failing agent produces a
// final error event followed by the error on the error channel.
package runner
