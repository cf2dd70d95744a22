// Package session provides the in-memory core.SessionStore used by the
// runner. Sessions hold the state into which pipeline steps write their
// output keys, so one session per conversation is enough to chain steps.
package session
