// Package workflow turns declarative agent descriptions into runnable agents
// and strictly linear pipelines.
//
// An AgentSpec describes one step (name, instruction template, tools, output
// key, optional model and construction params). A Factory materializes a spec
// into an *agent.ModelAgent, applying per-use Overrides without touching the
// spec. A Builder materializes an ordered list of Steps into an
// *agent.SequentialAgent whose children run in input order.
package workflow
