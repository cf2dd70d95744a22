// Package agent contains the executable agent implementations lifemesh
// composes into pipelines:
//
//  1. Hierarchy plumbing shared by all agents (BaseAgent)
//  2. The model-backed, tool-calling agent (ModelAgent)
//  3. The linear composite that runs its children in order (SequentialAgent)
//
// A ModelAgent stores its final answer under its output key; the next step
// of a SequentialAgent reads it back from session state, typically through a
// template reference in its instruction (for example {{.ideas}}).
package agent
