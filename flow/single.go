package flow

// SingleAgentFlow is the flow used by ModelAgent: instructions and contents
// request processors plus the output key response processor.
type SingleAgentFlow struct{ *BaseFlow }

// NewSingleAgentFlow creates a single-agent flow with default processors.
func NewSingleAgentFlow(agent FlowAgent) *SingleAgentFlow {
	base := NewBaseFlow(agent)

	base.AddRequestProcessor(NewInstructionsProcessor())
	base.AddRequestProcessor(NewContentsProcessor())
	base.AddResponseProcessor(NewOutputKeyProcessor())

	return &SingleAgentFlow{BaseFlow: base}
}
