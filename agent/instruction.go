package agent

import "github.com/hupe1980/lifemesh/core"

// Provider supplies instruction text at run time, e.g. derived from session
// state.
type Provider interface {
	Instruction(*core.RunContext) (string, error)
}

// Func adapts an ordinary function to Provider.
type Func func(*core.RunContext) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(rc *core.RunContext) (string, error) { return f(rc) }

// Instruction is either static template text or a dynamic provider. The
// resolved text is rendered by the flow as a Go template over session state,
// so static text may reference earlier outputs ({{.draft}}).
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates a static Instruction.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates a dynamic Instruction.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates a dynamic Instruction from a function.
func NewInstructionFromFunc(f func(*core.RunContext) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsStatic reports whether the instruction is plain text.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Text returns the static text ("" for provider-backed instructions).
func (i Instruction) Text() string { return i.text }

// IsZero reports whether neither text nor provider is set.
func (i Instruction) IsZero() bool { return i.provider == nil && i.text == "" }

// Resolve returns the instruction text, invoking the provider if needed.
func (i Instruction) Resolve(rc *core.RunContext) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(rc)
	}
	return i.text, nil
}
