package llm

import "strings"

// Prompt is a single-turn completion request.
type Prompt struct {
	// Text is sent as the user message.
	Text string

	// Temperature controls randomness; free text uses more than option picking.
	Temperature float32

	// MaxTokens caps the reply length.
	MaxTokens int
}

// Sampling settings for the two prompt kinds.
const (
	TextTemperature   = 0.5
	TextMaxTokens     = 80
	SelectTemperature = 0.3
	SelectMaxTokens   = 40
)

// VerifyPrompt is the health check sent by Client.Verify.
const VerifyPrompt = "Say 'ready' if you're working."

// TextPrompt asks for a short free-text answer grounded in the resume.
func TextPrompt(role, resume, question string) Prompt {
	var b strings.Builder
	b.WriteString("You are applying for a ")
	b.WriteString(role)
	b.WriteString(" position.\nUse my resume to answer concisely (max 50 words):\n\n")
	b.WriteString(resume)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return Prompt{Text: b.String(), Temperature: TextTemperature, MaxTokens: TextMaxTokens}
}

// SelectPrompt asks the model to pick one of options.
func SelectPrompt(role, resume, question string, options []string) Prompt {
	var b strings.Builder
	b.WriteString("You are applying for a ")
	b.WriteString(role)
	b.WriteString(" position.\nBased on my resume, choose the best option:\n\n")
	b.WriteString(resume)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nOptions:\n")
	for _, o := range options {
		b.WriteString("- ")
		b.WriteString(o)
		b.WriteString("\n")
	}
	b.WriteString("Reply exactly with the best option text.")
	return Prompt{Text: b.String(), Temperature: SelectTemperature, MaxTokens: SelectMaxTokens}
}
