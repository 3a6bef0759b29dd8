package models

// LlmRequest is a single chat completion: one system instruction and one user message.
type LlmRequest struct {
	Prompt      PromptRef
	Model       string
	Temperature float64
	System      string
	User        string
}

func NewLlmRequest(ref PromptRef, config PromptConfig, user string) LlmRequest {
	return LlmRequest{
		Prompt:      ref,
		Model:       config.Model,
		Temperature: config.Temperature,
		System:      config.System,
		User:        user,
	}
}
