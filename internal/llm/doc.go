// Package llm wraps the OpenAI chat completion API used to answer
// application questions. It owns the prompt wording, the per-request
// timeout and request pacing.
package llm
