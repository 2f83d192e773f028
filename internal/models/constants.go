// Package models contains data types and constants for the chat front-end.
package models

// Endpoints for the completion service
const (
	EndpointOpenAI          = "https://api.openai.com/v1"
	EndpointChatCompletions = "/chat/completions"
)

// ModelID identifies a completion model
type ModelID string

// Built-in catalog models. The catalog in the config package is the
// registry; these only seed it.
const (
	ModelGPT4o  ModelID = "gpt-4o"
	ModelO3Mini ModelID = "o3-mini"

	// DefaultModel is selected when nothing else is configured
	DefaultModel = ModelGPT4o
)

// String returns the raw identifier
func (m ModelID) String() string {
	return string(m)
}
