// Package mock provides a mock analyzer model for testing without cloud
// credentials.
package mock

import (
	"context"
	"sync"
)

// DefaultResponse is a well-formed model response used when none is set.
const DefaultResponse = `{
  "raw_transcript": [
    {"speaker": "Agent", "text": "Hello, how can I help?", "timestamp": "0:02"},
    {"speaker": "Customer", "text": "I have a question about my bill.", "timestamp": "0:05"}
  ],
  "detailed_summary": "The customer asked about a billing question and the agent resolved it.",
  "sentiment_score": 7,
  "sentiment_description": "Satisfied - the customer's question was answered promptly.",
  "action_items": [
    {"owner": "Agent", "status": "Done", "action_item": "Explain the billing line items."}
  ]
}`

// Model implements analyzer.Model with canned responses.
type Model struct {
	mu       sync.Mutex
	response string
	err      error
	calls    []string // audio URIs, in invocation order
}

// New creates a mock model that returns DefaultResponse.
func New() *Model {
	return &Model{response: DefaultResponse}
}

// SetResponse sets the raw text the next Generate calls return.
func (m *Model) SetResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
}

// SetError makes Generate fail with the given error.
func (m *Model) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the audio URIs Generate was invoked with.
func (m *Model) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Generate returns the canned response or error.
func (m *Model) Generate(ctx context.Context, audioURI, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, audioURI)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// Name identifies the mock model.
func (m *Model) Name() string { return "mock-insights-model" }
