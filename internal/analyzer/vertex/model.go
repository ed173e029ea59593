// Package vertex provides a Vertex AI Gemini implementation of the
// analyzer model boundary.
package vertex

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"conversation-insights-service/internal/analyzer"
	"conversation-insights-service/internal/config"
)

// Model implements analyzer.Model using Vertex AI generative models.
type Model struct {
	client        *genai.Client
	name          string
	audioMIMEType string
	model         *genai.GenerativeModel
}

var _ analyzer.Model = (*Model)(nil)

// New creates a Vertex-backed model. Generation parameters and safety
// thresholds are fixed at construction from configuration.
func New(ctx context.Context, project config.ProjectConfig, cfg config.ModelConfig) (*Model, error) {
	client, err := genai.NewClient(ctx, project.ID, project.Location)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}

	m := client.GenerativeModel(cfg.Name)
	m.SetMaxOutputTokens(cfg.MaxOutputTokens)
	m.SetTemperature(cfg.Temperature)
	m.SetTopP(cfg.TopP)
	m.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockOnlyHigh},
	}

	return &Model{
		client:        client,
		name:          cfg.Name,
		audioMIMEType: cfg.AudioMIMEType,
		model:         m,
	}, nil
}

// Generate submits the audio reference and prompt and concatenates the text
// parts of the first candidate. No internal retry: transient errors surface
// to the caller, which relies on event redelivery.
func (m *Model) Generate(ctx context.Context, audioURI, prompt string) (string, error) {
	resp, err := m.model.GenerateContent(ctx,
		genai.FileData{MIMEType: m.audioMIMEType, FileURI: audioURI},
		genai.Text(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Name returns the configured model name.
func (m *Model) Name() string { return m.name }

// Close releases the underlying client.
func (m *Model) Close() error { return m.client.Close() }
