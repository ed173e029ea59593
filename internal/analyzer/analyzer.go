// Package analyzer invokes the generative model on an audio conversation
// and validates its structured output into an AnalysisResult.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"conversation-insights-service/internal/models"
	"conversation-insights-service/internal/observability/logging"
	"conversation-insights-service/internal/observability/metrics"
)

// Model is the generative model invocation boundary. Implementations submit
// the audio reference and instruction prompt and return the raw response text.
type Model interface {
	Generate(ctx context.Context, audioURI, prompt string) (string, error)
	Name() string
}

// MalformedOutputError indicates the model response could not be validated
// into the required structure. It is fatal for the pipeline run: no partial
// writes happen and the error propagates to the trigger infrastructure.
type MalformedOutputError struct {
	Reason string
	Err    error
}

func (e *MalformedOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed model output: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed model output: %s", e.Reason)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// Analyzer runs conversation analysis through a Model.
type Analyzer struct {
	model   Model
	metrics *metrics.Metrics
}

// New creates an Analyzer over the given model.
func New(model Model) *Analyzer {
	return &Analyzer{model: model, metrics: metrics.DefaultMetrics}
}

// modelResponse is the untrusted wire shape of the model output. Pointer and
// nil checks distinguish missing keys from zero values.
type modelResponse struct {
	RawTranscript        []models.TranscriptEntry `json:"raw_transcript"`
	DetailedSummary      *string                  `json:"detailed_summary"`
	SentimentScore       *int                     `json:"sentiment_score"`
	SentimentDescription string                   `json:"sentiment_description"`
	ActionItems          []models.ActionItem      `json:"action_items"`
}

// Analyze submits the audio conversation to the model and returns the
// validated result. Transient model errors propagate unwrapped; the caller
// relies on event redelivery for retry. Validation failures return a
// *MalformedOutputError.
func (a *Analyzer) Analyze(ctx context.Context, caseID, audioURI string) (*models.AnalysisResult, error) {
	logger := logging.WithComponent("analyzer")

	start := time.Now()
	raw, err := a.model.Generate(ctx, audioURI, insightsPrompt)
	if err != nil {
		a.metrics.RecordModelCall("model_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("model invocation: %w", err)
	}
	a.metrics.RecordModelCall("", time.Since(start).Seconds())

	resp, err := parseResponse(raw)
	if err != nil {
		logger.Error().Err(err).Str("caseId", caseID).Msg("Model response rejected")
		return nil, err
	}

	result := &models.AnalysisResult{
		CaseID:               caseID,
		AudioURI:             audioURI,
		ModelName:            a.model.Name(),
		RawText:              raw,
		Transcript:           resp.RawTranscript,
		Summary:              *resp.DetailedSummary,
		SentimentScore:       *resp.SentimentScore,
		SentimentDescription: resp.SentimentDescription,
		ActionItems:          resp.ActionItems,
	}

	logger.Info().
		Str("caseId", caseID).
		Int("sentimentScore", result.SentimentScore).
		Int("transcriptEntries", len(result.Transcript)).
		Int("actionItems", len(result.ActionItems)).
		Msg("Conversation analyzed")

	return result, nil
}

// parseResponse strips markdown fences and strictly validates the response.
func parseResponse(raw string) (*modelResponse, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, &MalformedOutputError{Reason: "empty response"}
	}

	var resp modelResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, &MalformedOutputError{Reason: "invalid JSON", Err: err}
	}

	if resp.RawTranscript == nil {
		return nil, &MalformedOutputError{Reason: "missing raw_transcript"}
	}
	if resp.DetailedSummary == nil {
		return nil, &MalformedOutputError{Reason: "missing detailed_summary"}
	}
	if resp.SentimentScore == nil {
		return nil, &MalformedOutputError{Reason: "missing sentiment_score"}
	}
	if resp.ActionItems == nil {
		return nil, &MalformedOutputError{Reason: "missing action_items"}
	}
	if score := *resp.SentimentScore; score < 1 || score > 10 {
		return nil, &MalformedOutputError{
			Reason: fmt.Sprintf("sentiment_score %d outside [1,10]", score),
		}
	}

	return &resp, nil
}

// stripFences removes markdown code-fence artifacts the model sometimes
// wraps around its JSON output.
func stripFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
