// Package alert evaluates sentiment scores against the alert threshold and
// publishes alert payloads to the alert topic.
package alert

import (
	"context"
	"fmt"

	"conversation-insights-service/internal/models"
	"conversation-insights-service/internal/observability/logging"
)

// Publisher publishes alert bytes to the alert topic.
type Publisher interface {
	Publish(ctx context.Context, data []byte) error
}

// Dispatcher decides whether an analysis result warrants an alert.
type Dispatcher struct {
	publisher Publisher
	threshold int
}

// New creates a Dispatcher with a fixed sentiment threshold.
func New(publisher Publisher, threshold int) *Dispatcher {
	return &Dispatcher{publisher: publisher, threshold: threshold}
}

// FormatPayload renders the alert payload as the line-oriented text block
// the relay parses. The wire format is `Key: value` lines; the relay
// tolerates missing keys, so both ends stay compatible.
func FormatPayload(p models.AlertPayload) string {
	msg := "🚨 Customer Sentiment Alert 🚨\n\n"
	msg += fmt.Sprintf("Case ID: %s\n", p.CaseID)
	msg += fmt.Sprintf("Sentiment Score: %d\n", p.SentimentScore)
	msg += fmt.Sprintf("Sentiment Description: %s\n", p.SentimentDescription)
	return msg
}

// Dispatch publishes an alert when the score is strictly below the
// threshold. Returns whether an alert was published. A publish failure is
// fatal for this step only: persistence has already completed when the
// orchestrator calls Dispatch, so a failure here can drop an alert even
// though the data is durably stored. That gap is accepted.
func (d *Dispatcher) Dispatch(ctx context.Context, result *models.AnalysisResult) (bool, error) {
	logger := logging.WithComponent("alert")

	if result.SentimentScore >= d.threshold {
		logger.Info().
			Str("caseId", result.CaseID).
			Int("sentimentScore", result.SentimentScore).
			Int("threshold", d.threshold).
			Msg("Sentiment at or above threshold, no alert")
		return false, nil
	}

	payload := models.AlertPayload{
		CaseID:               result.CaseID,
		SentimentScore:       result.SentimentScore,
		SentimentDescription: result.SentimentDescription,
	}

	if err := d.publisher.Publish(ctx, []byte(FormatPayload(payload))); err != nil {
		return false, fmt.Errorf("publish alert for case %s: %w", result.CaseID, err)
	}

	logger.Info().
		Str("caseId", result.CaseID).
		Int("sentimentScore", result.SentimentScore).
		Int("threshold", d.threshold).
		Msg("Sentiment alert published")
	return true, nil
}
