// Package relay consumes alert topic events and delivers chat
// notifications to the Slack webhook.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"conversation-insights-service/internal/observability/logging"
	"conversation-insights-service/internal/observability/metrics"
)

// Recognized keys in the alert payload's `Key: value` lines.
const (
	KeyCaseID               = "Case ID"
	KeySentimentScore       = "Sentiment Score"
	KeySentimentDescription = "Sentiment Description"
)

// Config holds the webhook destination.
type Config struct {
	WebhookURL string
	Channel    string
	Token      string
}

// Relay posts alert notifications to a chat webhook. Delivery is
// best-effort, at-most-once from this stage: a non-success response is
// logged and never retried; topic redelivery is the only retry mechanism
// and duplicate notifications are acceptable.
type Relay struct {
	cfg        Config
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// New creates a Relay for the given webhook.
func New(cfg Config) *Relay {
	return &Relay{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		metrics: metrics.DefaultMetrics,
	}
}

// ParsePayload parses the line-oriented `Key: value` alert text into a map.
// Lines without a colon are ignored; splitting on the first colon keeps
// colons inside values intact. Missing recognized keys simply stay absent.
func ParsePayload(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return fields
}

// BuildMessage renders the human-readable notification from the parsed
// fields. Absent keys render as empty values rather than failing.
func BuildMessage(fields map[string]string) string {
	msg := "🚨 Customer Sentiment Alert 🚨\n\n"
	msg += fmt.Sprintf("Case ID: %s\n", fields[KeyCaseID])
	msg += fmt.Sprintf("Sentiment Score: %s\n", fields[KeySentimentScore])
	msg += fmt.Sprintf("Sentiment Description: %s\n", fields[KeySentimentDescription])
	return msg
}

// webhookRequest is the chat webhook contract: token, channel and text in a
// JSON body.
type webhookRequest struct {
	Token   string `json:"token"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// HandleAlert processes one alert payload: parse, build the message, post
// to the webhook. Only a transport-level failure returns an error; a
// non-200 response is logged and swallowed.
func (r *Relay) HandleAlert(ctx context.Context, payload []byte) error {
	logger := logging.WithComponent("relay")

	fields := ParsePayload(string(payload))
	message := BuildMessage(fields)

	logger.Info().
		Str("caseId", fields[KeyCaseID]).
		Str("sentimentScore", fields[KeySentimentScore]).
		Msg("Relaying sentiment alert")

	body, err := json.Marshal(webhookRequest{
		Token:   r.cfg.Token,
		Channel: r.cfg.Channel,
		Text:    message,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.metrics.RecordNotification(err)
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		logger.Error().
			Int("status", resp.StatusCode).
			Str("response", string(respBody)).
			Str("caseId", fields[KeyCaseID]).
			Msg("Chat notification rejected")
		r.metrics.RecordNotification(fmt.Errorf("webhook status %d", resp.StatusCode))
		return nil
	}

	logger.Info().
		Str("caseId", fields[KeyCaseID]).
		Msg("Chat notification delivered")
	r.metrics.RecordNotification(nil)
	return nil
}
