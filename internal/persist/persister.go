// Package persist fans an analysis result out to the persistence sinks.
// The fan-out is deliberately best-effort: each write is independent and a
// failure never blocks or rolls back the others.
package persist

import (
	"context"
	"encoding/json"
	"time"

	"conversation-insights-service/internal/casestore"
	"conversation-insights-service/internal/models"
	"conversation-insights-service/internal/observability/logging"
	"conversation-insights-service/internal/observability/metrics"
)

// Sink names as reported in results, logs and metrics.
const (
	SinkStatus     = "status"
	SinkTranscript = "transcript"
	SinkAnalytics  = "analytics"
)

// ObjectWriter writes the raw transcript text to object storage.
type ObjectWriter interface {
	WriteTranscript(ctx context.Context, caseID, content string) error
}

// RowAppender appends one row to the analytics table.
type RowAppender interface {
	Append(ctx context.Context, row *models.AnalyticsRow) error
}

// SinkResult reports the outcome of one sink write.
type SinkResult struct {
	Sink string
	Err  error
}

// Failed returns the subset of results that carry an error.
func Failed(results []SinkResult) []SinkResult {
	var failed []SinkResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Persister writes an AnalysisResult to the three sinks.
type Persister struct {
	cases     casestore.Store
	objects   ObjectWriter
	analytics RowAppender
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New creates a Persister over the given sinks.
func New(cases casestore.Store, objects ObjectWriter, analytics RowAppender) *Persister {
	return &Persister{
		cases:     cases,
		objects:   objects,
		analytics: analytics,
		metrics:   metrics.DefaultMetrics,
		now:       time.Now,
	}
}

// Persist performs the three writes in order and returns a result per sink.
// The status update and transcript object are overwrite-idempotent; the
// analytics append is not, so a redelivered run adds a duplicate row and
// analytics consumers de-duplicate on (case_id, timestamp).
func (p *Persister) Persist(ctx context.Context, docID string, result *models.AnalysisResult) []SinkResult {
	logger := logging.WithComponent("persister")

	results := make([]SinkResult, 0, 3)

	statusErr := p.writeStatus(ctx, docID, result)
	results = append(results, SinkResult{Sink: SinkStatus, Err: statusErr})

	transcriptErr := p.objects.WriteTranscript(ctx, result.CaseID, result.RawText)
	results = append(results, SinkResult{Sink: SinkTranscript, Err: transcriptErr})

	analyticsErr := p.writeAnalytics(ctx, result)
	results = append(results, SinkResult{Sink: SinkAnalytics, Err: analyticsErr})

	for _, r := range results {
		p.metrics.RecordSinkWrite(r.Sink, r.Err)
		if r.Err != nil {
			logger.Error().
				Err(r.Err).
				Str("sink", r.Sink).
				Str("caseId", result.CaseID).
				Msg("Sink write failed")
		} else {
			logger.Info().
				Str("sink", r.Sink).
				Str("caseId", result.CaseID).
				Msg("Sink write completed")
		}
	}

	return results
}

func (p *Persister) writeStatus(ctx context.Context, docID string, result *models.AnalysisResult) error {
	serialized, err := result.SerializedTranscript()
	if err != nil {
		return err
	}
	return p.cases.AttachTranscript(ctx, docID, serialized)
}

func (p *Persister) writeAnalytics(ctx context.Context, result *models.AnalysisResult) error {
	// The generation timestamp uses the same JSON-quoted form the analytics
	// consumers already parse.
	ts, err := json.Marshal(p.now().Format("2006-01-02 15:04:05.999999"))
	if err != nil {
		return err
	}
	row, err := models.NewAnalyticsRow(result, string(ts))
	if err != nil {
		return err
	}
	return p.analytics.Append(ctx, row)
}
