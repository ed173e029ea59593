// Package orchestrator sequences the insights pipeline for one upload
// event: metadata lookup, conversation analysis, result persistence and
// alert dispatch.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"conversation-insights-service/internal/alert"
	"conversation-insights-service/internal/analyzer"
	"conversation-insights-service/internal/casestore"
	"conversation-insights-service/internal/models"
	"conversation-insights-service/internal/observability/logging"
	"conversation-insights-service/internal/observability/metrics"
	"conversation-insights-service/internal/persist"
)

// Orchestrator owns the pipeline collaborators. It performs no internal
// retry: a failed invocation is redelivered by the trigger infrastructure,
// so every downstream step must be safe to repeat.
type Orchestrator struct {
	cases      casestore.Store
	analyzer   *analyzer.Analyzer
	persister  *persist.Persister
	dispatcher *alert.Dispatcher
	metrics    *metrics.Metrics
}

// New creates an Orchestrator.
func New(cases casestore.Store, an *analyzer.Analyzer, p *persist.Persister, d *alert.Dispatcher) *Orchestrator {
	return &Orchestrator{
		cases:      cases,
		analyzer:   an,
		persister:  p,
		dispatcher: d,
		metrics:    metrics.DefaultMetrics,
	}
}

// Run processes one upload event. Stages execute strictly in sequence
// within the invocation. Propagation policy:
//   - no matching case: logged, returns nil (terminal, non-retriable);
//   - analyzer failure (including malformed model output): returned, which
//     fails the invocation and lets the trigger infrastructure redeliver;
//   - sink write failures: logged per sink, never fatal;
//   - alert publish failure: logged, not returned — persistence has already
//     completed and failing the invocation would duplicate it wholesale.
func (o *Orchestrator) Run(ctx context.Context, ev models.UploadEvent) error {
	runID := uuid.NewString()
	contentURI := ev.ContentURI()
	logger := logging.WithRun(runID, contentURI)
	start := time.Now()

	logger.Info().
		Str("bucket", ev.Bucket).
		Str("object", ev.Name).
		Msg("Upload received")

	rec, err := o.cases.FindByContentURI(ctx, contentURI)
	if errors.Is(err, casestore.ErrNotFound) {
		logger.Info().Msg("No case record for upload, nothing to analyze")
		o.metrics.RecordLookupMiss()
		o.metrics.RecordRun(false, time.Since(start).Seconds())
		return nil
	}
	if err != nil {
		o.metrics.RecordRun(true, time.Since(start).Seconds())
		return err
	}

	caseLogger := logging.WithCase(runID, rec.CaseID)
	caseLogger.Info().Str("docId", rec.DocID).Msg("Case resolved")

	result, err := o.analyzer.Analyze(ctx, rec.CaseID, contentURI)
	if err != nil {
		caseLogger.Error().Err(err).Msg("Analysis failed, invocation will be redelivered")
		o.metrics.RecordRun(true, time.Since(start).Seconds())
		return err
	}

	sinkResults := o.persister.Persist(ctx, rec.DocID, result)
	if failed := persist.Failed(sinkResults); len(failed) > 0 {
		for _, f := range failed {
			caseLogger.Warn().
				Err(f.Err).
				Str("sink", f.Sink).
				Msg("Best-effort sink write failed, continuing")
		}
	}

	published, err := o.dispatcher.Dispatch(ctx, result)
	if err != nil {
		// Known limitation: the data is durably stored but the alert is
		// lost unless the upstream event is redelivered for another reason.
		caseLogger.Error().Err(err).Msg("Alert publish failed after persistence")
	} else if published {
		caseLogger.Info().Int("sentimentScore", result.SentimentScore).Msg("Alert dispatched")
	}

	o.metrics.RecordRun(false, time.Since(start).Seconds())
	caseLogger.Info().
		Dur("duration", time.Since(start)).
		Msg("Pipeline run completed")
	return nil
}
