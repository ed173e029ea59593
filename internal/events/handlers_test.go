package events

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/cloudevents/sdk-go/v2/event"

	"conversation-insights-service/internal/alert"
	"conversation-insights-service/internal/analyzer"
	"conversation-insights-service/internal/analyzer/mock"
	"conversation-insights-service/internal/casestore/memory"
	"conversation-insights-service/internal/models"
	"conversation-insights-service/internal/orchestrator"
	"conversation-insights-service/internal/persist"
	"conversation-insights-service/internal/relay"
)

type nullObjectWriter struct{}

func (nullObjectWriter) WriteTranscript(ctx context.Context, caseID, content string) error {
	return nil
}

type nullRowAppender struct{}

func (nullRowAppender) Append(ctx context.Context, row *models.AnalyticsRow) error { return nil }

type recordingPublisher struct {
	mu        sync.Mutex
	published [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, data)
	return nil
}

func storageEvent(t *testing.T, bucket, name string) event.Event {
	t.Helper()
	e := event.New()
	e.SetID("event-1")
	e.SetSource("//storage.googleapis.com/projects/_/buckets/" + bucket)
	e.SetType("google.cloud.storage.object.v1.finalized")
	if err := e.SetData(event.ApplicationJSON, StorageObjectData{Bucket: bucket, Name: name}); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	return e
}

func pubsubEvent(t *testing.T, payload string) event.Event {
	t.Helper()
	encoded := base64.StdEncoding.EncodeToString([]byte(payload))
	raw := fmt.Sprintf(`{"message":{"data":%q,"messageId":"m-1"}}`, encoded)

	e := event.New()
	e.SetID("event-2")
	e.SetSource("//pubsub.googleapis.com/projects/p/topics/cc_genai_insights_topic")
	e.SetType("google.cloud.pubsub.topic.v1.messagePublished")
	if err := e.SetData(event.ApplicationJSON, json.RawMessage(raw)); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	return e
}

func TestUploadHandler_RunsPipeline(t *testing.T) {
	cases := memory.New()
	cases.Put(&models.CaseRecord{
		DocID:      "doc-1",
		CaseID:     "CASE-1",
		ContentURI: "gs://b1/call.wav",
		Status:     models.StatusUploaded,
	})
	pub := &recordingPublisher{}
	orch := orchestrator.New(
		cases,
		analyzer.New(mock.New()), // default mock response scores 7
		persist.New(cases, nullObjectWriter{}, nullRowAppender{}),
		alert.New(pub, 5),
	)
	handler := NewUploadHandler(orch)

	if err := handler(context.Background(), storageEvent(t, "b1", "call.wav")); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if cases.Get("doc-1").Status != models.StatusTranscriptGenerated {
		t.Error("expected pipeline to run from decoded storage event")
	}
	if len(pub.published) != 0 {
		t.Error("expected no alert for default mock score")
	}
}

func TestAlertHandler_DecodesBase64Payload(t *testing.T) {
	var captured string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	handler := NewAlertHandler(relay.New(relay.Config{
		WebhookURL: srv.URL,
		Channel:    "#general",
	}))

	payload := "Case ID: CASE-2\nSentiment Score: 3\nSentiment Description: Upset\n"
	if err := handler(context.Background(), pubsubEvent(t, payload)); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if !strings.Contains(captured, "CASE-2") {
		t.Errorf("expected decoded payload relayed to webhook, got:\n%s", captured)
	}
}

func TestUploadHandler_BadPayload(t *testing.T) {
	handler := NewUploadHandler(nil)

	e := event.New()
	e.SetID("event-3")
	e.SetType("google.cloud.storage.object.v1.finalized")
	e.SetSource("//storage.googleapis.com")
	if err := e.SetData(event.ApplicationJSON, json.RawMessage(`"not an object"`)); err != nil {
		t.Fatalf("SetData: %v", err)
	}

	if err := handler(context.Background(), e); err == nil {
		t.Fatal("expected decode error for malformed event payload")
	}
}
