package memory

import (
	"context"
	"errors"
	"testing"

	"conversation-insights-service/internal/casestore"
	"conversation-insights-service/internal/models"
)

func TestFindByContentURI(t *testing.T) {
	s := New()
	s.Put(&models.CaseRecord{
		DocID:      "doc-1",
		CaseID:     "CASE-1",
		ContentURI: "gs://b1/a.wav",
		Status:     models.StatusUploaded,
	})

	rec, err := s.FindByContentURI(context.Background(), "gs://b1/a.wav")
	if err != nil {
		t.Fatalf("FindByContentURI: %v", err)
	}
	if rec.CaseID != "CASE-1" {
		t.Errorf("expected CASE-1, got %s", rec.CaseID)
	}

	_, err = s.FindByContentURI(context.Background(), "gs://b1/missing.wav")
	if !errors.Is(err, casestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAttachTranscript(t *testing.T) {
	s := New()
	s.Put(&models.CaseRecord{DocID: "doc-1", CaseID: "CASE-1", Status: models.StatusUploaded})

	if err := s.AttachTranscript(context.Background(), "doc-1", `{"sentiment_score":5}`); err != nil {
		t.Fatalf("AttachTranscript: %v", err)
	}

	rec := s.Get("doc-1")
	if rec.Status != models.StatusTranscriptGenerated {
		t.Errorf("expected transcript_generated, got %s", rec.Status)
	}
	if rec.RawTranscript != `{"sentiment_score":5}` {
		t.Errorf("unexpected raw transcript %q", rec.RawTranscript)
	}

	if err := s.AttachTranscript(context.Background(), "missing", "x"); !errors.Is(err, casestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown doc, got %v", err)
	}
}
