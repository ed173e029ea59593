package models

import (
	"reflect"
	"strings"
	"testing"
)

func sampleResult() *AnalysisResult {
	return &AnalysisResult{
		CaseID:    "CASE-9",
		AudioURI:  "gs://b1/call123.wav",
		ModelName: "gemini-1.5-flash-001",
		Transcript: []TranscriptEntry{
			{Speaker: "Agent", Text: "Hello", Timestamp: "0:08"},
			{Speaker: "Customer", Text: "Hi, my order never arrived", Timestamp: "0:10"},
		},
		Summary:              "Customer reported a missing order.",
		SentimentScore:       4,
		SentimentDescription: "Unsatisfied - the customer is frustrated about the delay.",
		ActionItems: []ActionItem{
			{Owner: "Agent", Status: "Not Done", Description: "Track the missing order."},
		},
	}
}

func TestUploadEvent_ContentURI(t *testing.T) {
	ev := UploadEvent{Bucket: "b1", Name: "call123.wav"}
	if got := ev.ContentURI(); got != "gs://b1/call123.wav" {
		t.Errorf("expected gs://b1/call123.wav, got %s", got)
	}
}

func TestAnalyticsRow_RoundTrip(t *testing.T) {
	orig := sampleResult()

	row, err := NewAnalyticsRow(orig, `"2026-08-31 10:00:00.000000"`)
	if err != nil {
		t.Fatalf("NewAnalyticsRow: %v", err)
	}

	if row.CaseID != "CASE-9" {
		t.Errorf("expected case_id CASE-9, got %s", row.CaseID)
	}
	if row.Language != "EN" {
		t.Errorf("expected language EN, got %s", row.Language)
	}
	if row.TranscriptURI != "" {
		t.Errorf("expected empty transcript_uri placeholder, got %s", row.TranscriptURI)
	}

	back, err := row.ToAnalysisResult()
	if err != nil {
		t.Fatalf("ToAnalysisResult: %v", err)
	}

	if !reflect.DeepEqual(back.Transcript, orig.Transcript) {
		t.Errorf("transcript not preserved: %+v != %+v", back.Transcript, orig.Transcript)
	}
	if !reflect.DeepEqual(back.ActionItems, orig.ActionItems) {
		t.Errorf("action items not preserved: %+v != %+v", back.ActionItems, orig.ActionItems)
	}
	if back.SentimentScore != orig.SentimentScore {
		t.Errorf("sentiment score not preserved: %d != %d", back.SentimentScore, orig.SentimentScore)
	}
	if back.SentimentDescription != orig.SentimentDescription {
		t.Errorf("sentiment description not preserved")
	}
	if back.Summary != orig.Summary {
		t.Errorf("summary not preserved")
	}
}

func TestSerializedTranscript_Deterministic(t *testing.T) {
	r := sampleResult()

	first, err := r.SerializedTranscript()
	if err != nil {
		t.Fatalf("SerializedTranscript: %v", err)
	}
	second, err := r.SerializedTranscript()
	if err != nil {
		t.Fatalf("SerializedTranscript: %v", err)
	}
	if first != second {
		t.Error("expected identical serialization across calls")
	}
}

func TestSerializedTranscript_WireKeys(t *testing.T) {
	r := sampleResult()
	s, err := r.SerializedTranscript()
	if err != nil {
		t.Fatalf("SerializedTranscript: %v", err)
	}
	for _, key := range []string{`"raw_transcript"`, `"detailed_summary"`, `"sentiment_score"`, `"sentiment_description"`, `"action_items"`, `"action_item"`} {
		if !strings.Contains(s, key) {
			t.Errorf("expected serialized transcript to contain %s", key)
		}
	}
}
