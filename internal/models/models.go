// Package models defines the data structures that flow through the
// insights pipeline: upload events, case metadata, analysis results,
// alert payloads and analytics rows.
package models

import "encoding/json"

// UploadEvent is the storage upload notification that starts a pipeline run.
type UploadEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// ContentURI returns the canonical gs:// URI for the uploaded object.
func (e UploadEvent) ContentURI() string {
	return "gs://" + e.Bucket + "/" + e.Name
}

// CaseStatus tracks where a case sits in the pipeline.
type CaseStatus string

const (
	StatusUploaded            CaseStatus = "uploaded"
	StatusTranscriptGenerated CaseStatus = "transcript_generated"
	StatusFailed              CaseStatus = "failed"
)

// CaseRecord is the metadata document that ties an uploaded audio file to a
// customer-service case. Owned by the metadata store; this pipeline reads it
// by content URI and updates status and raw_transcript exactly once per
// successful analysis.
type CaseRecord struct {
	DocID         string     `firestore:"-"`
	CaseID        string     `firestore:"caseid"`
	ContentURI    string     `firestore:"gcsUri"`
	Status        CaseStatus `firestore:"status"`
	RawTranscript string     `firestore:"raw_transcript"`
}

// TranscriptEntry is one utterance in the conversation transcript.
type TranscriptEntry struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ActionItem is a follow-up extracted from the conversation. The model
// contract names the description field "action_item".
type ActionItem struct {
	Owner       string `json:"owner"`
	Status      string `json:"status"`
	Description string `json:"action_item"`
}

// AnalysisResult is the normalized output of one successful model
// invocation. Immutable after creation; fanned out to three sinks.
type AnalysisResult struct {
	CaseID               string
	AudioURI             string
	ModelName            string
	RawText              string // unmodified model response text
	Transcript           []TranscriptEntry
	Summary              string
	SentimentScore       int
	SentimentDescription string
	ActionItems          []ActionItem
}

// SerializedTranscript returns the compact JSON form of the structured model
// output, as stored on the case record.
func (r *AnalysisResult) SerializedTranscript() (string, error) {
	doc := struct {
		RawTranscript        []TranscriptEntry `json:"raw_transcript"`
		DetailedSummary      string            `json:"detailed_summary"`
		SentimentScore       int               `json:"sentiment_score"`
		SentimentDescription string            `json:"sentiment_description"`
		ActionItems          []ActionItem      `json:"action_items"`
	}{r.Transcript, r.Summary, r.SentimentScore, r.SentimentDescription, r.ActionItems}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AlertPayload carries the fields rendered into a sentiment alert. Created
// only when the score falls below the threshold; the relay must tolerate
// duplicate deliveries.
type AlertPayload struct {
	CaseID               string
	SentimentScore       int
	SentimentDescription string
}

// AnalyticsRow is one append-only row in the analytics table: a flattened
// AnalysisResult plus the generation timestamp. TranscriptURI is reserved
// for future linkage and always empty today.
type AnalyticsRow struct {
	CaseID               string `bigquery:"case_id"`
	Timestamp            string `bigquery:"timestamp"`
	ModelUsed            string `bigquery:"model_used"`
	Language             string `bigquery:"language"`
	AudioURI             string `bigquery:"audio_uri"`
	TranscriptURI        string `bigquery:"transcript_uri"`
	Transcripts          string `bigquery:"transcripts"`
	TranscriptAISummary  string `bigquery:"transcript_ai_summary"`
	SentimentScore       int    `bigquery:"sentiment_score"`
	SentimentDescription string `bigquery:"sentiment_description"`
	ActionItems          string `bigquery:"action_items"`
}

// NewAnalyticsRow flattens an AnalysisResult into a table row. Transcript
// entries and action items are serialized as JSON strings per the table
// schema.
func NewAnalyticsRow(r *AnalysisResult, timestamp string) (*AnalyticsRow, error) {
	transcripts, err := json.Marshal(r.Transcript)
	if err != nil {
		return nil, err
	}
	actionItems, err := json.Marshal(r.ActionItems)
	if err != nil {
		return nil, err
	}
	return &AnalyticsRow{
		CaseID:               r.CaseID,
		Timestamp:            timestamp,
		ModelUsed:            r.ModelName,
		Language:             "EN",
		AudioURI:             r.AudioURI,
		TranscriptURI:        "",
		Transcripts:          string(transcripts),
		TranscriptAISummary:  r.Summary,
		SentimentScore:       r.SentimentScore,
		SentimentDescription: r.SentimentDescription,
		ActionItems:          string(actionItems),
	}, nil
}

// ToAnalysisResult reconstructs the structured result from a flattened row.
// Used by analytics consumers; round-trips transcript entries, action items
// and sentiment fields exactly.
func (row *AnalyticsRow) ToAnalysisResult() (*AnalysisResult, error) {
	var transcript []TranscriptEntry
	if err := json.Unmarshal([]byte(row.Transcripts), &transcript); err != nil {
		return nil, err
	}
	var actionItems []ActionItem
	if err := json.Unmarshal([]byte(row.ActionItems), &actionItems); err != nil {
		return nil, err
	}
	return &AnalysisResult{
		CaseID:               row.CaseID,
		AudioURI:             row.AudioURI,
		ModelName:            row.ModelUsed,
		Transcript:           transcript,
		Summary:              row.TranscriptAISummary,
		SentimentScore:       row.SentimentScore,
		SentimentDescription: row.SentimentDescription,
		ActionItems:          actionItems,
	}, nil
}
