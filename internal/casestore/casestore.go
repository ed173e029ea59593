// Package casestore defines the interface for the case metadata store.
package casestore

import (
	"context"
	"errors"

	"conversation-insights-service/internal/models"
)

// ErrNotFound is returned when no case record matches a content URI.
// A miss is expected for duplicate or stray uploads and is not an error
// condition for the pipeline.
var ErrNotFound = errors.New("case not found")

// Store provides access to case metadata documents.
type Store interface {
	// FindByContentURI resolves the case record whose gcsUri field equals
	// the given content URI. Returns ErrNotFound on a miss.
	FindByContentURI(ctx context.Context, contentURI string) (*models.CaseRecord, error)

	// AttachTranscript marks the case transcript_generated and stores the
	// serialized transcript. Overwrite semantics: re-running with the same
	// value is a no-op, which makes redelivery safe.
	AttachTranscript(ctx context.Context, docID, serializedTranscript string) error
}
