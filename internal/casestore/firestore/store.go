// Package firestore provides a Firestore-backed case metadata store.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"conversation-insights-service/internal/casestore"
	"conversation-insights-service/internal/models"
)

// Store implements casestore.Store on a Firestore collection.
type Store struct {
	client     *firestore.Client
	collection string
}

// New creates a Firestore-backed store over the given collection.
func New(client *firestore.Client, collection string) *Store {
	return &Store{client: client, collection: collection}
}

// FindByContentURI queries the collection by equality on the gcsUri field.
func (s *Store) FindByContentURI(ctx context.Context, contentURI string) (*models.CaseRecord, error) {
	iter := s.client.Collection(s.collection).
		Where("gcsUri", "==", contentURI).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, casestore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query case by content uri: %w", err)
	}

	var rec models.CaseRecord
	if err := doc.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("decode case record: %w", err)
	}
	rec.DocID = doc.Ref.ID
	return &rec, nil
}

// AttachTranscript updates status and raw_transcript by document ID.
func (s *Store) AttachTranscript(ctx context.Context, docID, serializedTranscript string) error {
	_, err := s.client.Collection(s.collection).Doc(docID).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(models.StatusTranscriptGenerated)},
		{Path: "raw_transcript", Value: serializedTranscript},
	})
	if err != nil {
		return fmt.Errorf("update case %s: %w", docID, err)
	}
	return nil
}
