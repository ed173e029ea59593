// Package memory provides an in-memory case store for testing without
// cloud credentials.
package memory

import (
	"context"
	"sync"

	"conversation-insights-service/internal/casestore"
	"conversation-insights-service/internal/models"
)

// Store implements casestore.Store with an in-memory map keyed by doc ID.
type Store struct {
	mu      sync.Mutex
	records map[string]*models.CaseRecord
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[string]*models.CaseRecord)}
}

// Put inserts or replaces a case record under its DocID.
func (s *Store) Put(rec *models.CaseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records[rec.DocID] = &cp
}

// Get returns a copy of the record with the given doc ID, or nil.
func (s *Store) Get(docID string) *models.CaseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[docID]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}

// FindByContentURI scans for a record with a matching content URI.
func (s *Store) FindByContentURI(ctx context.Context, contentURI string) (*models.CaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ContentURI == contentURI {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, casestore.ErrNotFound
}

// AttachTranscript updates status and raw transcript in place.
func (s *Store) AttachTranscript(ctx context.Context, docID, serializedTranscript string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[docID]
	if !ok {
		return casestore.ErrNotFound
	}
	rec.Status = models.StatusTranscriptGenerated
	rec.RawTranscript = serializedTranscript
	return nil
}
