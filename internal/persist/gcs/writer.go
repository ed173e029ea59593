// Package gcs provides a Cloud Storage transcript object writer.
package gcs

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// Writer implements persist.ObjectWriter on a Cloud Storage bucket.
type Writer struct {
	client *storage.Client
	bucket string
}

// New creates a writer targeting the given bucket.
func New(client *storage.Client, bucket string) *Writer {
	return &Writer{client: client, bucket: bucket}
}

// WriteTranscript uploads the transcript text to the fixed object key for
// the case. Object writes overwrite, so redelivered runs converge.
func (w *Writer) WriteTranscript(ctx context.Context, caseID, content string) error {
	name := fmt.Sprintf("raw_transcript_%s.txt", caseID)
	obj := w.client.Bucket(w.bucket).Object(name).NewWriter(ctx)
	obj.ContentType = "text/plain"

	if _, err := obj.Write([]byte(content)); err != nil {
		obj.Close()
		return fmt.Errorf("write transcript object %s: %w", name, err)
	}
	if err := obj.Close(); err != nil {
		return fmt.Errorf("close transcript object %s: %w", name, err)
	}
	return nil
}
