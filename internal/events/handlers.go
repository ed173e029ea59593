// Package events adapts CloudEvents from the trigger infrastructure to the
// pipeline entry points.
package events

import (
	"context"
	"fmt"

	"github.com/cloudevents/sdk-go/v2/event"

	"conversation-insights-service/internal/models"
	"conversation-insights-service/internal/orchestrator"
	"conversation-insights-service/internal/relay"
)

// StorageObjectData is the payload of a storage upload event.
type StorageObjectData struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// MessagePublishedData is the payload of a Pub/Sub-triggered event.
type MessagePublishedData struct {
	Message PubsubMessage `json:"message"`
}

// PubsubMessage is the message envelope. Data arrives base64-encoded on the
// wire; encoding/json decodes it into raw bytes.
type PubsubMessage struct {
	Data      []byte `json:"data"`
	MessageID string `json:"messageId"`
}

// NewUploadHandler returns the CloudEvent handler for storage upload events.
func NewUploadHandler(o *orchestrator.Orchestrator) func(context.Context, event.Event) error {
	return func(ctx context.Context, e event.Event) error {
		var data StorageObjectData
		if err := e.DataAs(&data); err != nil {
			return fmt.Errorf("decode storage event %s: %w", e.ID(), err)
		}
		return o.Run(ctx, models.UploadEvent{Bucket: data.Bucket, Name: data.Name})
	}
}

// NewAlertHandler returns the CloudEvent handler for alert topic events.
func NewAlertHandler(r *relay.Relay) func(context.Context, event.Event) error {
	return func(ctx context.Context, e event.Event) error {
		var data MessagePublishedData
		if err := e.DataAs(&data); err != nil {
			return fmt.Errorf("decode pubsub event %s: %w", e.ID(), err)
		}
		return r.HandleAlert(ctx, data.Message.Data)
	}
}
