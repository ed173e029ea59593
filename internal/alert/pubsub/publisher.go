// Package pubsub provides the alert topic publisher.
package pubsub

import (
	"context"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog/log"

	"conversation-insights-service/internal/observability/metrics"
)

// Publisher publishes alert payloads to a Pub/Sub topic.
type Publisher struct {
	topic   *pubsub.Topic
	topicID string
	enabled bool
	metrics *metrics.Metrics
}

// Config holds alert publisher configuration.
type Config struct {
	TopicID string
	Enabled bool
}

// New creates a new alert publisher. With a nil client or Enabled false the
// publisher runs in log-only mode, which keeps local runs and tests free of
// cloud credentials.
func New(cfg *Config, client *pubsub.Client) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Alert topic disabled (nil config), using log-only mode")
		return &Publisher{enabled: false, metrics: m}
	}

	if !cfg.Enabled || client == nil {
		log.Info().Msg("Alert topic disabled, using log-only mode")
		return &Publisher{
			topicID: cfg.TopicID,
			enabled: false,
			metrics: m,
		}
	}

	log.Info().
		Str("topic", cfg.TopicID).
		Msg("Alert publisher initialized")

	return &Publisher{
		topic:   client.Topic(cfg.TopicID),
		topicID: cfg.TopicID,
		enabled: true,
		metrics: m,
	}
}

// Publish sends the alert bytes to the topic and blocks until the server
// acknowledges. Delivery to subscribers is at-least-once; the relay must
// tolerate duplicates.
func (p *Publisher) Publish(ctx context.Context, data []byte) error {
	start := time.Now()

	log.Debug().
		Str("topic", p.topicID).
		Int("bytes", len(data)).
		Msg("Publishing alert")

	if !p.enabled || p.topic == nil {
		p.metrics.RecordAlertPublish(nil, time.Since(start).Seconds())
		return nil
	}

	result := p.topic.Publish(ctx, &pubsub.Message{Data: data})
	_, err := result.Get(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("topic", p.topicID).
			Msg("Failed to publish alert")
	}
	p.metrics.RecordAlertPublish(err, time.Since(start).Seconds())
	return err
}

// Close stops the topic's publish goroutines and flushes pending messages.
func (p *Publisher) Close() {
	if p.topic != nil {
		p.topic.Stop()
	}
}
