// Package config loads the service configuration once at cold start.
// Every component receives the resulting struct by parameter; nothing
// reads ambient project state after Load returns.
package config

import (
	"context"
	"os"
	"strconv"

	"cloud.google.com/go/compute/metadata"
)

// ServiceConfig identifies the service instance.
type ServiceConfig struct {
	Name string
	Port string // Functions Framework HTTP port
}

// ProjectConfig is the deployment context resolved at cold start.
type ProjectConfig struct {
	ID       string
	Location string
}

// ModelConfig holds the fixed generation parameters for the insights model.
// These are constants of the deployment, never per-call parameters.
type ModelConfig struct {
	Name            string
	AudioMIMEType   string
	MaxOutputTokens int32
	Temperature     float32
	TopP            float32
}

// MetadataConfig addresses the case metadata document collection.
type MetadataConfig struct {
	Collection string
}

// TranscriptsConfig addresses the transcript object bucket.
type TranscriptsConfig struct {
	Bucket string
}

// AnalyticsConfig addresses the analytics table.
type AnalyticsConfig struct {
	Dataset string
	Table   string
}

// AlertsConfig holds the alert topic and the sentiment threshold. Scores
// strictly below the threshold raise an alert.
type AlertsConfig struct {
	Topic              string
	SentimentThreshold int
	Enabled            bool
}

// SlackConfig holds the chat webhook destination for the notification relay.
type SlackConfig struct {
	WebhookURL string
	Channel    string
	Token      string
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// Configuration is the complete service configuration.
type Configuration struct {
	Service       ServiceConfig
	Project       ProjectConfig
	Model         ModelConfig
	Metadata      MetadataConfig
	Transcripts   TranscriptsConfig
	Analytics     AnalyticsConfig
	Alerts        AlertsConfig
	Slack         SlackConfig
	Observability ObservabilityConfig
}

// Load resolves the configuration from the environment. The project ID comes
// from GOOGLE_CLOUD_PROJECT or, on GCE, from the metadata server; this is the
// only network call and happens exactly once per process.
func Load(ctx context.Context) *Configuration {
	cfg := &Configuration{
		Service: ServiceConfig{
			Name: envOrDefault("SERVICE_NAME", "conversation-insights-service"),
			Port: envOrDefault("PORT", "8080"),
		},
		Project: ProjectConfig{
			ID:       resolveProjectID(ctx),
			Location: envOrDefault("LOCATION", "asia-southeast1"),
		},
		Model: ModelConfig{
			Name:            envOrDefault("MODEL_NAME", "gemini-1.5-flash-001"),
			AudioMIMEType:   envOrDefault("AUDIO_MIME_TYPE", "audio/wav"),
			MaxOutputTokens: int32(envOrDefaultInt("MODEL_MAX_OUTPUT_TOKENS", 8192)),
			Temperature:     envOrDefaultFloat("MODEL_TEMPERATURE", 1),
			TopP:            envOrDefaultFloat("MODEL_TOP_P", 0.95),
		},
		Metadata: MetadataConfig{
			Collection: envOrDefault("METADATA_COLLECTION", "audio-files-metadata"),
		},
		Analytics: AnalyticsConfig{
			Dataset: envOrDefault("ANALYTICS_DATASET", "cc_genai_insights"),
			Table:   envOrDefault("ANALYTICS_TABLE", "genai_transcripts_v1"),
		},
		Alerts: AlertsConfig{
			Topic:              envOrDefault("ALERT_TOPIC", "cc_genai_insights_topic"),
			SentimentThreshold: envOrDefaultInt("SENTIMENT_THRESHOLD", 5),
			Enabled:            envOrDefaultBool("ALERTS_ENABLED", true),
		},
		Slack: SlackConfig{
			WebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
			Channel:    envOrDefault("SLACK_CHANNEL", "#general"),
			Token:      os.Getenv("SLACK_OAUTH_TOKEN"),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "json"),
			MetricsAddr: envOrDefault("METRICS_ADDR", ":9090"),
		},
	}

	// Transcript bucket is derived from the project unless overridden.
	cfg.Transcripts.Bucket = envOrDefault("TRANSCRIPT_BUCKET",
		cfg.Project.ID+"-operation-insights-transcript")

	return cfg
}

func resolveProjectID(ctx context.Context) string {
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	if metadata.OnGCE() {
		if id, err := metadata.ProjectIDWithContext(ctx); err == nil {
			return id
		}
	}
	return ""
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
