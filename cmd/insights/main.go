package main

import (
	"context"
	"os"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"conversation-insights-service/internal/alert"
	alertpubsub "conversation-insights-service/internal/alert/pubsub"
	"conversation-insights-service/internal/analyzer"
	"conversation-insights-service/internal/analyzer/vertex"
	fscasestore "conversation-insights-service/internal/casestore/firestore"
	"conversation-insights-service/internal/config"
	"conversation-insights-service/internal/events"
	"conversation-insights-service/internal/observability"
	"conversation-insights-service/internal/observability/logging"
	"conversation-insights-service/internal/orchestrator"
	"conversation-insights-service/internal/persist"
	bqsink "conversation-insights-service/internal/persist/bigquery"
	gcssink "conversation-insights-service/internal/persist/gcs"
	"conversation-insights-service/internal/relay"
)

// Function targets as deployed. FUNCTION_TARGET selects which one an
// instance serves; both are registered so a single binary covers both
// deployments.
const (
	targetInsights = "GenerateInsights"
	targetRelay    = "RelayAlertNotifications"
)

func main() {
	_ = godotenv.Load() // best-effort .env for local runs

	ctx := context.Background()
	cfg := config.Load(ctx)

	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: logging.DefaultConfig().TimeFormat,
	})

	if cfg.Project.ID == "" {
		log.Fatal().Msg("No project ID: set GOOGLE_CLOUD_PROJECT or run on GCE")
	}

	fsClient, err := firestore.NewClient(ctx, cfg.Project.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Firestore client")
	}
	defer fsClient.Close()

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Storage client")
	}
	defer storageClient.Close()

	bqClient, err := bigquery.NewClient(ctx, cfg.Project.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer bqClient.Close()

	psClient, err := pubsub.NewClient(ctx, cfg.Project.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Pub/Sub client")
	}
	defer psClient.Close()

	model, err := vertex.New(ctx, cfg.Project, cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Vertex model")
	}
	defer model.Close()

	cases := fscasestore.New(fsClient, cfg.Metadata.Collection)
	persister := persist.New(
		cases,
		gcssink.New(storageClient, cfg.Transcripts.Bucket),
		bqsink.New(bqClient, cfg.Analytics.Dataset, cfg.Analytics.Table),
	)
	publisher := alertpubsub.New(&alertpubsub.Config{
		TopicID: cfg.Alerts.Topic,
		Enabled: cfg.Alerts.Enabled,
	}, psClient)
	defer publisher.Close()

	dispatcher := alert.New(publisher, cfg.Alerts.SentimentThreshold)
	orch := orchestrator.New(cases, analyzer.New(model), persister, dispatcher)
	rel := relay.New(relay.Config{
		WebhookURL: cfg.Slack.WebhookURL,
		Channel:    cfg.Slack.Channel,
		Token:      cfg.Slack.Token,
	})

	functions.CloudEvent(targetInsights, events.NewUploadHandler(orch))
	functions.CloudEvent(targetRelay, events.NewAlertHandler(rel))

	obs := observability.NewServer(cfg.Observability.MetricsAddr)
	obs.Start()
	defer obs.Shutdown(ctx)

	log.Info().
		Str("service", cfg.Service.Name).
		Str("port", cfg.Service.Port).
		Str("project", cfg.Project.ID).
		Str("target", os.Getenv("FUNCTION_TARGET")).
		Msg("Conversation insights service starting")

	if err := funcframework.Start(cfg.Service.Port); err != nil {
		log.Fatal().Err(err).Msg("Functions framework stopped")
	}
}
