// Package bigquery provides the analytics table row appender.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"conversation-insights-service/internal/models"
)

// Appender implements persist.RowAppender on a BigQuery table.
type Appender struct {
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

// New creates an appender targeting the given dataset and table.
func New(client *bigquery.Client, dataset, table string) *Appender {
	return &Appender{
		inserter: client.Dataset(dataset).Table(table).Inserter(),
		dataset:  dataset,
		table:    table,
	}
}

// Append inserts one analytics row. Append-only: every call adds a row, so
// redelivered runs produce duplicates by design.
func (a *Appender) Append(ctx context.Context, row *models.AnalyticsRow) error {
	if err := a.inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("insert analytics row into %s.%s: %w", a.dataset, a.table, err)
	}
	return nil
}
