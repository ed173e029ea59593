package alert

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"conversation-insights-service/internal/models"
)

type fakePublisher struct {
	mu        sync.Mutex
	published [][]byte
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, data)
	return nil
}

func resultWithScore(score int) *models.AnalysisResult {
	return &models.AnalysisResult{
		CaseID:               "CASE-9",
		SentimentScore:       score,
		SentimentDescription: "Unsatisfied - long wait times.",
	}
}

func TestDispatch_ThresholdBoundary(t *testing.T) {
	const threshold = 5

	tests := []struct {
		name      string
		score     int
		wantAlert bool
	}{
		{"one below threshold alerts", threshold - 1, true},
		{"at threshold does not alert", threshold, false},
		{"above threshold does not alert", threshold + 1, false},
		{"minimum score alerts", 1, true},
		{"maximum score does not alert", 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			d := New(pub, threshold)

			published, err := d.Dispatch(context.Background(), resultWithScore(tt.score))
			if err != nil {
				t.Fatalf("Dispatch: %v", err)
			}
			if published != tt.wantAlert {
				t.Errorf("published = %v, want %v", published, tt.wantAlert)
			}
			if got := len(pub.published); (got == 1) != tt.wantAlert {
				t.Errorf("publisher received %d payloads, want alert=%v", got, tt.wantAlert)
			}
		})
	}
}

func TestDispatch_PayloadContents(t *testing.T) {
	pub := &fakePublisher{}
	d := New(pub, 5)

	published, err := d.Dispatch(context.Background(), resultWithScore(4))
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !published {
		t.Fatal("expected alert to be published")
	}

	payload := string(pub.published[0])
	for _, want := range []string{
		"Customer Sentiment Alert",
		"Case ID: CASE-9",
		"Sentiment Score: 4",
		"Sentiment Description: Unsatisfied - long wait times.",
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q:\n%s", want, payload)
		}
	}
}

func TestDispatch_PublishFailurePropagates(t *testing.T) {
	pub := &fakePublisher{err: errors.New("topic unavailable")}
	d := New(pub, 5)

	published, err := d.Dispatch(context.Background(), resultWithScore(2))
	if err == nil {
		t.Fatal("expected publish failure to propagate")
	}
	if published {
		t.Error("expected published=false on failure")
	}
}

func TestFormatPayload_ParseableLines(t *testing.T) {
	payload := FormatPayload(models.AlertPayload{
		CaseID:               "CASE-1",
		SentimentScore:       3,
		SentimentDescription: "Frustrated: repeated transfers",
	})

	// The relay splits on the first colon per line; colons inside values
	// must survive.
	if !strings.Contains(payload, "Sentiment Description: Frustrated: repeated transfers\n") {
		t.Errorf("unexpected payload:\n%s", payload)
	}
}
