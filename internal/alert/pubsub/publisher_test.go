package pubsub

import (
	"context"
	"testing"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"disabled", &Config{TopicID: "cc_genai_insights_topic", Enabled: false}},
		{"nil client", &Config{TopicID: "cc_genai_insights_topic", Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg, nil)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.topic != nil {
				t.Error("expected nil topic when disabled")
			}
		})
	}
}

func TestPublish_DisabledModeSucceeds(t *testing.T) {
	p := New(&Config{TopicID: "cc_genai_insights_topic", Enabled: false}, nil)

	if err := p.Publish(context.Background(), []byte("Case ID: CASE-1\n")); err != nil {
		t.Errorf("expected no error in log-only mode, got %v", err)
	}
}

func TestClose_DisabledModeIsNoop(t *testing.T) {
	p := New(nil, nil)
	p.Close()
}
