package telemetry_test

import (
	"context"
	"strings"
	"testing"

	"github.com/JaimeStill/roster/pkg/telemetry"
)

func TestSetupNoopWhenDisabled(t *testing.T) {
	cfg := &telemetry.Config{Enabled: false, Endpoint: "http://localhost:4318"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	shutdown, err := telemetry.Setup(context.Background(), cfg, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	cfg := &telemetry.Config{Enabled: true}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Active() {
		t.Fatal("config without endpoint should be inactive")
	}

	shutdown, err := telemetry.Setup(context.Background(), cfg, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSetupCreatesProvider(t *testing.T) {
	// non-routable address; nothing is exported before shutdown
	cfg := &telemetry.Config{Enabled: true, Endpoint: "http://192.0.2.1:4318"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	shutdown, err := telemetry.Setup(context.Background(), cfg, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_OTEL_ENABLED", "true")
	t.Setenv("TEST_OTEL_ENDPOINT", "http://collector:4318")
	t.Setenv("TEST_OTEL_RATIO", "0.25")

	cfg := &telemetry.Config{}
	err := cfg.Finalize(&telemetry.Env{
		Enabled:     "TEST_OTEL_ENABLED",
		Endpoint:    "TEST_OTEL_ENDPOINT",
		SampleRatio: "TEST_OTEL_RATIO",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if !cfg.Active() {
		t.Error("config should be active")
	}
	if cfg.ServiceName != "roster" {
		t.Errorf("service name = %q, want roster", cfg.ServiceName)
	}
	if cfg.SampleRatio != 0.25 {
		t.Errorf("sample ratio = %v, want 0.25", cfg.SampleRatio)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  telemetry.Config
		want string
	}{
		{"ratio above one", telemetry.Config{SampleRatio: 2}, "sample_ratio"},
		{"relative endpoint", telemetry.Config{Endpoint: "collector"}, "invalid endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := &telemetry.Config{Enabled: true, Endpoint: "http://a:4318", ServiceName: "roster"}
	base.Merge(&telemetry.Config{Endpoint: "http://b:4318"})

	if base.Enabled {
		t.Error("enabled should follow overlay")
	}
	if base.Endpoint != "http://b:4318" {
		t.Errorf("endpoint = %q", base.Endpoint)
	}
	if base.ServiceName != "roster" {
		t.Errorf("service name overwritten: %q", base.ServiceName)
	}
}
