package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wonny/fairval/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "json",
	}

	log := New(cfg)
	if log == nil {
		t.Fatal("Expected logger to be created")
	}

	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("Expected global level debug, got %v", zerolog.GlobalLevel())
	}
}

func TestWithFieldsProducesJSON(t *testing.T) {
	var buf bytes.Buffer
	base := &Logger{zlog: zerolog.New(&buf)}

	base.WithComponent("prices").
		WithField("ticker", "AAPL").
		WithFields(map[string]interface{}{"count": 3}).
		Info("test message")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}

	if entry["component"] != "prices" {
		t.Errorf("Expected component=prices, got %v", entry["component"])
	}
	if entry["ticker"] != "AAPL" {
		t.Errorf("Expected ticker=AAPL, got %v", entry["ticker"])
	}
	if entry["count"] != float64(3) {
		t.Errorf("Expected count=3, got %v", entry["count"])
	}
	if entry["message"] != "test message" {
		t.Errorf("Expected message to be set, got %v", entry["message"])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	base := &Logger{zlog: zerolog.New(&buf)}

	base.WithError(errors.New("boom")).Error("failed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}

	if entry["error"] != "boom" {
		t.Errorf("Expected error=boom, got %v", entry["error"])
	}
}

func TestNewNopDiscards(t *testing.T) {
	log := NewNop()

	// Must not panic on any path
	log.Debug("a")
	log.Infof("b %d", 1)
	log.WithComponent("x").WithField("k", "v").Warn("c")
	log.WithError(errors.New("e")).Error("d")
}
