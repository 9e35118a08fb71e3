package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/config"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogConfig{Level: "info", Format: "JSON"}, false)

	logger.Debug("hidden")
	logger.Info("shown", "account_id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), buf.String())
	}

	var record map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "shown" || record["account_id"] != float64(7) {
		t.Errorf("record = %v", record)
	}
}

func TestNewWithWriterDebugOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogConfig{Level: "error"}, true)

	logger.Debug("visible")
	if !strings.Contains(buf.String(), "msg=visible") {
		t.Errorf("debug record missing from text output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
