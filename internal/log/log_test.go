package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func captureLogger(t *testing.T, kind string) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	original := Logger()
	ReplaceLogger(slog.New(newHandler(buf, kind)))
	t.Cleanup(func() {
		ReplaceLogger(original)
	})
	return buf
}

func TestInfoProducesLogfmtWithTimestamp(t *testing.T) {
	buf := captureLogger(t, "text")

	Info(context.Background(), "hello", "recipe", "toast")

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatalf("expected log output, got empty string")
	}
	for _, token := range []string{"ts=", "level=info", "msg=hello", "recipe=toast"} {
		if !strings.Contains(line, token) {
			t.Fatalf("expected %q in log line, got %q", token, line)
		}
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	buf := captureLogger(t, "json")

	Warn(context.Background(), "store slow", "op", "fetch_random")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode json log line: %v (%q)", err, buf.String())
	}
	if entry["level"] != "warn" {
		t.Fatalf("level = %v, want warn", entry["level"])
	}
	if entry["msg"] != "store slow" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key in %v", entry)
	}
}

func TestRequestIDIsAttached(t *testing.T) {
	buf := captureLogger(t, "text")

	ctx := WithRequestID(context.Background(), "abc-123")
	Info(ctx, "served")

	if got := RequestID(ctx); got != "abc-123" {
		t.Fatalf("RequestID() = %q", got)
	}
	if !strings.Contains(buf.String(), "request_id=abc-123") {
		t.Fatalf("expected request id in log line, got %q", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { _ = SetLevel("info") })

	tests := []struct {
		level   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"", slog.LevelInfo, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		err := SetLevel(tt.level)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SetLevel(%q) expected error", tt.level)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SetLevel(%q) error = %v", tt.level, err)
		}
		if got := levelVar.Level(); got != tt.want {
			t.Fatalf("SetLevel(%q) level = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSetFormatRejectsUnknown(t *testing.T) {
	t.Cleanup(func() { _ = SetFormat("text") })

	if err := SetFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if err := SetFormat("json"); err != nil {
		t.Fatalf("SetFormat(json) error = %v", err)
	}
	if _, ok := Logger().Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("expected json handler after SetFormat, got %T", Logger().Handler())
	}
}
