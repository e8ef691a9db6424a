package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return entry
}

func TestWithContextAddsRequestAndMemberIDs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, MemberIDKey, int64(3))
	log.WithContext(ctx).Info("hello")

	entry := decodeLine(t, &buf)
	if entry["request_id"] != "req-1" {
		t.Fatalf("expected request_id, got %v", entry)
	}
	if entry["member_id"] != float64(3) {
		t.Fatalf("expected member_id, got %v", entry)
	}
}

func TestWithContextSkipsMissingOrZeroValues(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), MemberIDKey, int64(0))
	if got := log.WithContext(ctx); got != log {
		t.Fatalf("expected the same logger when ctx carries nothing usable")
	}
	log.WithContext(ctx).Info("plain")

	entry := decodeLine(t, &buf)
	if _, ok := entry["request_id"]; ok {
		t.Fatalf("unexpected request_id in %v", entry)
	}
	if _, ok := entry["member_id"]; ok {
		t.Fatalf("unexpected member_id in %v", entry)
	}
}

func TestDevelopmentUsesTextAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("Development", &buf)

	log.Debug("visible")
	if !strings.Contains(buf.String(), "msg=visible") {
		t.Fatalf("expected text debug output, got %q", buf.String())
	}
}

func TestHelpersWriteStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.LeadEvent("close_job", 7, "Mike Johnson", "closed job")
	entry := decodeLine(t, &buf)
	if entry["msg"] != "lead_event" || entry["lead_id"] != float64(7) || entry["status"] != "closed job" {
		t.Fatalf("unexpected lead event %v", entry)
	}

	buf.Reset()
	log.ExternalCallFailed("gemini", "template", errors.New("quota"))
	entry = decodeLine(t, &buf)
	if entry["level"] != "ERROR" || entry["service"] != "gemini" || entry["error"] != "quota" {
		t.Fatalf("unexpected external failure entry %v", entry)
	}
}
