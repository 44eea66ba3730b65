package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/campus-oda/oda-rooms/internal/config"
)

func TestInitWriterEmitsJSONAtConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := InitWriter(&config.Config{AppName: "roomwatch", LogLevel: "warn"}, &buf)
	if err != nil {
		t.Fatalf("InitWriter: %v", err)
	}

	log.InfoObj("dropped", "k", 1)
	log.WarnObj("rooms polled", "poll", map[string]any{"count": 3})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["msg"] != "rooms polled" || entry["app"] != "roomwatch" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts key in %v", entry)
	}
	poll, ok := entry["poll"].(map[string]any)
	if !ok || poll["count"] != float64(3) {
		t.Fatalf("unexpected poll field %v", entry["poll"])
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got.String() != "info" {
		t.Fatalf("parseLevel = %s", got)
	}
	if got := parseLevel("warning"); got.String() != "warn" {
		t.Fatalf("parseLevel = %s", got)
	}
}

func TestNopLoggerSatisfiesInterface(t *testing.T) {
	var l Logger = &NopLogger{}
	l.ErrorObj("ignored", "k", nil)
}
