package common

import (
	"fmt"
	"log/slog"
	"testing"
	"time"
)

func TestLogSinkBoundsHistory(t *testing.T) {
	sink := newLogSink(3)
	for i := 0; i < 5; i++ {
		record := slog.NewRecord(time.Now(), slog.LevelInfo, fmt.Sprintf("store: event %d", i), 0)
		sink.capture(record)
	}
	entries := sink.entries()
	if len(entries) != 3 {
		t.Fatalf("history = %d entries, want 3", len(entries))
	}
	if entries[0].Message != "store: event 2" || entries[2].Message != "store: event 4" {
		t.Fatalf("unexpected window: %q .. %q", entries[0].Message, entries[2].Message)
	}
}

func TestBuildLogEntry(t *testing.T) {
	record := slog.NewRecord(time.Now(), slog.LevelWarn, "api: slow request", 0)
	record.AddAttrs(slog.String("path", "/v1/students"), slog.Int("status", 200))
	entry := buildLogEntry(record)
	if entry.Level != "warn" {
		t.Fatalf("level = %q", entry.Level)
	}
	if entry.Component != "api" {
		t.Fatalf("component = %q", entry.Component)
	}
	if entry.Attributes["path"] != "/v1/students" {
		t.Fatalf("attributes = %v", entry.Attributes)
	}
}

func TestBuildLogEntryWithoutComponent(t *testing.T) {
	record := slog.NewRecord(time.Time{}, slog.LevelInfo, "standalone message", 0)
	entry := buildLogEntry(record)
	if entry.Component != "" {
		t.Fatalf("component = %q, want empty", entry.Component)
	}
	if entry.Time.IsZero() {
		t.Fatal("zero record time should be backfilled")
	}
}

func TestLoggerSingleton(t *testing.T) {
	if Logger() != Logger() {
		t.Fatal("Logger should return the same instance")
	}
}
