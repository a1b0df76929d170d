package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := New("development", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := New("production", "warn"); err != nil {
		t.Fatalf("New returned error: %v", err)
	}
}

func TestLogger_WithAddsFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With("component", "weeklystatus")

	log.Warn("weekly report has data quality warnings", "week", "2025-06 W4", "warnings", 2)
	log.Debug("data quality warning", "code", "nil_member")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "weeklystatus" || fields["week"] != "2025-06 W4" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if entries[0].Level != zapcore.WarnLevel || entries[1].Level != zapcore.DebugLevel {
		t.Fatalf("unexpected levels: %v, %v", entries[0].Level, entries[1].Level)
	}
}
