package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func resetRegistry(t *testing.T) {
	t.Helper()
	reg = newRegistry()
	t.Cleanup(func() { reg = newRegistry() })
}

func TestModuleLevelOverride(t *testing.T) {
	resetRegistry(t)
	Initialize(Config{
		Level:   "info",
		Format:  "text",
		Modules: map[string]string{"display": "debug", "api": "warn"},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"display", true, true, true},
		{"api", false, false, true},
		{"puzzle", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			h := GetLogger(tt.module).Handler()
			ctx := context.Background()
			if got := h.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("Debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := h.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("Info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := h.Enabled(ctx, slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("Warn enabled = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	resetRegistry(t)

	early := GetLogger("face")
	if early.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("logger before Initialize should default to info")
	}

	Initialize(Config{Level: "warn", Modules: map[string]string{"face": "debug"}})

	if !GetLogger("face").Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Initialize should apply the module override to an existing logger")
	}
	if GetLogger("face") != GetLogger("face") {
		t.Error("GetLogger should return the cached logger")
	}
}

func TestSetModuleLevel(t *testing.T) {
	resetRegistry(t)
	Initialize(Config{Level: "info"})

	logger := GetLogger("mqtt")
	if err := SetModuleLevel("mqtt", "debug"); err != nil {
		t.Fatalf("SetModuleLevel() error = %v", err)
	}
	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("existing logger should see the new level")
	}
	if got := ModuleLevels()["mqtt"]; got != "debug" {
		t.Errorf("ModuleLevels()[mqtt] = %q, want debug", got)
	}

	if err := SetModuleLevel("mqtt", "loud"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("SetModuleLevel(loud) error = %v, want ErrUnknownLevel", err)
	}
}

func TestHistoryCapturesRecords(t *testing.T) {
	resetRegistry(t)
	Initialize(Config{Level: "info"})

	var seen []LogEntry
	SetLogCallback(func(e LogEntry) { seen = append(seen, e) })

	GetLogger("display").Info("Rendered face",
		"layout", "english",
		"error", errors.New("boom"),
		slog.Group("time", "hour", 3),
		"fade", 300*time.Millisecond)
	GetLogger("display").Debug("filtered")

	got := History().Tail(1)
	if len(got) != 1 {
		t.Fatalf("Tail(1) returned %d entries", len(got))
	}
	e := got[0]
	if e.Module != "display" || e.Message != "Rendered face" || e.Level != "info" {
		t.Errorf("entry = %+v", e)
	}
	want := map[string]any{"layout": "english", "error": "boom", "time.hour": int64(3), "fade": "300ms"}
	for k, v := range want {
		if e.Attributes[k] != v {
			t.Errorf("Attributes[%q] = %v (%T), want %v", k, e.Attributes[k], e.Attributes[k], v)
		}
	}
	if _, ok := e.Attributes["module"]; ok {
		t.Error("module should not be repeated as an attribute")
	}
	if len(seen) != 1 {
		t.Errorf("callback saw %d entries, want 1", len(seen))
	}
}

func TestRingBuffer(t *testing.T) {
	rb := NewRingBuffer(3)
	if rb.ReadAll() != nil {
		t.Error("empty buffer should read nil")
	}

	for _, msg := range []string{"a", "b", "c", "d"} {
		rb.Write(LogEntry{Message: msg})
	}

	if rb.Count() != 3 {
		t.Errorf("Count() = %d, want 3", rb.Count())
	}
	var msgs []string
	for _, e := range rb.ReadAll() {
		msgs = append(msgs, e.Message)
	}
	if strings.Join(msgs, "") != "bcd" {
		t.Errorf("ReadAll() = %v, want [b c d]", msgs)
	}
	if last := rb.ReadAll()[2]; last.Seq != 4 {
		t.Errorf("last Seq = %d, want 4", last.Seq)
	}
	if tail := rb.Tail(2); len(tail) != 2 || tail[0].Message != "c" {
		t.Errorf("Tail(2) = %+v", tail)
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var debugBuf, infoBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	logger := slog.New(h).With("module", "puzzle")

	logger.Debug("searching", "word", "cat")
	logger.Info("solved")

	if !strings.Contains(debugBuf.String(), "searching") || !strings.Contains(debugBuf.String(), "solved") {
		t.Errorf("debug handler output = %q", debugBuf.String())
	}
	if strings.Contains(infoBuf.String(), "searching") {
		t.Error("info handler should not receive debug records")
	}
	if !strings.Contains(infoBuf.String(), "module=puzzle") {
		t.Errorf("info handler lost attrs: %q", infoBuf.String())
	}
}

func TestFormatLogLine(t *testing.T) {
	e := LogEntry{
		Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:      "warn",
		Module:     "mqtt",
		Message:    "reconnecting",
		Attributes: map[string]any{"retry": 2, "addr": "broker:1883"},
	}
	want := "2026-01-02T03:04:05Z WARN  [mqtt] reconnecting addr=broker:1883 retry=2"
	if got := FormatLogLine(e); got != want {
		t.Errorf("FormatLogLine() = %q, want %q", got, want)
	}
}

func TestJournalFields(t *testing.T) {
	fields := map[string]string{}
	journalFields(fields, nil, slog.String("module", "display"))
	journalFields(fields, []string{"tick"}, slog.Duration("took", 2*time.Millisecond))
	journalFields(fields, nil, slog.Group("word", slog.Int("cost", 7), slog.Bool("found", true)))

	want := map[string]string{
		"MODULE":     "display",
		"TICK_TOOK":  "2ms",
		"WORD_COST":  "7",
		"WORD_FOUND": "true",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %q, want %q", k, fields[k], v)
		}
	}
	if journalPriority(slog.LevelWarn) != 4 {
		t.Errorf("warn priority = %d, want 4", journalPriority(slog.LevelWarn))
	}
}
