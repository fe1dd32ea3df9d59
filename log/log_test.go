package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func captureLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewWithHandler(h), &buf
}

func TestModuleAttribute(t *testing.T) {
	l, buf := captureLogger()
	l.Module("prover").Info("receipt produced", "n", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log record: %v", err)
	}
	if rec["module"] != "prover" {
		t.Fatalf("module = %v, want prover", rec["module"])
	}
	if rec["msg"] != "receipt produced" {
		t.Fatalf("msg = %v", rec["msg"])
	}
}

func TestWithAddsContext(t *testing.T) {
	l, buf := captureLogger()
	l.With("engine", "mock").Warn("slow")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log record: %v", err)
	}
	if rec["engine"] != "mock" {
		t.Fatalf("engine = %v, want mock", rec["engine"])
	}
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, buf := captureLogger()
	SetDefault(l)
	Info("hello")
	if buf.Len() == 0 {
		t.Fatal("default logger did not receive record")
	}
	// nil is ignored
	SetDefault(nil)
	if Default() != l {
		t.Fatal("SetDefault(nil) replaced the logger")
	}
}

func TestVerbosityToLevel(t *testing.T) {
	cases := map[int]slog.Level{
		0: slog.LevelError,
		1: slog.LevelError,
		2: slog.LevelWarn,
		3: slog.LevelInfo,
		4: slog.LevelDebug,
		5: slog.LevelDebug,
	}
	for v, want := range cases {
		if got := VerbosityToLevel(v); got != want {
			t.Errorf("VerbosityToLevel(%d) = %v, want %v", v, got, want)
		}
	}
}
