package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestJSONLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := buildLogger(Options{Level: "info", JSON: true, Output: &buf})
	defer cleanup()

	l.Info("restaurant viewed", zap.Uint("restaurant_id", 7))
	l.Debug("filtered out")

	out := buf.String()
	if !strings.Contains(out, `"msg":"restaurant viewed"`) || !strings.Contains(out, `"restaurant_id":7`) {
		t.Fatalf("unexpected output: %s", out)
	}
	if strings.Contains(out, "filtered out") {
		t.Fatalf("debug line should be dropped at info level: %s", out)
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := buildLogger(Options{Level: "loud", JSON: true, Output: &buf})
	defer cleanup()

	l.Info("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("info line missing: %q", buf.String())
	}
}

func TestRedirectStdLog(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := buildLogger(Options{Level: "info", JSON: true, Output: &buf})
	defer cleanup()

	undo := RedirectStdLog(l, zapcore.WarnLevel)
	log.Print("from std log")
	undo()

	if !strings.Contains(buf.String(), "from std log") || !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("std log not redirected: %s", buf.String())
	}
}
