package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFromEnvRespectsVerboseOverLog(t *testing.T) {
	t.Setenv("VT_VERBOSE", "1")
	t.Setenv("VT_LOG", "1")
	l := FromEnv()
	if l.level != LevelDebug {
		t.Fatalf("expected VT_VERBOSE to select LevelDebug, got %v", l.level)
	}
}

func TestFromEnvDefaultsToSilent(t *testing.T) {
	t.Setenv("VT_VERBOSE", "")
	t.Setenv("VT_LOG", "")
	l := FromEnv()
	if l.level != LevelSilent {
		t.Fatalf("expected no env vars to select LevelSilent, got %v", l.level)
	}
}

func TestDebugfSuppressedBelowDebugLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	l := NewFileLogger(LevelInfo, path, 1, 1, 1)
	l.Debugf("should not appear")
	l.Infof("should appear")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected the file logger to have written something: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "should not appear") {
		t.Fatalf("expected Debugf to be suppressed at LevelInfo, got %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("expected Infof to be written at LevelInfo, got %q", out)
	}
}

func TestOperationLogsSuccessAndFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	l := NewFileLogger(LevelInfo, path, 1, 1, 1)

	if err := l.Operation("noop", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	boom := os.ErrClosed
	if err := l.Operation("will-fail", func() error { return boom }); err != boom {
		t.Fatalf("expected Operation to pass through fn's error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "completed: noop") {
		t.Fatalf("expected a completion line for noop, got %q", out)
	}
	if !strings.Contains(out, "failed: will-fail") {
		t.Fatalf("expected a failure line for will-fail, got %q", out)
	}
}

func TestMetricsReportSummarizesCalls(t *testing.T) {
	m := NewMetrics()
	if got := m.Report(); got != "no API calls made" {
		t.Fatalf("expected a fresh Metrics to report no calls, got %q", got)
	}

	m.Record(200, 10*time.Millisecond)
	m.Record(404, 20*time.Millisecond)
	m.Record(429, 30*time.Millisecond)

	if m.TotalCalls != 3 || m.SuccessfulCalls != 1 || m.FailedCalls != 2 || m.RateLimitHits != 1 {
		t.Fatalf("unexpected counters: %+v", m)
	}
	report := m.Report()
	if !strings.Contains(report, "3 total") || !strings.Contains(report, "1 rate-limited") {
		t.Fatalf("expected the report to mention totals and rate limits, got %q", report)
	}
}
