package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func withCapture(t *testing.T) *bytes.Buffer {
	t.Helper()
	wasEnabled := enabled
	var buf bytes.Buffer
	SetEnabled(true)
	SetOutput(&buf)
	t.Cleanup(func() {
		SetEnabled(wasEnabled)
		SetOutput(nopWriter{})
	})
	return &buf
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestLogWritesWhenEnabled(t *testing.T) {
	buf := withCapture(t)

	Log("loaded %d nodes", 21)
	if !strings.Contains(buf.String(), "loaded 21 nodes") {
		t.Errorf("missing message in %q", buf.String())
	}
	if !strings.Contains(buf.String(), prefix) {
		t.Errorf("missing prefix in %q", buf.String())
	}
}

func TestLogSilentWhenDisabled(t *testing.T) {
	buf := withCapture(t)
	SetEnabled(false)

	Log("should not appear")
	LogTiming("noop", time.Second)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogTimingAndLogIf(t *testing.T) {
	buf := withCapture(t)

	LogTiming("flatten", 5*time.Millisecond)
	LogIf(false, "hidden")
	LogIf(true, "shown %s", "yes")

	out := buf.String()
	if !strings.Contains(out, "flatten took 5ms") {
		t.Errorf("missing timing in %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("LogIf(false) should not log")
	}
	if !strings.Contains(out, "shown yes") {
		t.Error("LogIf(true) should log")
	}
}
