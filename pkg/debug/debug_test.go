package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func withCapture(t *testing.T) *bytes.Buffer {
	t.Helper()
	prevEnabled := enabled
	prevLogger := logger
	t.Cleanup(func() {
		enabled = prevEnabled
		logger = prevLogger
	})

	var buf bytes.Buffer
	logger = nil
	SetOutput(&buf)
	return &buf
}

func TestLog_DisabledIsSilent(t *testing.T) {
	buf := withCapture(t)
	enabled = false

	Log("hello %d", 1)
	LogIf(true, "cond")
	LogEnterExit("fn")()
	Dump("v", 3)
	LogTiming("layout", time.Second)

	if buf.Len() != 0 {
		t.Fatalf("expected no output when disabled, got %q", buf.String())
	}
}

func TestLog_EnabledWritesPrefix(t *testing.T) {
	buf := withCapture(t)
	enabled = true

	Log("posting %d bytes", 42)
	LogIf(false, "should not appear")
	LogEnterExit("render")()

	out := buf.String()
	if !strings.Contains(out, prefix) {
		t.Errorf("missing prefix in %q", out)
	}
	if !strings.Contains(out, "posting 42 bytes") {
		t.Errorf("missing formatted message in %q", out)
	}
	if strings.Contains(out, "should not appear") {
		t.Errorf("LogIf(false) wrote output: %q", out)
	}
	if !strings.Contains(out, "-> render") || !strings.Contains(out, "<- render") {
		t.Errorf("missing enter/exit markers in %q", out)
	}
}

func TestLogTimingAndDump(t *testing.T) {
	buf := withCapture(t)
	enabled = true

	LogTiming("layout of 4 nodes", 1500*time.Millisecond)
	LogIf(true, "export: %d of %d graph images failed", 1, 2)
	Dump("config", struct{ Server string }{"http://localhost:8080"})

	out := buf.String()
	for _, want := range []string{
		"layout of 4 nodes took 1.5s",
		"export: 1 of 2 graph images failed",
		"config: struct { Server string } = {Server:http://localhost:8080}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}
