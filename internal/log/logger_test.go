package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestInitialize(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)
	defer Initialize(LevelQuiet, os.Stderr)

	if Verbosity() != LevelInfo {
		t.Errorf("expected verbosity %d, got %d", LevelInfo, Verbosity())
	}
}

func TestQuietShowsStagesAndWarnings(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelQuiet, &buf)
	defer Initialize(LevelQuiet, os.Stderr)

	Info("hidden info")
	Debug("hidden debug")
	Stage("creating repository", "repo", "widget")
	Warn("skipping repository", "repo", "widget")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info/debug to be suppressed, got %q", out)
	}
	if !strings.Contains(out, "level=STAGE") {
		t.Errorf("expected STAGE level in output, got %q", out)
	}
	if !strings.Contains(out, "skipping repository") {
		t.Errorf("expected warning in output, got %q", out)
	}
}

func TestTraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelTrace, &buf)
	defer Initialize(LevelQuiet, os.Stderr)

	Trace("request", "path", "/repos")
	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected TRACE level in output, got %q", buf.String())
	}
}

func TestVerbosityLevels(t *testing.T) {
	tests := []struct {
		level   int
		isInfo  bool
		isDebug bool
		isTrace bool
	}{
		{LevelQuiet, false, false, false},
		{LevelInfo, true, false, false},
		{LevelDebug, true, true, false},
		{LevelTrace, true, true, true},
	}

	var buf bytes.Buffer
	defer Initialize(LevelQuiet, os.Stderr)
	for _, tt := range tests {
		Initialize(tt.level, &buf)

		if IsInfo() != tt.isInfo {
			t.Errorf("at level %d: expected IsInfo()=%v, got %v", tt.level, tt.isInfo, IsInfo())
		}
		if IsDebug() != tt.isDebug {
			t.Errorf("at level %d: expected IsDebug()=%v, got %v", tt.level, tt.isDebug, IsDebug())
		}
		if IsTrace() != tt.isTrace {
			t.Errorf("at level %d: expected IsTrace()=%v, got %v", tt.level, tt.isTrace, IsTrace())
		}
	}
}

func TestProgressLines(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)
	defer Initialize(LevelQuiet, os.Stderr)

	Progress("import status: %s", "importing")
	ProgressDone()
	if !strings.Contains(buf.String(), "import status: importing done") {
		t.Errorf("unexpected progress output %q", buf.String())
	}

	Progress("again")
	ProgressClear()
	Separator()
	if !strings.Contains(buf.String(), "----") {
		t.Errorf("expected separator in output, got %q", buf.String())
	}
}
