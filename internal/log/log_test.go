package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	cases := map[string]Level{
		"debug":  LevelDebug,
		"INFO":   LevelInfo,
		" error": LevelError,
		"none":   LevelNone,
		"bogus":  LevelDebug,
	}
	for in, want := range cases {
		if got := LevelFromString(in); got != want {
			t.Fatalf("LevelFromString(%q)=%v want %v", in, got, want)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Warnf("warned")
	l.Errorf("failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug message leaked at info level: %q", out)
	}
	for _, want := range []string{"INFO: shown 2", "WARN: warned", "ERROR: failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l *Logger
	l.Debugf("x")
	l.Infof("x")
	l.Errorf("x")
	l.SetLevel(LevelDebug)
	if l.Level() != LevelNone {
		t.Fatalf("nil logger level=%v", l.Level())
	}
}
