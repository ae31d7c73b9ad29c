package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	type spec struct {
		in     string
		exp    Level
		expErr bool
	}
	specs := []spec{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{"", Notice, false},
		{" warn ", Warning, false},
		{"error", Error, false},
		{"verbose", Notice, true},
	}

	for index, s := range specs {
		got, err := ParseLevel(s.in)
		if (err != nil) != s.expErr {
			t.Fatalf("[spec %d] expected error %t; got %v", index, s.expErr, err)
		}
		if got != s.exp {
			t.Fatalf("[spec %d] expected level %d; got %d", index, s.exp, got)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	SetLevel(Warning)
	defer SetLevel(Notice)

	logger := New("logtest")
	logger.Notice("hidden")
	logger.Warningf("shown %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected notice message to be filtered; got %q", out)
	}
	if !strings.Contains(out, "shown 42") || !strings.Contains(out, "[logtest]") {
		t.Fatalf("expected warning with module name; got %q", out)
	}
}

func TestUnknownLevelOnlyShowsErrors(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	SetLevel(Level(42))
	defer SetLevel(Notice)

	logger := New("logtest")
	logger.Warning("hidden")
	logger.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("expected only the error message; got %q", out)
	}
}
