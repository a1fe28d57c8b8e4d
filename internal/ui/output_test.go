package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newTestOutput(format OutputFormat) (*Output, *bytes.Buffer) {
	var buf bytes.Buffer
	o := NewOutput(&buf)
	o.SetFormat(format)
	return o, &buf
}

func TestSuccessHumanFormat(t *testing.T) {
	o, buf := newTestOutput(FormatHuman)
	o.SetColorEnabled(false)
	o.Success("done")
	if got := buf.String(); got != "✓ done\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestSuccessJSONFormat(t *testing.T) {
	o, buf := newTestOutput(FormatJSON)
	o.Success("done")

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected valid JSON, got %q: %v", buf.String(), err)
	}
	if decoded["status"] != "success" || decoded["message"] != "done" {
		t.Fatalf("unexpected decoded JSON: %+v", decoded)
	}
}

func TestHeaderSuppressedInJSONFormat(t *testing.T) {
	o, buf := newTestOutput(FormatJSON)
	o.Header("a title")
	if buf.Len() != 0 {
		t.Fatalf("expected Header to print nothing in JSON mode, got %q", buf.String())
	}
}

func TestStatusLineFormatsMarkerAndDetail(t *testing.T) {
	o, buf := newTestOutput(FormatHuman)
	o.SetColorEnabled(false)
	o.StatusLine("+", "new.ts", "")
	o.StatusLine("~", "a.ts", "(local)")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %v", lines)
	}
	if lines[0] != "  + new.ts" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "  ~ a.ts (local)" {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}

func TestIsJSONReflectsFormat(t *testing.T) {
	o, _ := newTestOutput(FormatJSON)
	if !o.IsJSON() {
		t.Fatalf("expected IsJSON to be true after SetFormat(FormatJSON)")
	}
	o.SetFormat(FormatHuman)
	if o.IsJSON() {
		t.Fatalf("expected IsJSON to be false after SetFormat(FormatHuman)")
	}
}

func TestNewSpinnerDisabledInJSONFormat(t *testing.T) {
	o, _ := newTestOutput(FormatJSON)
	sp := o.NewSpinner("working")
	// Start/Stop/Fail must be safe no-ops when disabled; this should not
	// panic on a nil underlying spinner.
	sp.Start()
	sp.Stop()
	sp.Fail()
}
