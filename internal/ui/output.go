// Package ui renders operation results as either human-readable colored
// text or JSON, auto-detected from whether stdout is a TTY. It is adapted
// from the teacher's output helper, generalized past status messages to
// the diff-style rendering vt's operations need (status, checkout, push
// summaries).
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
)

// Output handles formatted output to the user.
type Output struct {
	writer       io.Writer
	format       OutputFormat
	autoDetect   bool
	colorEnabled bool
}

func NewOutput(writer io.Writer) *Output {
	o := &Output{writer: writer, autoDetect: true}
	o.detectFormat()
	return o
}

func (o *Output) detectFormat() {
	if !o.autoDetect {
		return
	}
	if file, ok := o.writer.(*os.File); ok {
		if info, err := file.Stat(); err == nil && (info.Mode()&os.ModeCharDevice) != 0 {
			o.format = FormatHuman
			o.colorEnabled = true
			return
		}
		o.format = FormatJSON
		o.colorEnabled = false
		return
	}
	o.format = FormatHuman
	o.colorEnabled = false
}

func (o *Output) SetFormat(format OutputFormat) {
	o.format = format
	o.autoDetect = false
	o.colorEnabled = format == FormatHuman
}

func (o *Output) SetColorEnabled(enabled bool) { o.colorEnabled = enabled }

func (o *Output) IsJSON() bool { return o.format == FormatJSON }

func (o *Output) Success(message string) {
	if o.format == FormatJSON {
		o.printJSON(map[string]interface{}{"status": "success", "message": message})
		return
	}
	if o.colorEnabled {
		fmt.Fprintf(o.writer, "%s %s\n", color.GreenString("✓"), message)
	} else {
		fmt.Fprintf(o.writer, "✓ %s\n", message)
	}
}

func (o *Output) Error(message string) {
	if o.format == FormatJSON {
		o.printJSON(map[string]interface{}{"status": "error", "message": message})
		return
	}
	if o.colorEnabled {
		fmt.Fprintf(o.writer, "%s %s\n", color.RedString("✗"), message)
	} else {
		fmt.Fprintf(o.writer, "✗ %s\n", message)
	}
}

func (o *Output) Warning(message string) {
	if o.format == FormatJSON {
		o.printJSON(map[string]interface{}{"status": "warning", "message": message})
		return
	}
	if o.colorEnabled {
		fmt.Fprintf(o.writer, "%s %s\n", color.YellowString("⚠"), message)
	} else {
		fmt.Fprintf(o.writer, "⚠ %s\n", message)
	}
}

func (o *Output) Info(message string) {
	if o.format == FormatJSON {
		o.printJSON(map[string]interface{}{"status": "info", "message": message})
		return
	}
	fmt.Fprintf(o.writer, "%s\n", message)
}

func (o *Output) Header(title string) {
	if o.format == FormatJSON {
		return
	}
	if o.colorEnabled {
		fmt.Fprintf(o.writer, "\n%s\n", color.New(color.Bold).Sprint(title))
	} else {
		fmt.Fprintf(o.writer, "\n%s\n", title)
	}
}

// StatusLine prints one status-table row: a colored marker for the kind of
// change, then the path, matching the per-item lines `vt status` prints.
func (o *Output) StatusLine(marker, path, detail string) {
	if o.format == FormatJSON {
		return
	}
	var colored string
	if !o.colorEnabled {
		colored = marker
	} else {
		switch marker {
		case "+":
			colored = color.GreenString(marker)
		case "-":
			colored = color.RedString(marker)
		case "~":
			colored = color.YellowString(marker)
		case "→":
			colored = color.CyanString(marker)
		default:
			colored = marker
		}
	}
	if detail != "" {
		fmt.Fprintf(o.writer, "  %s %s %s\n", colored, path, detail)
	} else {
		fmt.Fprintf(o.writer, "  %s %s\n", colored, path)
	}
}

func (o *Output) JSON(data interface{}) error { return o.printJSON(data) }

func (o *Output) printJSON(data interface{}) error {
	enc := json.NewEncoder(o.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (o *Output) Infof(format string, args ...interface{})    { o.Info(fmt.Sprintf(format, args...)) }
func (o *Output) Successf(format string, args ...interface{}) { o.Success(fmt.Sprintf(format, args...)) }
func (o *Output) Errorf(format string, args ...interface{})   { o.Error(fmt.Sprintf(format, args...)) }
func (o *Output) Warningf(format string, args ...interface{}) { o.Warning(fmt.Sprintf(format, args...)) }

// Spinner wraps briandowns/spinner for long-running remote operations
// (clone, push). It is a no-op in JSON mode and whenever color output is
// disabled (which auto-detection does when stdout isn't a TTY).
type Spinner struct {
	s       *spinner.Spinner
	enabled bool
}

// NewSpinner creates a spinner attached to o; call Start/Stop/Fail around
// the operation it narrates.
func (o *Output) NewSpinner(suffix string) *Spinner {
	if o.format == FormatJSON || !o.colorEnabled {
		return &Spinner{enabled: false}
	}
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond)
	s.Suffix = " " + suffix
	return &Spinner{s: s, enabled: true}
}

func (sp *Spinner) Start() {
	if sp.enabled {
		sp.s.Start()
	}
}

func (sp *Spinner) Stop() {
	if sp.enabled {
		sp.s.Stop()
	}
}

// Fail stops the spinner without printing a failure marker; the CLI's
// main prints the error itself to stderr.
func (sp *Spinner) Fail() {
	if sp.enabled {
		sp.s.Stop()
	}
}
