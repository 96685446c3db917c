package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/committed/internal/report"
)

// Writer renders diagnostics as they are reported. Streaming formats write
// each one immediately; buffered formats hold them until Flush. Flush
// returns the first write error either way.
type Writer interface {
	report.Reporter
	Flush() error
}

// Format names an output format.
type Format string

const (
	FormatSilent   Format = "silent"
	FormatBrief    Format = "brief"
	FormatJSON     Format = "json"
	FormatSARIF    Format = "sarif"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatSilent, FormatBrief, FormatJSON, FormatSARIF, FormatMarkdown}

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", name)
}

// Options tune a writer.
type Options struct {
	// Color enables ANSI styling in the brief format.
	Color bool
	// Version is reported as the tool version in SARIF output.
	Version string
}

// GetWriter returns a writer for the specified format.
func GetWriter(format Format, w io.Writer, opts Options) (Writer, error) {
	switch format {
	case FormatSilent:
		return &SilentWriter{}, nil
	case FormatBrief, "":
		p := Palette{}
		if opts.Color {
			p = DefaultPalette()
		}
		return &BriefWriter{ew: errWriter{w: w}, palette: p}, nil
	case FormatJSON:
		return &JSONWriter{ew: errWriter{w: w}}, nil
	case FormatSARIF:
		return &SARIFWriter{w: w, version: opts.Version}, nil
	case FormatMarkdown:
		return &MarkdownWriter{w: w}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// SilentWriter discards diagnostics. The verdict is unaffected.
type SilentWriter struct{}

func (*SilentWriter) Report(report.Message) {}
func (*SilentWriter) Flush() error          { return nil }

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func (ew *errWriter) write(p []byte) {
	if ew.err != nil {
		return
	}
	_, ew.err = ew.w.Write(p)
}
