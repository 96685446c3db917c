package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/committed/internal/report"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Style is an ANSI SGR sequence; the zero value paints nothing.
type Style string

const (
	styleReset          = "\x1b[0m"
	StyleBoldRed  Style = "\x1b[1;31m"
	StyleBoldBlue Style = "\x1b[1;34m"
)

// Paint wraps s in the style and a reset.
func (st Style) Paint(s string) string {
	if st == "" {
		return s
	}
	return string(st) + s + styleReset
}

// Palette styles each part of a brief line.
type Palette struct {
	Source  Style
	Error   Style
	Content Style
}

// DefaultPalette is bold blue sources and bold red errors.
func DefaultPalette() Palette {
	return Palette{Source: StyleBoldBlue, Error: StyleBoldRed}
}

func (p Palette) severity(s report.Severity) Style {
	switch s {
	case report.SeverityError:
		return p.Error
	default:
		return ""
	}
}

// ColorChoice is the --color setting.
type ColorChoice string

const (
	ColorAuto   ColorChoice = "auto"
	ColorAlways ColorChoice = "always"
	ColorNever  ColorChoice = "never"
)

// ParseColorChoice resolves a --color value case-insensitively.
func ParseColorChoice(s string) (ColorChoice, error) {
	switch c := ColorChoice(strings.ToLower(strings.TrimSpace(s))); c {
	case ColorAuto, ColorAlways, ColorNever:
		return c, nil
	case "":
		return ColorAuto, nil
	default:
		return "", fmt.Errorf("invalid color choice %q (must be auto, always or never)", s)
	}
}

// UseColor decides whether output to w gets ANSI styling. Auto colors only
// terminals and honours NO_COLOR and CLICOLOR_FORCE.
func UseColor(choice ColorChoice, w io.Writer) bool {
	switch choice {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if v := os.Getenv("CLICOLOR_FORCE"); v != "" && v != "0" {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorableWriter returns a writer that renders ANSI sequences on Windows
// consoles; elsewhere it returns w unchanged.
func ColorableWriter(w io.Writer) io.Writer {
	if f, ok := w.(*os.File); ok {
		return colorable.NewColorable(f)
	}
	return w
}
