package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// LevelTrace is below debug; per-commit progress is logged here.
const LevelTrace = slog.LevelDebug - 4

// levelOff is above every level the tool logs at.
const levelOff = slog.LevelError + 4

func verbosityLevel(verbose int, quiet bool) slog.Level {
	if quiet {
		return levelOff
	}
	switch verbose {
	case 0:
		return slog.LevelError
	case 1:
		return slog.LevelWarn
	case 2:
		return slog.LevelInfo
	case 3:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				if lvl, ok := attr.Value.Any().(slog.Level); ok && lvl <= LevelTrace {
					return slog.String(slog.LevelKey, "TRACE")
				}
			}
			return attr
		},
	}))
}

// setup runs before every command and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.logger = newLogger(cmd.ErrOrStderr(), verbosityLevel(a.opts.verbose, a.opts.quiet))
	return nil
}
