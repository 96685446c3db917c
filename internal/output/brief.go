package output

import (
	"github.com/dshills/committed/internal/report"
)

// BriefWriter prints one line per diagnostic:
//
//	{source}: {severity} {message}
type BriefWriter struct {
	ew      errWriter
	palette Palette
}

func (b *BriefWriter) Report(msg report.Message) {
	b.ew.printf("%s: %s %s\n",
		b.palette.Source.Paint(msg.Source.String()),
		b.palette.severity(msg.Severity).Paint(string(msg.Severity)),
		b.palette.Content.Paint(msg.Content.String()),
	)
}

func (b *BriefWriter) Flush() error { return b.ew.err }
