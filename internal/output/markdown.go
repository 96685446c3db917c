package output

import (
	"io"
	"strings"

	"github.com/dshills/committed/internal/report"
)

// MarkdownWriter collects diagnostics and writes a PR-comment-friendly
// summary on Flush, one section per commit or file in first-seen order.
type MarkdownWriter struct {
	w    io.Writer
	msgs []report.Message
}

func (m *MarkdownWriter) Report(msg report.Message) {
	m.msgs = append(m.msgs, msg)
}

func (m *MarkdownWriter) Flush() error {
	ew := &errWriter{w: m.w}

	ew.printf("## Commit Message Check\n\n")

	if len(m.msgs) == 0 {
		ew.println("No issues found. :white_check_mark:")
		return ew.err
	}

	groups := groupBySource(m.msgs)
	ew.printf("%d %s in %d %s.\n\n",
		len(m.msgs), plural(len(m.msgs), "issue", "issues"),
		len(groups), plural(len(groups), "message", "messages"))

	for _, g := range groups {
		ew.printf("<details open>\n<summary>:x: <code>%s</code> (%d)</summary>\n\n", mdEscape(g.source), len(g.msgs))
		for _, msg := range g.msgs {
			ew.printf("- **%s**: %s\n", msg.Content.Kind(), mdEscape(msg.Content.String()))
		}
		ew.printf("\n</details>\n\n")
	}
	return ew.err
}

type sourceGroup struct {
	source string
	msgs   []report.Message
}

func groupBySource(msgs []report.Message) []sourceGroup {
	var groups []sourceGroup
	index := make(map[string]int)
	for _, msg := range msgs {
		key := msg.Source.String()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, sourceGroup{source: key})
		}
		groups[i].msgs = append(groups[i].msgs, msg)
	}
	return groups
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// mdEscape keeps diagnostic text from opening HTML tags in the comment.
func mdEscape(s string) string {
	return strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(s)
}
