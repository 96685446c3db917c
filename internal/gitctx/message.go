package gitctx

import (
	"regexp"
	"strings"
)

// Scissors is the line git inserts above the diff in verbose commits.
const Scissors = "# ------------------------ >8 ------------------------"

var (
	allCommentRe      = regexp.MustCompile(`(?s)^(#[^\n]*\n*)+$`)
	trailingCommentRe = regexp.MustCompile(`(?s)^(.*?)(\n+#[^\n]*)*$`)
)

// TrimCommitFile strips what git's editor template adds to a message: a
// message of only comment lines becomes empty, everything from the
// scissors line on is cut, and trailing comment lines are dropped.
func TrimCommitFile(message string) string {
	message = strings.TrimSpace(message)
	if message == "" || allCommentRe.MatchString(message) {
		return ""
	}
	if i := strings.Index(message, Scissors); i >= 0 {
		message = strings.TrimSpace(message[:i])
	}
	m := trailingCommentRe.FindStringSubmatch(message)
	if m == nil {
		return message
	}
	return m[1]
}
