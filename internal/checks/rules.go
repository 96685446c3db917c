package checks

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/committed/internal/mood"
	"github.com/dshills/committed/internal/report"
	"github.com/rivo/uniseg"
)

// Markers GitLab and GitHub use for unfinished work.
var wipRe = regexp.MustCompile(`^(wip\b|WIP\b|\[WIP\]|Draft\b|\[Draft\]|\(Draft\))`)

const fixupPrefix = "fixup! "

// Each check reports at most one diagnostic per offending unit and returns
// whether it reported anything.

func checkHasMessage(src report.Source, message string, r report.Reporter) bool {
	if strings.TrimSpace(message) != "" {
		return false
	}
	r.Report(report.Error(src, report.EmptyCommit{}))
	return true
}

func checkWip(src report.Source, message string, r report.Reporter) bool {
	loc := wipRe.FindStringIndex(message)
	if loc == nil {
		return false
	}
	if end := message[loc[1]-1]; end != ']' && end != ')' && continuesWord(message[loc[1]:]) {
		return false
	}
	r.Report(report.Error(src, report.Wip{}))
	return true
}

// continuesWord reports whether rest starts with a word character. RE2's \b
// only knows ASCII, so "wipé" would otherwise end the marker at "wip".
func continuesWord(rest string) bool {
	next, size := utf8.DecodeRuneInString(rest)
	if size == 0 {
		return false
	}
	return next == '_' || unicode.IsLetter(next) || unicode.IsDigit(next)
}

func checkFixup(src report.Source, message string, r report.Reporter) bool {
	if !strings.HasPrefix(message, fixupPrefix) {
		return false
	}
	r.Report(report.Error(src, report.Fixup{}))
	return true
}

func firstWord(subject string) (string, bool) {
	fields := strings.Fields(subject)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

func checkImperativeSubject(src report.Source, subject string, r report.Reporter) bool {
	word, ok := firstWord(subject)
	if !ok {
		return false
	}
	if imperative, known := mood.IsImperative(word); imperative || !known {
		return false
	}
	r.Report(report.Error(src, report.Imperative{FirstWord: word}))
	return true
}

func checkCapitalizedSubject(src report.Source, subject string, r report.Reporter) bool {
	word, ok := firstWord(subject)
	if !ok {
		return false
	}
	first, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsLower(first) {
		return false
	}
	r.Report(report.Error(src, report.CapitalizeSubject{FirstWord: word}))
	return true
}

func checkSubjectNotPunctuated(src report.Source, subject string, r report.Reporter) bool {
	last, size := utf8.DecodeLastRuneInString(subject)
	if size == 0 || !strings.ContainsRune(" .!?", last) {
		return false
	}
	r.Report(report.Error(src, report.NoPunctuation{Punctuation: last}))
	return true
}

func checkAllowedTypes(src report.Source, used string, allowed []string, r report.Reporter) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, used) {
			return false
		}
	}
	r.Report(report.Error(src, report.DisallowedCommitType{
		Used:    used,
		Allowed: append([]string(nil), allowed...),
	}))
	return true
}

// softLength counts the graphemes of line up to its last space, so a
// trailing unbreakable token such as a URL never fails a soft limit.
func softLength(line string) int {
	i := strings.LastIndexByte(line, ' ')
	if i < 0 {
		return 0
	}
	return uniseg.GraphemeClusterCount(line[:i])
}

func checkSubjectLength(src report.Source, message string, limit int, r report.Reporter) bool {
	line, _, _ := strings.Cut(message, "\n")
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	if softLength(line) <= limit {
		return false
	}
	r.Report(report.Error(src, report.SubjectTooLong{
		MaxLength:    limit,
		ActualLength: uniseg.GraphemeClusterCount(line),
	}))
	return true
}

func checkLineLength(src report.Source, message string, limit int, r report.Reporter) bool {
	failed := false
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if softLength(line) <= limit {
			continue
		}
		r.Report(report.Error(src, report.LineTooLong{
			MaxLength:    limit,
			ActualLength: uniseg.GraphemeClusterCount(line),
		}))
		failed = true
	}
	return failed
}

func checkHardLineLength(src report.Source, message string, limit int, r report.Reporter) bool {
	failed := false
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		n := uniseg.GraphemeClusterCount(line)
		if n <= limit {
			continue
		}
		r.Report(report.Error(src, report.LineTooLong{MaxLength: limit, ActualLength: n}))
		failed = true
	}
	return failed
}
