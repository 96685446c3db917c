package checks

import (
	"github.com/dshills/committed/internal/config"
	"github.com/dshills/committed/internal/report"
	"github.com/dshills/committed/internal/style"
)

// Parents is the part of a commit the merge check needs.
type Parents interface {
	NumParents() int
}

// CheckMessage runs every rule cfg enables against message and reports each
// violation to r in rule order. It returns true if any rule failed.
//
// An empty message stops after EmptyCommit, and a WIP or fixup message
// stops before parsing. A message that does not parse under cfg.Style
// skips the subject rules but still gets the length rules.
func CheckMessage(src report.Source, message string, cfg config.Config, r report.Reporter) bool {
	if checkHasMessage(src, message, r) {
		return true
	}

	failed := false
	if cfg.NoWip {
		failed = checkWip(src, message, r) || failed
	}
	if cfg.NoFixup {
		failed = checkFixup(src, message, r) || failed
	}
	if failed {
		return true
	}

	commit, err := style.Parse(cfg.Style, message)
	if err != nil {
		r.Report(report.Error(src, report.InvalidCommitFormat{Err: err, Style: cfg.Style}))
		failed = true
	} else {
		subject := commit.Subject()
		if cfg.ImperativeSubject {
			failed = checkImperativeSubject(src, subject, r) || failed
		}
		if cfg.SubjectCapitalized {
			failed = checkCapitalizedSubject(src, subject, r) || failed
		}
		if cfg.SubjectNotPunctuated {
			failed = checkSubjectNotPunctuated(src, subject, r) || failed
		}
		if len(cfg.AllowedTypes) > 0 {
			if used, ok := commit.Type(); ok {
				failed = checkAllowedTypes(src, used, cfg.AllowedTypes, r) || failed
			}
		}
	}

	if cfg.SubjectLength > 0 {
		failed = checkSubjectLength(src, message, cfg.SubjectLength, r) || failed
	}
	if cfg.LineLength > 0 {
		failed = checkLineLength(src, message, cfg.LineLength, r) || failed
	}
	if cfg.HardLineLength > 0 {
		failed = checkHardLineLength(src, message, cfg.HardLineLength, r) || failed
	}
	return failed
}

// CheckMergeCommit reports MergeCommitDisallowed for a commit with more
// than one parent. Callers run it only when merge commits are disallowed.
func CheckMergeCommit(src report.Source, commit Parents, r report.Reporter) bool {
	if commit.NumParents() <= 1 {
		return false
	}
	r.Report(report.Error(src, report.MergeCommitDisallowed{}))
	return true
}
