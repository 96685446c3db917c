// Committed lints git commit messages against a configurable style policy.
//
// It checks subject length, capitalization, punctuation and imperative mood,
// rejects WIP and fixup commits, and can require the Conventional Commits
// grammar. Exit codes are deterministic so it can gate CI and git hooks.
//
// Usage:
//
//	committed                         # check HEAD, or a message piped on stdin
//	committed origin/main..HEAD       # check every commit in a range
//	committed --commit-file .git/COMMIT_EDITMSG
//	committed hook install            # run as a commit-msg hook
//	committed --dump-config -         # print the effective config
package main
