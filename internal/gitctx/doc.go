// Package gitctx reads commit messages out of a git repository.
//
// [Open] discovers the repository enclosing a work tree using go-git, so no
// git binary is needed. [Repo.Resolve] turns a [RevSpec] into a [Range] of
// commits: a single revision, or every commit reachable from the end of a
// range but not from the merge base of its two ends. [TrimCommitFile] cleans up a
// message file written by git's editor before it is checked.
package gitctx
