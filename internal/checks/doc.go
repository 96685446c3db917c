// Package checks applies the commit message policy.
//
// [CheckMessage] is the single entry point for message text; it gates on
// emptiness and WIP/fixup markers, parses with the configured grammar, and
// then runs the subject and length rules. Diagnostics go to a
// [report.Reporter] as they are found. [CheckMergeCommit] covers the one
// rule that needs the commit object rather than its message.
package checks
