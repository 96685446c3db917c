// Package output renders diagnostics for display or machine consumption.
//
// Five formats are supported:
//   - silent  : nothing; only the exit code tells
//   - brief   : one `source: error message` line per diagnostic (default)
//   - json    : one JSON record per line, keyed by diagnostic type
//   - sarif   : SARIF v2.1.0 for upload to GitHub code scanning and other CI tools
//   - markdown: PR-comment-friendly summary grouped by commit
//
// Use [GetWriter] to obtain a [Writer] for a format, hand it to the checks
// as their reporter, then call [Writer.Flush]. The sarif and markdown
// writers buffer until Flush; the others write as diagnostics arrive.
package output
