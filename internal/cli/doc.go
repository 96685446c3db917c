// Package cli wires together the Cobra command tree for the committed binary.
//
// The root command checks commit messages: a revspec, a message file, piped
// stdin or HEAD. It layers flags over the config file, selects a renderer,
// and maps the outcome to sysexits-style exit codes for hooks and CI. The
// hook, config and version subcommands manage the commit-msg hook and the
// config file.
package cli
