// Package style parses commit messages under the supported grammars.
//
// Two grammars exist: [None], where the subject is the first line and
// everything after it is the body, and [Conventional], which splits a
// `type(scope)!: description` header from an optional body and trailer.
// Both return a [Commit]; callers select one with [Parse] before any rule
// runs.
package style
