// Package report defines the diagnostic model shared by the rule engine and
// the output writers.
//
// A [Message] pairs a [Source] (full commit id, abbreviated id, or a file
// path with "-" meaning stdin) with a [Severity] and a [Content]. Content
// is a closed set of kinds; each one renders a human sentence through
// String and a flat JSON object whose "type" field is the [Kind].
//
// Rules hand messages to a [Reporter] as soon as they are produced. Nothing
// in this package retains them except [Collector], which exists for callers
// that want the whole list.
package report
