// Package mood classifies the grammatical mood of a subject's first word.
//
// The classifier stems the word (Porter2, via snowball) and looks the stem
// up in an embedded list of base-form verbs. A word whose stem is a known
// verb is imperative only if it is one of the listed base forms; a word
// with an unknown stem is indeterminate.
package mood
