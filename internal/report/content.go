package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/committed/internal/style"
	"github.com/shu-go/orderedmap"
)

// Kind is the discriminant of a diagnostic's content.
type Kind string

const (
	KindEmptyCommit           Kind = "empty_commit"
	KindSubjectTooLong        Kind = "subject_too_long"
	KindLineTooLong           Kind = "line_too_long"
	KindCapitalizeSubject     Kind = "capitalize_subject"
	KindNoPunctuation         Kind = "no_punctuation"
	KindImperative            Kind = "imperative"
	KindWip                   Kind = "wip"
	KindFixup                 Kind = "fixup"
	KindInvalidCommitFormat   Kind = "invalid_commit_format"
	KindDisallowedCommitType  Kind = "disallowed_commit_type"
	KindMergeCommitDisallowed Kind = "merge_commit_disallowed"
)

// Kinds lists every diagnostic kind in rule order.
var Kinds = []Kind{
	KindEmptyCommit,
	KindWip,
	KindFixup,
	KindInvalidCommitFormat,
	KindImperative,
	KindCapitalizeSubject,
	KindNoPunctuation,
	KindDisallowedCommitType,
	KindSubjectTooLong,
	KindLineTooLong,
	KindMergeCommitDisallowed,
}

// Content is the kind-specific payload of a diagnostic. The set of
// implementations is closed to this package.
type Content interface {
	fmt.Stringer
	Kind() Kind
	fields(m *orderedmap.OrderedMap[string, any])
}

type EmptyCommit struct{}

func (EmptyCommit) Kind() Kind                                  { return KindEmptyCommit }
func (EmptyCommit) String() string                              { return "Empty commits are disallowed" }
func (EmptyCommit) fields(*orderedmap.OrderedMap[string, any]) {}

type SubjectTooLong struct {
	MaxLength    int
	ActualLength int
}

func (SubjectTooLong) Kind() Kind { return KindSubjectTooLong }

func (c SubjectTooLong) String() string {
	return fmt.Sprintf("Commit subject is too long, %d exceeds the max length of %d", c.ActualLength, c.MaxLength)
}

func (c SubjectTooLong) fields(m *orderedmap.OrderedMap[string, any]) {
	m.Set("max_length", c.MaxLength)
	m.Set("actual_length", c.ActualLength)
}

type LineTooLong struct {
	MaxLength    int
	ActualLength int
}

func (LineTooLong) Kind() Kind { return KindLineTooLong }

func (c LineTooLong) String() string {
	return fmt.Sprintf("Line is too long, %d exceeds the max length of %d", c.ActualLength, c.MaxLength)
}

func (c LineTooLong) fields(m *orderedmap.OrderedMap[string, any]) {
	m.Set("max_length", c.MaxLength)
	m.Set("actual_length", c.ActualLength)
}

type CapitalizeSubject struct {
	FirstWord string
}

func (CapitalizeSubject) Kind() Kind { return KindCapitalizeSubject }

func (c CapitalizeSubject) String() string {
	return fmt.Sprintf("Subject should be capitalized but found `%s`", c.FirstWord)
}

func (c CapitalizeSubject) fields(m *orderedmap.OrderedMap[string, any]) {
	m.Set("first_word", c.FirstWord)
}

type NoPunctuation struct {
	Punctuation rune
}

func (NoPunctuation) Kind() Kind { return KindNoPunctuation }

func (c NoPunctuation) String() string {
	return fmt.Sprintf("Subject should not be punctuated but found `%c`", c.Punctuation)
}

func (c NoPunctuation) fields(m *orderedmap.OrderedMap[string, any]) {
	m.Set("punctuation", string(c.Punctuation))
}

type Imperative struct {
	FirstWord string
}

func (Imperative) Kind() Kind { return KindImperative }

func (c Imperative) String() string {
	return fmt.Sprintf("Subject should be in the imperative mood but found `%s`", c.FirstWord)
}

func (c Imperative) fields(m *orderedmap.OrderedMap[string, any]) {
	m.Set("first_word", c.FirstWord)
}

type Wip struct{}

func (Wip) Kind() Kind                                  { return KindWip }
func (Wip) String() string                              { return "Work-in-progress commits must be cleaned up" }
func (Wip) fields(*orderedmap.OrderedMap[string, any]) {}

type Fixup struct{}

func (Fixup) Kind() Kind                                  { return KindFixup }
func (Fixup) String() string                              { return "Fixup commits must be squashed" }
func (Fixup) fields(*orderedmap.OrderedMap[string, any]) {}

// InvalidCommitFormat carries the parse error of the selected grammar.
type InvalidCommitFormat struct {
	Err   error
	Style style.Style
}

func (InvalidCommitFormat) Kind() Kind { return KindInvalidCommitFormat }

func (c InvalidCommitFormat) String() string {
	return fmt.Sprintf("Commit is not in %s format: %v", displayStyle(c.Style), c.Err)
}

func (c InvalidCommitFormat) fields(m *orderedmap.OrderedMap[string, any]) {
	var msg string
	if c.Err != nil {
		msg = c.Err.Error()
	}
	m.Set("error", msg)
	m.Set("style", string(c.Style))
}

func displayStyle(s style.Style) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

type DisallowedCommitType struct {
	Used    string
	Allowed []string
}

func (DisallowedCommitType) Kind() Kind { return KindDisallowedCommitType }

func (c DisallowedCommitType) String() string {
	quoted := make([]string, len(c.Allowed))
	for i, a := range c.Allowed {
		quoted[i] = strconv.Quote(a)
	}
	return fmt.Sprintf("Disallowed type `%s` used, please use one of [%s]", c.Used, strings.Join(quoted, ", "))
}

func (c DisallowedCommitType) fields(m *orderedmap.OrderedMap[string, any]) {
	allowed := c.Allowed
	if allowed == nil {
		allowed = []string{}
	}
	m.Set("used", c.Used)
	m.Set("allowed", allowed)
}

type MergeCommitDisallowed struct{}

func (MergeCommitDisallowed) Kind() Kind                                  { return KindMergeCommitDisallowed }
func (MergeCommitDisallowed) String() string                              { return "Merge commits are disallowed" }
func (MergeCommitDisallowed) fields(*orderedmap.OrderedMap[string, any]) {}
