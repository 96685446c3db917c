package report

import (
	"encoding/json"
	"fmt"

	"github.com/shu-go/orderedmap"
)

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError Severity = "error"
)

// SourceKind identifies what a Source points at.
type SourceKind int

const (
	SourceOid SourceKind = iota
	SourceShortID
	SourcePath
)

// Source locates the message a diagnostic came from: a full commit id,
// an abbreviated one, or a file path ("-" for stdin).
type Source struct {
	Kind  SourceKind
	Value string
}

func Oid(id string) Source     { return Source{Kind: SourceOid, Value: id} }
func ShortID(id string) Source { return Source{Kind: SourceShortID, Value: id} }
func Path(path string) Source  { return Source{Kind: SourcePath, Value: path} }

func (s Source) String() string { return s.Value }

// MarshalJSON writes the source as a bare string.
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value)
}

// Message is one diagnostic: where, how bad, and what.
type Message struct {
	Source   Source
	Severity Severity
	Content  Content
}

// Error builds an error-severity message.
func Error(source Source, content Content) Message {
	return Message{Source: source, Severity: SeverityError, Content: content}
}

func (m Message) String() string {
	return fmt.Sprintf("%s: %s %s", m.Source, m.Severity, m.Content)
}

// MarshalJSON renders the record as
//
//	{"source": ..., "severity": ..., "content": {"type": <kind>, <fields>...}}
//
// with keys in that order.
func (m Message) MarshalJSON() ([]byte, error) {
	content := orderedmap.New[string, any]()
	content.Set("type", string(m.Content.Kind()))
	m.Content.fields(content)

	rec := orderedmap.New[string, any]()
	rec.Set("source", m.Source)
	rec.Set("severity", m.Severity)
	rec.Set("content", content)
	return json.Marshal(rec)
}

// Reporter receives each diagnostic as it is produced.
type Reporter interface {
	Report(msg Message)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(msg Message)

func (f ReporterFunc) Report(msg Message) { f(msg) }

// Discard drops every diagnostic.
var Discard Reporter = ReporterFunc(func(Message) {})

// Collector keeps diagnostics in report order.
type Collector struct {
	Messages []Message
}

func (c *Collector) Report(msg Message) {
	c.Messages = append(c.Messages, msg)
}

// Kinds returns the kind of every collected diagnostic, in order.
func (c *Collector) Kinds() []Kind {
	kinds := make([]Kind, 0, len(c.Messages))
	for _, m := range c.Messages {
		kinds = append(kinds, m.Content.Kind())
	}
	return kinds
}
