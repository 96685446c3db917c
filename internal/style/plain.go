package style

import (
	"regexp"
	"strings"
)

var lineBreakRe = regexp.MustCompile(`\r?\n`)

// Plain is a message with no grammar: the subject is the first line
// verbatim and the body is whatever follows.
type Plain struct {
	RawSubject string
	RawBody    string
}

// ParsePlain never fails.
func ParsePlain(message string) *Plain {
	parts := lineBreakRe.Split(message, 2)
	p := &Plain{RawSubject: parts[0]}
	if len(parts) == 2 {
		p.RawBody = strings.TrimSpace(parts[1])
	}
	return p
}

func (p *Plain) Subject() string { return p.RawSubject }

func (p *Plain) Body() (string, bool) {
	return p.RawBody, p.RawBody != ""
}

func (p *Plain) Type() (string, bool)  { return "", false }
func (p *Plain) Scope() (string, bool) { return "", false }
