package style

import (
	"fmt"
	"strings"
)

// Style selects the grammar a commit message is parsed with.
type Style string

const (
	None         Style = "none"
	Conventional Style = "conventional"
)

// ParseName resolves a style name case-insensitively.
func ParseName(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return None, nil
	case "conventional":
		return Conventional, nil
	default:
		return "", fmt.Errorf("unknown style %q (must be 'conventional' or 'none')", name)
	}
}

func (s Style) String() string {
	return string(s)
}

// Commit is the view of a parsed message shared by every grammar.
//
// Type and Scope are tokens that must be compared case-insensitively
// (strings.EqualFold); the second result reports whether the grammar
// produced one at all.
type Commit interface {
	Subject() string
	Body() (string, bool)
	Type() (string, bool)
	Scope() (string, bool)
}

// Parse parses message with the selected grammar.
func Parse(s Style, message string) (Commit, error) {
	switch s {
	case Conventional:
		return ParseConventional(message)
	case None, "":
		return ParsePlain(message), nil
	default:
		return nil, fmt.Errorf("unknown style %q", string(s))
	}
}
