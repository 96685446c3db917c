package style

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Format errors reported by ParseConventional.
var (
	ErrEmptyMessage    = errors.New("commit is empty")
	ErrMultilineHeader = errors.New("subject must be a single line")
	ErrMissingMetadata = errors.New("no commit metadata provided")
	ErrUnclosedScope   = errors.New("scope has unclosed '('")
	ErrUnopenedScope   = errors.New("scope is closed but never opened")
	ErrEmptyScope      = errors.New("scope is empty")
	ErrInvalidScope    = errors.New("scope must not contain parentheses")
	ErrEmptyType       = errors.New("commit type is missing")
	ErrInvalidType     = errors.New("commit type must be a single word")
	ErrTooManySections = errors.New("cannot have sections past body and trailer")
)

var (
	sectionRe = regexp.MustCompile(`\r?\n\r?\n`)
	metaRe    = regexp.MustCompile(`^(.*?)(\(.*?\))?(!)?$`)
)

// ConventionalCommit is a message in the conventional-commits grammar:
//
//	type[(scope)][!]: description
//
//	body
//
//	trailer
type ConventionalCommit struct {
	RawSubject  string
	CommitType  string
	CommitScope string
	HasScope    bool
	Breaking    bool
	Description string
	RawBody     string
	Trailer     []string
}

// ParseConventional parses a trimmed message. Blank-line runs separate
// sections; at most a body and a trailer may follow the header.
func ParseConventional(message string) (*ConventionalCommit, error) {
	sections := splitSections(strings.TrimSpace(message))
	if len(sections) == 0 {
		return nil, ErrEmptyMessage
	}
	if len(sections) > 3 {
		return nil, fmt.Errorf("%w: ```%s```", ErrTooManySections, sections[3])
	}

	c := &ConventionalCommit{RawSubject: sections[0]}
	if err := c.parseHeader(sections[0]); err != nil {
		return nil, err
	}
	if len(sections) > 1 {
		c.RawBody = sections[1]
	}
	if len(sections) > 2 {
		c.Trailer = strings.Split(sections[2], "\n")
		for i := range c.Trailer {
			c.Trailer[i] = strings.TrimRight(c.Trailer[i], "\r")
		}
	}
	return c, nil
}

func splitSections(message string) []string {
	if message == "" {
		return nil
	}
	var sections []string
	for _, s := range sectionRe.Split(message, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return sections
}

func (c *ConventionalCommit) parseHeader(header string) error {
	if strings.Contains(header, "\n") {
		return ErrMultilineHeader
	}

	meta, description, ok := strings.Cut(header, ":")
	if !ok {
		return ErrMissingMetadata
	}

	m := metaRe.FindStringSubmatch(meta)
	if m == nil {
		return ErrMissingMetadata
	}
	commitType := m[1]
	if m[2] == "" {
		if strings.Contains(commitType, "(") {
			return ErrUnclosedScope
		}
		if strings.Contains(commitType, ")") {
			return ErrUnopenedScope
		}
	} else {
		c.CommitScope = strings.TrimSuffix(strings.TrimPrefix(m[2], "("), ")")
		c.HasScope = true
		if strings.TrimSpace(c.CommitScope) == "" {
			return ErrEmptyScope
		}
		if strings.ContainsAny(c.CommitScope, "()") {
			return fmt.Errorf("%w: %q", ErrInvalidScope, c.CommitScope)
		}
	}
	if commitType == "" {
		return ErrEmptyType
	}
	if strings.ContainsAny(commitType, "()! \t") {
		return fmt.Errorf("%w: %q", ErrInvalidType, commitType)
	}

	c.CommitType = commitType
	c.Breaking = m[3] != ""
	c.Description = strings.TrimSpace(description)
	return nil
}

func (c *ConventionalCommit) Subject() string { return c.Description }

func (c *ConventionalCommit) Body() (string, bool) {
	return c.RawBody, c.RawBody != ""
}

func (c *ConventionalCommit) Type() (string, bool) {
	return c.CommitType, true
}

func (c *ConventionalCommit) Scope() (string, bool) {
	return c.CommitScope, c.HasScope
}
