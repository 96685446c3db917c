package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/dshills/committed/internal/style"
)

// Keys lists every configuration key in document order.
var Keys = []string{
	"ignore_author_re",
	"subject_length",
	"subject_capitalized",
	"subject_not_punctuated",
	"imperative_subject",
	"no_fixup",
	"no_wip",
	"hard_line_length",
	"line_length",
	"style",
	"allowed_types",
	"merge_commit",
}

// Layer is one source of configuration. Nil fields are unset and leave the
// layer below untouched. AllowedTypes pointing at an empty list allows any
// type and is written out as [].
type Layer struct {
	IgnoreAuthorRe       *string   `toml:"ignore_author_re,omitempty" yaml:"ignore_author_re,omitempty" json:"ignore_author_re,omitempty"`
	SubjectLength        *int      `toml:"subject_length,omitempty" yaml:"subject_length,omitempty" json:"subject_length,omitempty"`
	SubjectCapitalized   *bool     `toml:"subject_capitalized,omitempty" yaml:"subject_capitalized,omitempty" json:"subject_capitalized,omitempty"`
	SubjectNotPunctuated *bool     `toml:"subject_not_punctuated,omitempty" yaml:"subject_not_punctuated,omitempty" json:"subject_not_punctuated,omitempty"`
	ImperativeSubject    *bool     `toml:"imperative_subject,omitempty" yaml:"imperative_subject,omitempty" json:"imperative_subject,omitempty"`
	NoFixup              *bool     `toml:"no_fixup,omitempty" yaml:"no_fixup,omitempty" json:"no_fixup,omitempty"`
	NoWip                *bool     `toml:"no_wip,omitempty" yaml:"no_wip,omitempty" json:"no_wip,omitempty"`
	HardLineLength       *int      `toml:"hard_line_length,omitempty" yaml:"hard_line_length,omitempty" json:"hard_line_length,omitempty"`
	LineLength           *int      `toml:"line_length,omitempty" yaml:"line_length,omitempty" json:"line_length,omitempty"`
	Style                *string   `toml:"style,omitempty" yaml:"style,omitempty" json:"style,omitempty"`
	AllowedTypes         *[]string `toml:"allowed_types,omitempty" yaml:"allowed_types,omitempty" json:"allowed_types,omitempty"`
	MergeCommit          *bool     `toml:"merge_commit,omitempty" yaml:"merge_commit,omitempty" json:"merge_commit,omitempty"`
}

// Config is the resolved policy the checks run against. A length limit of
// zero disables that check.
type Config struct {
	IgnoreAuthorRe       string
	SubjectLength        int
	SubjectCapitalized   bool
	SubjectNotPunctuated bool
	ImperativeSubject    bool
	NoFixup              bool
	NoWip                bool
	HardLineLength       int
	LineLength           int
	Style                style.Style
	AllowedTypes         []string
	MergeCommit          bool

	ignoreAuthor *regexp.Regexp
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		SubjectLength:        50,
		SubjectCapitalized:   true,
		SubjectNotPunctuated: true,
		ImperativeSubject:    true,
		NoFixup:              true,
		NoWip:                true,
		HardLineLength:       0,
		LineLength:           72,
		Style:                style.None,
		AllowedTypes:         []string{"fix", "feat", "chore", "docs", "style", "refactor", "perf", "test"},
		MergeCommit:          true,
	}
}

// ConfigDir returns the platform-appropriate config directory for committed.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "committed"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "committed"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "committed"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "committed"), nil
	default:
		return filepath.Join(home, ".config", "committed"), nil
	}
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// An empty path skips the file layer.
func Load(path string, overrides Layer) (Config, error) {
	cfg := Default()

	if path != "" {
		fileLayer, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := cfg.Apply(fileLayer); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	var env Layer
	if err := mergeEnv(&env); err != nil {
		return Config{}, err
	}
	if err := cfg.Apply(env); err != nil {
		return Config{}, fmt.Errorf("environment: %w", err)
	}
	if err := cfg.Apply(overrides); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Apply overlays every field l sets.
func (c *Config) Apply(l Layer) error {
	if l.IgnoreAuthorRe != nil {
		c.IgnoreAuthorRe = *l.IgnoreAuthorRe
		c.ignoreAuthor = nil
	}
	if l.SubjectLength != nil {
		c.SubjectLength = *l.SubjectLength
	}
	if l.SubjectCapitalized != nil {
		c.SubjectCapitalized = *l.SubjectCapitalized
	}
	if l.SubjectNotPunctuated != nil {
		c.SubjectNotPunctuated = *l.SubjectNotPunctuated
	}
	if l.ImperativeSubject != nil {
		c.ImperativeSubject = *l.ImperativeSubject
	}
	if l.NoFixup != nil {
		c.NoFixup = *l.NoFixup
	}
	if l.NoWip != nil {
		c.NoWip = *l.NoWip
	}
	if l.HardLineLength != nil {
		c.HardLineLength = *l.HardLineLength
	}
	if l.LineLength != nil {
		c.LineLength = *l.LineLength
	}
	if l.Style != nil {
		s, err := style.ParseName(*l.Style)
		if err != nil {
			return err
		}
		c.Style = s
	}
	if l.AllowedTypes != nil {
		c.AllowedTypes = slices.Clone(*l.AllowedTypes)
	}
	if l.MergeCommit != nil {
		c.MergeCommit = *l.MergeCommit
	}
	return nil
}

// Validate checks value ranges and compiles ignore_author_re.
func (c *Config) Validate() error {
	for _, f := range []struct {
		key string
		n   int
	}{
		{"subject_length", c.SubjectLength},
		{"line_length", c.LineLength},
		{"hard_line_length", c.HardLineLength},
	} {
		if f.n < 0 {
			return fmt.Errorf("%s must not be negative, got %d", f.key, f.n)
		}
	}
	if c.Style == "" {
		c.Style = style.None
	}
	if _, err := style.ParseName(string(c.Style)); err != nil {
		return err
	}

	c.ignoreAuthor = nil
	if c.IgnoreAuthorRe != "" {
		re, err := regexp.Compile(c.IgnoreAuthorRe)
		if err != nil {
			return fmt.Errorf("ignore_author_re: %w", err)
		}
		c.ignoreAuthor = re
	}
	return nil
}

// IgnoresAuthor reports whether commits by author ("Name <email>") are
// skipped. Validate must have run.
func (c *Config) IgnoresAuthor(author string) bool {
	return c.ignoreAuthor != nil && c.ignoreAuthor.MatchString(author)
}

// Layer returns c as a fully populated layer, for writing out.
func (c Config) Layer() Layer {
	l := Layer{
		SubjectLength:        ptr(c.SubjectLength),
		SubjectCapitalized:   ptr(c.SubjectCapitalized),
		SubjectNotPunctuated: ptr(c.SubjectNotPunctuated),
		ImperativeSubject:    ptr(c.ImperativeSubject),
		NoFixup:              ptr(c.NoFixup),
		NoWip:                ptr(c.NoWip),
		HardLineLength:       ptr(c.HardLineLength),
		LineLength:           ptr(c.LineLength),
		Style:                ptr(string(c.Style)),
		MergeCommit:          ptr(c.MergeCommit),
	}
	if c.IgnoreAuthorRe != "" {
		l.IgnoreAuthorRe = ptr(c.IgnoreAuthorRe)
	}
	types := slices.Clone(c.AllowedTypes)
	if types == nil {
		types = []string{}
	}
	l.AllowedTypes = &types
	return l
}

func ptr[T any](v T) *T { return &v }

func envName(key string) string {
	return "COMMITTED_" + strings.ToUpper(key)
}

func mergeEnv(l *Layer) error {
	for _, key := range Keys {
		v, ok := os.LookupEnv(envName(key))
		if !ok || v == "" {
			continue
		}
		if err := SetField(l, key, v); err != nil {
			return fmt.Errorf("%s: %w", envName(key), err)
		}
	}
	return nil
}

// SetField sets a single layer field by key name. Returns error if key is
// unknown or the value does not parse.
func SetField(l *Layer, key, value string) error {
	switch key {
	case "ignore_author_re":
		if _, err := regexp.Compile(value); err != nil {
			return fmt.Errorf("ignore_author_re must be a valid regular expression: %w", err)
		}
		l.IgnoreAuthorRe = ptr(value)
	case "subject_length":
		return setLength(&l.SubjectLength, key, value)
	case "line_length":
		return setLength(&l.LineLength, key, value)
	case "hard_line_length":
		return setLength(&l.HardLineLength, key, value)
	case "subject_capitalized":
		return setBool(&l.SubjectCapitalized, key, value)
	case "subject_not_punctuated":
		return setBool(&l.SubjectNotPunctuated, key, value)
	case "imperative_subject":
		return setBool(&l.ImperativeSubject, key, value)
	case "no_fixup":
		return setBool(&l.NoFixup, key, value)
	case "no_wip":
		return setBool(&l.NoWip, key, value)
	case "merge_commit":
		return setBool(&l.MergeCommit, key, value)
	case "style":
		s, err := style.ParseName(value)
		if err != nil {
			return err
		}
		l.Style = ptr(string(s))
	case "allowed_types":
		types := []string{}
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		l.AllowedTypes = &types
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func setLength(dst **int, key, value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if n < 0 {
		return fmt.Errorf("%s must not be negative, got %d", key, n)
	}
	*dst = &n
	return nil
}

func setBool(dst **bool, key, value string) error {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s must be true or false: %w", key, err)
	}
	*dst = &b
	return nil
}
