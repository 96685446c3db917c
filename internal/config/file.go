package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shu-go/findcfg"
	"gopkg.in/yaml.v3"
)

// FileName is the repository-level config file written by `config init`.
const FileName = "committed.toml"

// Format is a config document encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the encoding from a file extension; unknown extensions
// are TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// Discover returns the config file to load, or "" when there is none.
//
// An explicit path always wins. Otherwise the lookup order is
// <root>/committed.toml, committed.yaml/.yml/.json in root and then in the
// user config dir, and finally the user config dir's committed.toml.
func Discover(root, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}

	if root != "" {
		if p := filepath.Join(root, FileName); isFile(p) {
			return p, nil
		}
	}

	finder := findcfg.New(
		findcfg.Name("committed"),
		findcfg.YAML(),
		findcfg.JSON(),
		findcfg.Dir(root),
		findcfg.UserConfigDir("committed"),
	)
	if found := finder.Find(); found != nil && isFile(found.Path) {
		return found.Path, nil
	}

	if dir, err := ConfigDir(); err == nil {
		if p := filepath.Join(dir, FileName); isFile(p) {
			return p, nil
		}
	}
	return "", nil
}

func isFile(path string) bool {
	s, err := os.Stat(path)
	return err == nil && !s.IsDir()
}

// LoadFile reads a layer from path, decoding by extension. Unknown keys are
// rejected.
func LoadFile(path string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, fmt.Errorf("reading config file: %w", err)
	}
	l, err := Decode(bytes.NewReader(data), FormatOf(path))
	if err != nil {
		return Layer{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return l, nil
}

// Decode reads one layer in the given format.
func Decode(r io.Reader, format Format) (Layer, error) {
	var l Layer
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
			return Layer{}, err
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
			return Layer{}, err
		}
	default:
		md, err := toml.NewDecoder(r).Decode(&l)
		if err != nil {
			return Layer{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Layer{}, fmt.Errorf("unknown config key: %s", undecoded[0])
		}
	}
	return l, nil
}

// Encode writes l in the given format.
func Encode(w io.Writer, l Layer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	default:
		return toml.NewEncoder(w).Encode(l)
	}
}

// Save writes l to path, creating parent directories.
func Save(path string, l Layer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, l, FormatOf(path)); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
