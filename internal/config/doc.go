// Package config loads and merges committed configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (COMMITTED_SUBJECT_LENGTH, COMMITTED_STYLE, etc.)
//  3. Config file (committed.toml in the work tree, see [Discover])
//  4. Built-in defaults
//
// Every source is a [Layer] whose unset fields leave lower layers alone.
// Use [Load] to obtain a merged and validated [Config], [SetField] to
// update a single key, and [Save] to write a layer back out as TOML, YAML
// or JSON.
package config
