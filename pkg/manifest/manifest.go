// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest loads option declarations from TOML or YAML documents and
// binds them to named handlers.
//
// A manifest looks like this in TOML:
//
//	schema = "1.0"
//	name = "convert"
//
//	[[options]]
//	name = "-i"
//	aliases = ["--input"]
//	arity = 1
//	required = true
//	defaults = ["-"]
//	priority = -1
//	usage = "input file"
//	handler = "input"
//
// Options are registered in document order.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/yeetrun/flagplan/pkg/flagplan"
	"gopkg.in/yaml.v3"
)

// SupportedSchema is the range of schema versions this package understands.
const SupportedSchema = "^1"

type Format int

const (
	Unknown Format = iota
	TOML
	YAML
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML
	case ".yaml", ".yml":
		return YAML
	default:
		return Unknown
	}
}

type Manifest struct {
	Schema      string   `toml:"schema" yaml:"schema"`
	Name        string   `toml:"name" yaml:"name"`
	Description string   `toml:"description,omitempty" yaml:"description,omitempty"`
	Options     []Option `toml:"options" yaml:"options"`
}

type Option struct {
	Name     string   `toml:"name" yaml:"name"`
	Aliases  []string `toml:"aliases,omitempty" yaml:"aliases,omitempty"`
	Arity    int      `toml:"arity,omitempty" yaml:"arity,omitempty"`
	Required bool     `toml:"required,omitempty" yaml:"required,omitempty"`
	Defaults []string `toml:"defaults,omitempty" yaml:"defaults,omitempty"`
	Priority float64  `toml:"priority,omitempty" yaml:"priority,omitempty"`
	Usage    string   `toml:"usage,omitempty" yaml:"usage,omitempty"`
	Handler  string   `toml:"handler" yaml:"handler"`
	// Multiple is informational; repeated options are always accepted.
	Multiple bool `toml:"multiple,omitempty" yaml:"multiple,omitempty"`
}

// Registry maps handler names used in manifests to handlers.
type Registry[T any] map[string]flagplan.Handler[T]

// UnknownHandlerError is returned when an option names a handler that is
// not in the registry.
type UnknownHandlerError struct {
	Option  string
	Handler string
}

func (e *UnknownHandlerError) Error() string {
	if e.Handler == "" {
		return fmt.Sprintf("option %s has no handler", e.Option)
	}
	return fmt.Sprintf("option %s: unknown handler %q", e.Option, e.Handler)
}

// UnsupportedSchemaError is returned for manifests outside SupportedSchema.
type UnsupportedSchemaError struct {
	Schema string
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("unsupported manifest schema %s (want %s)", e.Schema, SupportedSchema)
}

var schemaConstraint = mustConstraint(SupportedSchema)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Decode reads a manifest from r. With format Unknown it tries TOML first
// and falls back to YAML.
func Decode(r io.Reader, format Format) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	switch format {
	case TOML:
		err = decodeTOML(data, &m)
	case YAML:
		err = decodeYAML(data, &m)
	default:
		if err = decodeTOML(data, &m); err != nil {
			m = Manifest{}
			if yerr := decodeYAML(data, &m); yerr != nil {
				return nil, fmt.Errorf("manifest is neither TOML (%v) nor YAML (%v)", err, yerr)
			}
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := m.checkSchema(); err != nil {
		return nil, err
	}
	return &m, nil
}

func decodeTOML(data []byte, m *Manifest) error {
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(m)
	if err != nil {
		return fmt.Errorf("failed to parse toml manifest: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("failed to parse toml manifest: unknown keys %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, m *Manifest) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse yaml manifest: %w", err)
	}
	return nil
}

func (m *Manifest) checkSchema() error {
	if m.Schema == "" {
		m.Schema = "1"
	}
	v, err := semver.NewVersion(m.Schema)
	if err != nil {
		return fmt.Errorf("invalid manifest schema %q: %w", m.Schema, err)
	}
	if !schemaConstraint.Check(v) {
		return &UnsupportedSchemaError{Schema: m.Schema}
	}
	return nil
}

// Read reads the manifest at path, choosing the format by extension.
func Read(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Decode(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Specs binds the manifest options to handlers from reg, in document order.
func Specs[T any](m *Manifest, reg Registry[T]) ([]flagplan.Spec[T], error) {
	specs := make([]flagplan.Spec[T], 0, len(m.Options))
	for _, o := range m.Options {
		h, ok := reg[o.Handler]
		if !ok || h == nil {
			return nil, &UnknownHandlerError{Option: o.Name, Handler: o.Handler}
		}
		specs = append(specs, flagplan.Spec[T]{
			Name:     o.Name,
			Aliases:  o.Aliases,
			Arity:    o.Arity,
			Required: o.Required,
			Defaults: o.Defaults,
			Priority: o.Priority,
			Usage:    o.Usage,
			Handler:  h,
		})
	}
	return specs, nil
}

// Table binds the manifest to reg and builds a flagplan.Table from it.
func Table[T any](m *Manifest, reg Registry[T]) (*flagplan.Table[T], error) {
	specs, err := Specs(m, reg)
	if err != nil {
		return nil, err
	}
	return flagplan.New(specs...)
}

// Load reads the manifest at path and builds its table.
func Load[T any](path string, reg Registry[T]) (*Manifest, *flagplan.Table[T], error) {
	m, err := Read(path)
	if err != nil {
		return nil, nil, err
	}
	t, err := Table(m, reg)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, t, nil
}
