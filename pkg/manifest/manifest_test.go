// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/flagplan/pkg/flagplan"
)

const tomlManifest = `
schema = "1.2"
name = "convert"
description = "Convert files"

[[options]]
name = "-h"
aliases = ["-help"]
priority = -2
usage = "Show this help message"
handler = "help"

[[options]]
name = "-i"
arity = 1
required = true
defaults = ["-"]
priority = -1
usage = "input file"
handler = "input"

[[options]]
name = "-o"
arity = 1
required = true
usage = "output file"
handler = "output"
`

const yamlManifest = `
schema: "1"
name: convert
options:
  - name: -h
    aliases: [-help]
    priority: -2
    usage: Show this help message
    handler: help
  - name: -i
    arity: 1
    required: true
    defaults: ["-"]
    priority: -1
    usage: input file
    handler: input
  - name: -o
    arity: 1
    required: true
    usage: output file
    handler: output
`

type settings struct {
	help   bool
	input  string
	output string
}

func testRegistry() Registry[*settings] {
	return Registry[*settings]{
		"help":   flagplan.Nullary(func(s *settings) { s.help = true }),
		"input":  flagplan.Unary(func(s *settings, v string) { s.input = v }),
		"output": flagplan.Unary(func(s *settings, v string) { s.output = v }),
	}
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
	}{
		{"toml", tomlManifest, TOML},
		{"yaml", yamlManifest, YAML},
		{"sniff toml", tomlManifest, Unknown},
		{"sniff yaml", yamlManifest, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(strings.NewReader(tt.doc), tt.format)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if m.Name != "convert" {
				t.Errorf("Name = %q, want %q", m.Name, "convert")
			}
			var names []string
			for _, o := range m.Options {
				names = append(names, o.Name)
			}
			if diff := cmp.Diff([]string{"-h", "-i", "-o"}, names); diff != "" {
				t.Errorf("option order mismatch (-want +got):\n%s", diff)
			}
			in := m.Options[1]
			if in.Arity != 1 || !in.Required || in.Priority != -1 || !cmp.Equal(in.Defaults, []string{"-"}) {
				t.Errorf("option -i = %+v", in)
			}

			table, err := Table(m, testRegistry())
			if err != nil {
				t.Fatalf("Table error: %v", err)
			}
			plan, err := table.Parse([]string{"-o", "out.txt", "-help"})
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			s := &settings{}
			if err := flagplan.Apply(context.Background(), s, plan); err != nil {
				t.Fatalf("Apply error: %v", err)
			}
			want := settings{help: true, input: "-", output: "out.txt"}
			if *s != want {
				t.Errorf("settings = %+v, want %+v", *s, want)
			}
		})
	}
}

func TestUnknownHandler(t *testing.T) {
	m := &Manifest{Options: []Option{{Name: "-x", Handler: "nope"}}}
	_, err := Specs(m, testRegistry())
	var unknown *UnknownHandlerError
	if !errors.As(err, &unknown) {
		t.Fatalf("Specs error = %v, want *UnknownHandlerError", err)
	}
	if unknown.Option != "-x" || unknown.Handler != "nope" {
		t.Errorf("error = %+v", unknown)
	}
}

func TestSchema(t *testing.T) {
	tests := []struct {
		schema string
		ok     bool
	}{
		{"", true},
		{"1", true},
		{"1.9.3", true},
		{"2.0", false},
		{"0.9", false},
		{"banana", false},
	}
	for _, tt := range tests {
		t.Run(tt.schema, func(t *testing.T) {
			doc := "name = \"x\"\n"
			if tt.schema != "" {
				doc = "schema = \"" + tt.schema + "\"\n" + doc
			}
			_, err := Decode(strings.NewReader(doc), TOML)
			if tt.ok && err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("Decode succeeded, want error")
			}
		})
	}

	_, err := Decode(strings.NewReader(`schema = "3.1"`), TOML)
	var unsupported *UnsupportedSchemaError
	if !errors.As(err, &unsupported) || unsupported.Schema != "3.1" {
		t.Errorf("Decode error = %v, want *UnsupportedSchemaError for 3.1", err)
	}
}

func TestDuplicateOptionInManifest(t *testing.T) {
	m := &Manifest{Options: []Option{
		{Name: "-i", Arity: 1, Handler: "input"},
		{Name: "-o", Aliases: []string{"-i"}, Arity: 1, Handler: "output"},
	}}
	_, err := Table(m, testRegistry())
	var dup *flagplan.DuplicateOptionError
	if !errors.As(err, &dup) {
		t.Fatalf("Table error = %v, want *flagplan.DuplicateOptionError", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	for name, doc := range map[string]string{
		"opts.toml": tomlManifest,
		"opts.yml":  yamlManifest,
		"opts.conf": yamlManifest,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
		m, table, err := Load(path, testRegistry())
		if err != nil {
			t.Fatalf("Load(%s) error: %v", name, err)
		}
		if m.Name != "convert" || table.Len() != 3 {
			t.Errorf("Load(%s) = %q with %d specs", name, m.Name, table.Len())
		}
	}

	if _, _, err := Load(filepath.Join(dir, "missing.toml"), testRegistry()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.toml":  TOML,
		"a.YAML":  YAML,
		"a.yml":   YAML,
		"a.json":  Unknown,
		"options": Unknown,
	}
	for path, want := range tests {
		if got := FormatOf(path); got != want {
			t.Errorf("FormatOf(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
	}{
		{"toml", "[[options]]\nname = \"-o\"\nrequierd = true\nhandler = \"output\"\n", TOML},
		{"yaml", "options:\n  - name: -o\n    requierd: true\n    handler: output\n", YAML},
		{"toml top level", "name = \"x\"\ndescripton = \"typo\"\n", TOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(strings.NewReader(tt.doc), tt.format)
			if err == nil {
				t.Fatalf("Decode = %+v, want error for misspelled key", m)
			}
			if !strings.Contains(err.Error(), "requierd") && !strings.Contains(err.Error(), "descripton") {
				t.Errorf("Decode error = %v, want it to name the unknown key", err)
			}
		})
	}
}
