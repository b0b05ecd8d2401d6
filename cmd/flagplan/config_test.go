// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfigFromDir(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	loc, err := loadProjectConfigFromDir(nested)
	if err != nil {
		t.Fatalf("load without config: %v", err)
	}
	if loc != nil {
		t.Fatalf("loc = %+v, want nil when no %s exists", loc, projectConfigName)
	}

	doc := "manifest = \"opts/manifest.yaml\"\ncolor = false\njobs = 3\n"
	if err := os.WriteFile(filepath.Join(root, projectConfigName), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	loc, err = loadProjectConfigFromDir(nested)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loc == nil || loc.Dir != root {
		t.Fatalf("loc = %+v, want config in %s", loc, root)
	}
	if loc.Config.Manifest != "opts/manifest.yaml" || loc.Config.Jobs != 3 || loc.Config.Color == nil || *loc.Config.Color {
		t.Errorf("config = %+v", loc.Config)
	}
}

func TestLoadProjectConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, projectConfigName), []byte("manifest = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadProjectConfigFromDir(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResolveSettings(t *testing.T) {
	no := false
	loc := &projectConfigLocation{
		Dir:    "/proj",
		Config: &projectConfig{Manifest: "opts.toml", Color: &no, Jobs: 2},
	}
	env := func(m map[string]string) func(string) string {
		return func(k string) string { return m[k] }
	}

	tests := []struct {
		name     string
		flags    globalFlagsParsed
		loc      *projectConfigLocation
		env      map[string]string
		terminal bool
		want     settings
		wantErr  bool
	}{
		{
			name:     "defaults",
			terminal: true,
			want:     settings{Manifest: defaultManifest, Color: true},
		},
		{
			name:     "project config relative to its dir",
			loc:      loc,
			terminal: true,
			want:     settings{Manifest: "/proj/opts.toml", Color: false, Jobs: 2},
		},
		{
			name:     "env overrides config",
			loc:      loc,
			env:      map[string]string{"FLAGPLAN_MANIFEST": "env.yaml", "FLAGPLAN_JOBS": "7"},
			terminal: true,
			want:     settings{Manifest: "env.yaml", Color: false, Jobs: 7},
		},
		{
			name:     "flags override env",
			flags:    globalFlagsParsed{Manifest: "flag.toml", Verbose: true},
			env:      map[string]string{"FLAGPLAN_MANIFEST": "env.yaml"},
			terminal: true,
			want:     settings{Manifest: "flag.toml", Color: true, Verbose: true},
		},
		{
			name:     "NO_COLOR",
			env:      map[string]string{"NO_COLOR": "1"},
			terminal: true,
			want:     settings{Manifest: defaultManifest, Color: false},
		},
		{
			name:  "not a terminal",
			flags: globalFlagsParsed{},
			want:  settings{Manifest: defaultManifest, Color: false},
		},
		{
			name:     "--no-color",
			flags:    globalFlagsParsed{NoColor: true},
			terminal: true,
			want:     settings{Manifest: defaultManifest, Color: false},
		},
		{
			name:    "bad jobs",
			env:     map[string]string{"FLAGPLAN_JOBS": "zero"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSettings(tt.flags, tt.loc, env(tt.env), tt.terminal)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveSettings error: %v", err)
			}
			if tt.want.Jobs == 0 {
				tt.want.Jobs = got.Jobs
				if got.Jobs < 1 {
					t.Errorf("Jobs = %d, want >= 1", got.Jobs)
				}
			}
			if got != tt.want {
				t.Errorf("settings = %+v, want %+v", got, tt.want)
			}
		})
	}
}
