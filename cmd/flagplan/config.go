// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	projectConfigName = "flagplan.toml"
	defaultManifest   = "options.toml"
)

type projectConfig struct {
	Manifest string `toml:"manifest,omitempty"`
	Color    *bool  `toml:"color,omitempty"`
	Jobs     int    `toml:"jobs,omitempty"`
}

type projectConfigLocation struct {
	Path   string
	Dir    string
	Config *projectConfig
}

func loadProjectConfigFromDir(startDir string) (*projectConfigLocation, error) {
	path, err := findProjectConfigPath(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var cfg projectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &projectConfigLocation{Path: path, Dir: filepath.Dir(path), Config: &cfg}, nil
}

func findProjectConfigPath(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		path := filepath.Join(dir, projectConfigName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if err != nil && !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// settings is the effective configuration after merging the project config,
// the environment and global flags, in that order of precedence.
type settings struct {
	Manifest string
	Color    bool
	Jobs     int
	Verbose  bool
}

func resolveSettings(flags globalFlagsParsed, loc *projectConfigLocation, getenv func(string) string, colorTerminal bool) (settings, error) {
	s := settings{
		Manifest: defaultManifest,
		Color:    true,
		Jobs:     runtime.GOMAXPROCS(0),
		Verbose:  flags.Verbose,
	}
	if loc != nil && loc.Config != nil {
		cfg := loc.Config
		if cfg.Manifest != "" {
			s.Manifest = cfg.Manifest
			if !filepath.IsAbs(s.Manifest) {
				s.Manifest = filepath.Join(loc.Dir, s.Manifest)
			}
		}
		if cfg.Color != nil {
			s.Color = *cfg.Color
		}
		if cfg.Jobs > 0 {
			s.Jobs = cfg.Jobs
		}
	}
	if v := getenv("FLAGPLAN_MANIFEST"); v != "" {
		s.Manifest = v
	}
	if v := getenv("FLAGPLAN_JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return settings{}, fmt.Errorf("invalid FLAGPLAN_JOBS %q", v)
		}
		s.Jobs = n
	}
	if getenv("NO_COLOR") != "" || !colorTerminal {
		s.Color = false
	}
	if flags.Manifest != "" {
		s.Manifest = flags.Manifest
	}
	if flags.NoColor {
		s.Color = false
	}
	return s, nil
}
