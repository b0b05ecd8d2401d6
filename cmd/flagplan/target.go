// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yeetrun/flagplan/pkg/cmdutil"
	"github.com/yeetrun/flagplan/pkg/flagplan"
	"github.com/yeetrun/flagplan/pkg/manifest"
)

// runTarget is what manifest handlers act on when running a plan.
type runTarget struct {
	ctx    context.Context
	stdout io.Writer
	env    []string
}

var runCommand = cmdutil.Run

// builtinHandlers are the handler names a manifest may refer to.
func builtinHandlers() manifest.Registry[*runTarget] {
	return manifest.Registry[*runTarget]{
		"echo": flagplan.Variadic(func(t *runTarget, args ...string) error {
			_, err := fmt.Fprintln(t.stdout, strings.Join(args, " "))
			return err
		}),
		"env": flagplan.Binary(func(t *runTarget, name, value string) {
			t.env = append(t.env, name+"="+value)
		}),
		"exec": flagplan.Variadic(func(t *runTarget, args ...string) error {
			return runCommand(t.ctx, t.stdout, t.env, args)
		}),
		"noop": flagplan.Variadic(func(*runTarget, ...string) error {
			return nil
		}),
	}
}

func loadTable(path string) (*manifest.Manifest, *flagplan.Table[*runTarget], error) {
	return manifest.Load(path, builtinHandlers())
}
