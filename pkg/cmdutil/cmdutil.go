// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// NewStdCmd returns a command wired to the process's stdin and stderr, with
// stdout going to w. env is appended to the current environment.
func NewStdCmd(ctx context.Context, w io.Writer, env []string, name string, arg ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = w
	cmd.Stderr = os.Stderr
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	return cmd
}

// Run runs argv[0] with the remaining elements as arguments.
func Run(ctx context.Context, w io.Writer, env []string, argv []string) error {
	if len(argv) == 0 {
		return errors.New("no command given")
	}
	if err := NewStdCmd(ctx, w, env, argv[0], argv[1:]...).Run(); err != nil {
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}
