// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package usage renders help text for flagplan tables and plans.
package usage

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/yeetrun/flagplan/pkg/flagplan"
)

type Options struct {
	// Verbose adds aliases, arity, priority and defaults for each option.
	Verbose bool
	// Color enables ANSI styling of section headings.
	Color bool
}

func (o Options) heading(s string) string {
	if !o.Color {
		return s
	}
	c := color.New(color.Bold)
	c.EnableColor()
	return c.Sprint(s)
}

// Write writes the option listing of t to w, in registration order.
func Write[T any](w io.Writer, title string, t *flagplan.Table[T], opts Options) error {
	if title != "" {
		if _, err := fmt.Fprintf(w, "%s:\n", opts.heading(title)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "  %s\n", opts.heading("Available options:")); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for _, s := range t.Specs() {
		fmt.Fprintf(tw, "    %s\t%s\n", s.Name, s.Usage)
		if opts.Verbose {
			fmt.Fprintf(tw, "    \t  %s\n", details(s))
		}
	}
	return tw.Flush()
}

func details[T any](s *flagplan.Spec[T]) string {
	var parts []string
	if len(s.Aliases) > 0 {
		parts = append(parts, "aliases: "+strings.Join(s.Aliases, ", "))
	}
	parts = append(parts, "arity: "+strconv.Itoa(s.Arity))
	parts = append(parts, "priority: "+strconv.FormatFloat(s.Priority, 'g', -1, 64))
	if s.Required {
		if len(s.Defaults) > 0 {
			parts = append(parts, "required (default: "+strings.Join(s.Defaults, " ")+")")
		} else {
			parts = append(parts, "required")
		}
	}
	return strings.Join(parts, "; ")
}

// WritePlan writes the tokens a plan was parsed from followed by the
// interpreted options in dispatch order.
func WritePlan[T any](w io.Writer, provided []string, plan flagplan.Plan[T], opts Options) error {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(opts.heading("Provided arguments:"))
	for _, arg := range provided {
		b.WriteString(" ")
		b.WriteString(arg)
	}
	b.WriteString("\n  ")
	b.WriteString(opts.heading("Interpreted arguments:"))
	b.WriteString("\n")
	for _, o := range plan {
		b.WriteString("    ")
		b.WriteString(o.String())
		if o.Defaulted {
			b.WriteString(" (default)")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
