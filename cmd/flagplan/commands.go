// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shayne/yargs"
	"github.com/yeetrun/flagplan/pkg/codecutil"
	"github.com/yeetrun/flagplan/pkg/flagplan"
	"github.com/yeetrun/flagplan/pkg/usage"
	"golang.org/x/sync/errgroup"
	"tailscale.com/types/logger"
)

var errCheckFailed = errors.New("check failed")

type usageFlagsParsed struct {
	Long bool `flag:"long" short:"l" help:"Show aliases, arity, priority and defaults"`
}

type planFlagsParsed struct {
	Format string `flag:"format" default:"plain" help:"Output format (plain|tokens)"`
}

type runFlagsParsed struct {
	DryRun bool `flag:"dry-run" short:"n" help:"Print the plan instead of running it"`
}

type recordFlagsParsed struct {
	Reordered bool `flag:"reordered" short:"r" help:"Record the tokens in dispatch order"`
}

type checkFlagsParsed struct {
	Jobs int `flag:"jobs" short:"j" help:"Number of lines to check in parallel"`
}

func stripCommand(args []string, name string) []string {
	if len(args) > 0 && args[0] == name {
		return args[1:]
	}
	return args
}

func noPositionals(cmd string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: unexpected argument %q (option tokens go after --)", cmd, args[0])
	}
	return nil
}

func handleUsage(_ context.Context, args []string) error {
	result, err := yargs.ParseFlags[usageFlagsParsed](stripCommand(args, "usage"))
	if err != nil {
		return err
	}
	if err := noPositionals("usage", result.Args); err != nil {
		return err
	}
	m, table, err := loadTable(cfg.Manifest)
	if err != nil {
		return err
	}
	title := m.Name
	if m.Description != "" {
		title += " - " + m.Description
	}
	return usage.Write(stdout, title, table, usage.Options{Verbose: result.Flags.Long, Color: cfg.Color})
}

func handlePlan(_ context.Context, args []string) error {
	result, err := yargs.ParseFlags[planFlagsParsed](stripCommand(args, "plan"))
	if err != nil {
		return err
	}
	if err := noPositionals("plan", result.Args); err != nil {
		return err
	}
	_, table, err := loadTable(cfg.Manifest)
	if err != nil {
		return err
	}
	plan, err := table.Parse(optionTokens)
	if err != nil {
		return err
	}
	return writePlan(plan, result.Flags.Format)
}

func writePlan(plan flagplan.Plan[*runTarget], format string) error {
	switch format {
	case "", "plain":
		return usage.WritePlan(stdout, optionTokens, plan, usage.Options{Color: cfg.Color})
	case "tokens":
		_, err := fmt.Fprintln(stdout, shellJoin(flagplan.ReorderedTokens(plan)))
		return err
	default:
		return fmt.Errorf("unknown format %q (want plain or tokens)", format)
	}
}

func handleRun(ctx context.Context, args []string) error {
	result, err := yargs.ParseFlags[runFlagsParsed](stripCommand(args, "run"))
	if err != nil {
		return err
	}
	if err := noPositionals("run", result.Args); err != nil {
		return err
	}
	_, table, err := loadTable(cfg.Manifest)
	if err != nil {
		return err
	}
	plan, err := table.Parse(optionTokens)
	if err != nil {
		return err
	}
	if result.Flags.DryRun {
		return writePlan(plan, "plain")
	}
	logf := logger.Discard
	if cfg.Verbose {
		logf = log.Printf
	}
	target := &runTarget{ctx: ctx, stdout: stdout}
	return flagplan.ApplyWithLogf(ctx, target, plan, logf)
}

func handleRecord(_ context.Context, args []string) error {
	result, err := yargs.ParseFlags[recordFlagsParsed](stripCommand(args, "record"))
	if err != nil {
		return err
	}
	if len(result.Args) != 1 {
		return fmt.Errorf("record requires exactly one FILE argument, got %d", len(result.Args))
	}
	_, table, err := loadTable(cfg.Manifest)
	if err != nil {
		return err
	}
	plan, err := table.Parse(optionTokens)
	if err != nil {
		return err
	}
	tokens := optionTokens
	if result.Flags.Reordered {
		tokens = flagplan.ReorderedTokens(plan)
	}
	if cfg.Verbose {
		log.Printf("recording %d options to %s", len(plan), result.Args[0])
	}
	return codecutil.AppendLine(result.Args[0], shellJoin(tokens))
}

type lineResult struct {
	line codecutil.Line
	err  error
}

func handleCheck(ctx context.Context, args []string) error {
	result, err := yargs.ParseFlags[checkFlagsParsed](stripCommand(args, "check"))
	if err != nil {
		return err
	}
	if len(result.Args) != 1 {
		return fmt.Errorf("check requires exactly one FILE argument, got %d", len(result.Args))
	}
	file := result.Args[0]
	jobs := cfg.Jobs
	if result.Flags.Jobs > 0 {
		jobs = result.Flags.Jobs
	}

	_, table, err := loadTable(cfg.Manifest)
	if err != nil {
		return err
	}
	rc, err := codecutil.Open(file)
	if err != nil {
		return err
	}
	lines, err := codecutil.ReadLines(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	results := make([]lineResult, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, line := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := table.ParseLine(line.Text)
			results[i] = lineResult{line: line, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err == nil {
			continue
		}
		failed++
		fmt.Fprintf(stdout, "%s:%d: %v\n", file, r.line.Number, r.err)
	}
	if cfg.Verbose || failed > 0 {
		fmt.Fprintf(stdout, "%d of %d lines failed\n", failed, len(lines))
	}
	if failed > 0 {
		return errCheckFailed
	}
	return nil
}

// shellJoin quotes tokens so that the result splits back into the same
// tokens.
func shellJoin(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = shellQuote(tok)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`|&;<>()*?[]#~!{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
