// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command flagplan inspects, validates and runs option manifests.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/shayne/yargs"
	"github.com/yeetrun/flagplan/pkg/flagplan"
	"golang.org/x/term"
)

var (
	stdout       io.Writer = os.Stdout
	stderr       io.Writer = os.Stderr
	isTerminalFn           = term.IsTerminal
	getwd                  = os.Getwd

	// cfg holds the effective settings for the running command.
	cfg settings
	// optionTokens are the arguments after "--", kept away from the
	// command's own flag parsing.
	optionTokens []string
)

type globalFlagsParsed struct {
	Manifest string `flag:"manifest" help:"Option manifest (FLAGPLAN_MANIFEST)"`
	Verbose  bool   `flag:"verbose" short:"v" help:"Log each dispatched option"`
	NoColor  bool   `flag:"no-color" help:"Disable colored output"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

func splitArgsAtDoubleDash(args []string) ([]string, []string) {
	for i, arg := range args {
		if arg == "--" {
			if i+1 < len(args) {
				return args[:i], args[i+1:]
			}
			return args[:i], nil
		}
	}
	return args, nil
}

func buildHelpConfig() yargs.HelpConfig {
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "flagplan",
			Description: "Inspect, validate and run option manifests",
			Examples: []string{
				"flagplan usage --long",
				"flagplan plan -- -o out.txt -i in.txt -h",
				"flagplan --manifest build.yaml run -- -target linux",
				"flagplan check --jobs 8 recorded.txt.zst",
			},
		},
		SubCommands: map[string]yargs.SubCommandInfo{
			"usage": {
				Name:        "usage",
				Description: "List the options declared in the manifest",
				Usage:       "[--long]",
			},
			"plan": {
				Name:        "plan",
				Description: "Parse option tokens and print the dispatch order",
				Usage:       "[--format plain|tokens] -- TOKENS...",
				Examples:    []string{"flagplan plan --format tokens -- -o out.txt -h"},
			},
			"run": {
				Name:        "run",
				Description: "Parse option tokens and run their handlers",
				Usage:       "[--dry-run] -- TOKENS...",
				Aliases:     []string{"apply"},
			},
			"record": {
				Name:        "record",
				Description: "Validate option tokens and append them to a file for check",
				Usage:       "[--reordered] FILE -- TOKENS...",
				Examples:    []string{"flagplan record recorded.txt.zst -- -o out.txt -h"},
			},
			"check": {
				Name:        "check",
				Description: "Validate recorded command lines, one per line",
				Usage:       "[--jobs N] FILE",
			},
		},
	}
}

func handlers() map[string]yargs.SubcommandHandler {
	return map[string]yargs.SubcommandHandler{
		"usage":  handleUsage,
		"plan":   handlePlan,
		"run":    handleRun,
		"record": handleRecord,
		"check":  handleCheck,
	}
}

func run(ctx context.Context, args []string) error {
	args, optionTokens = splitArgsAtDoubleDash(args)
	globalFlags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		return err
	}
	wd, err := getwd()
	if err != nil {
		return err
	}
	loc, err := loadProjectConfigFromDir(wd)
	if err != nil {
		return err
	}
	cfg, err = resolveSettings(globalFlags, loc, os.Getenv, isTerminalFn(int(os.Stdout.Fd())))
	if err != nil {
		return err
	}
	if !filepath.IsAbs(cfg.Manifest) {
		cfg.Manifest = filepath.Join(wd, cfg.Manifest)
	}
	if cfg.Verbose && loc != nil {
		log.Printf("using %s", loc.Path)
	}
	return yargs.RunSubcommandsWithGroups(ctx, remaining, buildHelpConfig(), globalFlagsParsed{}, handlers(), nil)
}

func errorHint(err error) string {
	var unknown *flagplan.UnknownOptionError
	var missing *flagplan.MissingRequiredError
	var malformed *flagplan.MalformedTokenError
	switch {
	case errors.As(err, &unknown), errors.As(err, &missing):
		return "Run 'flagplan usage' to list the available options."
	case errors.As(err, &malformed):
		return "Every option token must start with '-'; arguments follow their option."
	case errors.Is(err, os.ErrNotExist):
		return "Set --manifest, FLAGPLAN_MANIFEST or 'manifest' in " + projectConfigName + "."
	}
	return ""
}

func printCLIError(w io.Writer, err error) {
	if err == nil || errors.Is(err, errCheckFailed) {
		return
	}
	prefix := "Error: "
	if cfg.Color {
		c := color.New(color.FgRed, color.Bold)
		c.EnableColor()
		prefix = c.Sprint(prefix)
	}
	fmt.Fprintf(w, "%s%v\n", prefix, err)
	if h := errorHint(err); h != "" {
		fmt.Fprintln(w, h)
	}
}

func main() {
	log.SetFlags(0)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		printCLIError(stderr, err)
		os.Exit(1)
	}
}
