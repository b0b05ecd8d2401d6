// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flagplan provides a declarative option parser and dispatcher.
//
// A caller declares one Spec per option: its flag name, aliases, arity,
// priority, whether it is required, the default arguments used when a
// required option is missing, and the handler to call. Specs are frozen into
// a Table, which is then used to turn a raw token sequence into a Plan:
//
//	type app struct {
//	    help   bool
//	    input  string
//	    output string
//	}
//
//	table := flagplan.MustNew(
//	    flagplan.Spec[*app]{
//	        Name:     "-h",
//	        Aliases:  []string{"-help"},
//	        Priority: -2,
//	        Usage:    "Show this help message",
//	        Handler:  flagplan.Nullary(func(a *app) { a.help = true }),
//	    },
//	    flagplan.Spec[*app]{
//	        Name:     "-i",
//	        Arity:    1,
//	        Required: true,
//	        Defaults: []string{"-"},
//	        Priority: -1,
//	        Usage:    "input file",
//	        Handler:  flagplan.Unary(func(a *app, v string) { a.input = v }),
//	    },
//	)
//
//	plan, err := table.Parse(os.Args[1:])
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := flagplan.Apply(ctx, &app{}, plan); err != nil {
//	    log.Fatal(err)
//	}
//
// # Parsing
//
// Every token in the input must be a flag (a string starting with "-") or one
// of the arguments consumed by the preceding flag. Each flag consumes exactly
// Arity following tokens, whatever they look like. There is no support for
// combined short flags or "--flag=value".
//
// Required options that were not supplied are filled in from their default
// arguments, in registration order. Required options without defaults cause
// a *MissingRequiredError naming all of them.
//
// The plan is then stably sorted by priority, lowest first. Entries with the
// same priority keep their order: supplied options in input order, followed
// by synthesized defaults in registration order.
//
// # Dispatch
//
// Parse never calls a handler, so a plan can be inspected or logged before
// anything happens. Apply runs handlers in plan order and stops at the first
// failure; side effects of handlers that already ran are not undone.
//
// A Table is immutable once built and safe for concurrent use.
package flagplan
