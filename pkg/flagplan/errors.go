// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flagplan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrArgumentCount is returned by the fixed-arity handler adapters when
	// they are called with the wrong number of arguments.
	ErrArgumentCount = errors.New("wrong number of arguments")

	// ErrHandlerPanic is wrapped by an *InvocationError when a handler panics.
	ErrHandlerPanic = errors.New("handler panicked")
)

// DuplicateOptionError is returned by New when a flag token (name or alias)
// is registered by more than one spec.
type DuplicateOptionError struct {
	Flag     string
	Existing string // primary name of the spec that registered Flag first
	Incoming string // primary name of the spec that tried to register it again
}

func (e *DuplicateOptionError) Error() string {
	if e.Existing == e.Incoming {
		return fmt.Sprintf("duplicate option %s in %s", e.Flag, e.Incoming)
	}
	return fmt.Sprintf("duplicate option %s: registered by %s and %s", e.Flag, e.Existing, e.Incoming)
}

// InvalidSpecError is returned by New when a spec cannot be registered at all.
type InvalidSpecError struct {
	Name   string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid option: %s", e.Reason)
	}
	return fmt.Sprintf("invalid option %s: %s", e.Name, e.Reason)
}

// MalformedTokenError is returned when a token in flag position does not
// start with the flag prefix.
type MalformedTokenError struct {
	Token string
	Index int // position of Token in the input
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("option %s does not start with a '%s'", e.Token, FlagPrefix)
}

// UnknownOptionError is returned when a flag matches no registered spec.
type UnknownOptionError struct {
	Flag string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("option %s is not defined", e.Flag)
}

// InsufficientArgumentsError is returned when the input ends before an
// option received all of its arguments.
type InsufficientArgumentsError struct {
	Flag     string
	Expected int
	Got      int
}

func (e *InsufficientArgumentsError) Error() string {
	return fmt.Sprintf("there are not enough arguments for '%s' (%d expected, got %d)", e.Flag, e.Expected, e.Got)
}

// MissingRequiredError is returned when required options were neither
// supplied nor defaulted. Names are primary names in registration order.
type MissingRequiredError struct {
	Names []string
}

func (e *MissingRequiredError) Error() string {
	return "required option(s) left undefined: " + strings.Join(e.Names, " ")
}

// InvocationError is returned by Apply when a handler fails.
type InvocationError struct {
	Flag string
	Args []string
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("unable to invoke handler for %s: %v", e.Flag, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
