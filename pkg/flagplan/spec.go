// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flagplan

import (
	"fmt"
	"slices"
)

// FlagPrefix is the prefix every flag token must start with.
const FlagPrefix = "-"

// Handler is the action bound to an option. It receives the target the plan
// is applied to and the option's arguments.
type Handler[T any] func(target T, args []string) error

// Spec declares a single option.
type Spec[T any] struct {
	// Name is the canonical flag token, e.g. "-i".
	Name string
	// Aliases are additional flag tokens resolving to this spec.
	Aliases []string
	// Arity is the number of tokens consumed after the flag.
	Arity int
	// Required options must be supplied or have Defaults.
	Required bool
	// Defaults are the arguments used when a required option is missing.
	// Their length is not checked against Arity.
	Defaults []string
	// Priority orders dispatch; lower runs first. NaN is rejected by New.
	Priority float64
	// Usage is a one-line description for help output.
	Usage string
	// Handler is called by Apply.
	Handler Handler[T]
}

// Flags returns the primary name followed by the aliases.
func (s *Spec[T]) Flags() []string {
	out := make([]string, 0, 1+len(s.Aliases))
	out = append(out, s.Name)
	return append(out, s.Aliases...)
}

func (s Spec[T]) clone() Spec[T] {
	s.Aliases = slices.Clone(s.Aliases)
	s.Defaults = slices.Clone(s.Defaults)
	return s
}

func checkArgs(args []string, want int) error {
	if len(args) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrArgumentCount, len(args), want)
	}
	return nil
}

// Nullary adapts fn into a Handler for an option with arity 0.
func Nullary[T any](fn func(T)) Handler[T] {
	return func(target T, args []string) error {
		if err := checkArgs(args, 0); err != nil {
			return err
		}
		fn(target)
		return nil
	}
}

// Unary adapts fn into a Handler for an option with arity 1.
func Unary[T any](fn func(T, string)) Handler[T] {
	return func(target T, args []string) error {
		if err := checkArgs(args, 1); err != nil {
			return err
		}
		fn(target, args[0])
		return nil
	}
}

// Binary adapts fn into a Handler for an option with arity 2.
func Binary[T any](fn func(T, string, string)) Handler[T] {
	return func(target T, args []string) error {
		if err := checkArgs(args, 2); err != nil {
			return err
		}
		fn(target, args[0], args[1])
		return nil
	}
}

// Variadic adapts fn into a Handler that accepts any number of arguments.
func Variadic[T any](fn func(T, ...string) error) Handler[T] {
	return func(target T, args []string) error {
		return fn(target, args...)
	}
}
