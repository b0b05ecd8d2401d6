// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flagplan

import (
	"context"
	"fmt"

	"tailscale.com/types/logger"
)

// Apply calls the handler of every entry in plan, in order, with target.
// It stops at the first handler that fails and returns an *InvocationError
// for it. Handlers that already ran are not rolled back.
//
// ctx is checked before each handler; a cancelled context stops dispatch
// with ctx.Err().
func Apply[T any](ctx context.Context, target T, plan Plan[T]) error {
	return ApplyWithLogf(ctx, target, plan, logger.Discard)
}

// ApplyWithLogf is like Apply but logs each dispatched option to logf.
func ApplyWithLogf[T any](ctx context.Context, target T, plan Plan[T], logf logger.Logf) error {
	for i, o := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		if o.Defaulted {
			logf("flagplan: [%d/%d] %s (default)", i+1, len(plan), o)
		} else {
			logf("flagplan: [%d/%d] %s", i+1, len(plan), o)
		}
		if err := invoke(target, o); err != nil {
			return &InvocationError{Flag: o.Flag, Args: o.Args, Err: err}
		}
	}
	return nil
}

func invoke[T any](target T, o Interpreted[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	args := append([]string(nil), o.Args...)
	return o.Spec.Handler(target, args)
}

// ReorderedTokens flattens plan back into a token stream: each flag followed
// by its arguments, in plan order.
func ReorderedTokens[T any](plan Plan[T]) []string {
	out := make([]string, 0, len(plan)*2)
	for _, o := range plan {
		out = append(out, o.Flag)
		out = append(out, o.Args...)
	}
	return out
}
