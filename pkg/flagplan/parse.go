// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flagplan

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/google/shlex"
	"tailscale.com/util/set"
)

// Interpreted is one option resolved by Parse.
type Interpreted[T any] struct {
	// Flag is the token that matched, which may be an alias.
	Flag string
	// Spec is the matched option.
	Spec *Spec[T]
	// Args are the consumed arguments, or a copy of Spec.Defaults.
	Args []string
	// Defaulted is set when the entry was synthesized from Spec.Defaults.
	Defaulted bool
}

func (o Interpreted[T]) String() string {
	if len(o.Args) == 0 {
		return o.Flag
	}
	return o.Flag + " " + strings.Join(o.Args, " ")
}

// Plan is the ordered result of Parse.
type Plan[T any] []Interpreted[T]

func (p Plan[T]) String() string {
	parts := make([]string, len(p))
	for i, o := range p {
		parts[i] = o.String()
	}
	return strings.Join(parts, "; ")
}

// Parse validates tokens against the table and returns the options to
// apply, sorted by priority. No handler is called.
func (t *Table[T]) Parse(tokens []string) (Plan[T], error) {
	pending := make(set.Set[string], len(t.required))
	for _, s := range t.required {
		pending.Add(s.Name)
	}

	var plan Plan[T]
	for i := 0; i < len(tokens); i++ {
		flag := tokens[i]
		if !strings.HasPrefix(flag, FlagPrefix) {
			return nil, &MalformedTokenError{Token: flag, Index: i}
		}
		spec, ok := t.byFlag[flag]
		if !ok {
			return nil, &UnknownOptionError{Flag: flag}
		}
		pending.Delete(spec.Name)

		rest := len(tokens) - i - 1
		if rest < spec.Arity {
			return nil, &InsufficientArgumentsError{Flag: flag, Expected: spec.Arity, Got: rest}
		}
		args := slices.Clone(tokens[i+1 : i+1+spec.Arity])
		i += spec.Arity
		plan = append(plan, Interpreted[T]{Flag: flag, Spec: spec, Args: args})
	}

	var missing []string
	for _, s := range t.required {
		if !pending.Contains(s.Name) {
			continue
		}
		if len(s.Defaults) == 0 {
			missing = append(missing, s.Name)
			continue
		}
		pending.Delete(s.Name)
		plan = append(plan, Interpreted[T]{
			Flag:      s.Name,
			Spec:      s,
			Args:      slices.Clone(s.Defaults),
			Defaulted: true,
		})
	}
	if len(missing) > 0 {
		return nil, &MissingRequiredError{Names: missing}
	}

	slices.SortStableFunc(plan, func(a, b Interpreted[T]) int {
		return cmp.Compare(a.Spec.Priority, b.Spec.Priority)
	})
	return plan, nil
}

// ParseLine splits line into tokens using shell quoting rules and parses
// them.
func (t *Table[T]) ParseLine(line string) (Plan[T], error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to split %q: %w", line, err)
	}
	return t.Parse(tokens)
}
