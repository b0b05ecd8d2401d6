// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flagplan

import (
	"math"
	"strings"

	"tailscale.com/util/mak"
)

// Table is an immutable set of option specs indexed by flag token.
type Table[T any] struct {
	specs    []*Spec[T] // registration order
	byFlag   map[string]*Spec[T]
	required []*Spec[T]
}

// New builds a Table from specs. The order of specs is significant: it is
// the order in which missing defaults are synthesized and the tie-break
// order for missing-option reports.
//
// Every flag token, primary name or alias, must be unique across all specs;
// otherwise New returns a *DuplicateOptionError.
func New[T any](specs ...Spec[T]) (*Table[T], error) {
	t := &Table[T]{
		specs: make([]*Spec[T], 0, len(specs)),
	}
	for _, s := range specs {
		if err := validateSpec(&s); err != nil {
			return nil, err
		}
		sp := new(Spec[T])
		*sp = s.clone()
		for _, flag := range sp.Flags() {
			if prev, ok := t.byFlag[flag]; ok {
				return nil, &DuplicateOptionError{Flag: flag, Existing: prev.Name, Incoming: sp.Name}
			}
			mak.Set(&t.byFlag, flag, sp)
		}
		t.specs = append(t.specs, sp)
		if sp.Required {
			t.required = append(t.required, sp)
		}
	}
	return t, nil
}

// MustNew is like New but panics on error. It is meant for option tables
// declared as package-level literals.
func MustNew[T any](specs ...Spec[T]) *Table[T] {
	t, err := New(specs...)
	if err != nil {
		panic(err)
	}
	return t
}

func validateSpec[T any](s *Spec[T]) error {
	if s.Name == "" {
		return &InvalidSpecError{Reason: "empty name"}
	}
	if s.Arity < 0 {
		return &InvalidSpecError{Name: s.Name, Reason: "negative arity"}
	}
	if math.IsNaN(s.Priority) {
		return &InvalidSpecError{Name: s.Name, Reason: "priority is NaN"}
	}
	if s.Handler == nil {
		return &InvalidSpecError{Name: s.Name, Reason: "no handler"}
	}
	for _, flag := range s.Flags() {
		if !strings.HasPrefix(flag, FlagPrefix) {
			return &InvalidSpecError{Name: s.Name, Reason: "flag " + flag + " does not start with '" + FlagPrefix + "'"}
		}
	}
	return nil
}

// Lookup returns the spec registered for token, which may be a primary name
// or an alias. The returned spec is shared and must not be modified.
func (t *Table[T]) Lookup(token string) (*Spec[T], bool) {
	s, ok := t.byFlag[token]
	return s, ok
}

// RequiredSpecs returns the specs with Required set, in registration order.
func (t *Table[T]) RequiredSpecs() []*Spec[T] {
	return append([]*Spec[T](nil), t.required...)
}

// Specs returns all specs in registration order.
func (t *Table[T]) Specs() []*Spec[T] {
	return append([]*Spec[T](nil), t.specs...)
}

// Len reports the number of specs in the table.
func (t *Table[T]) Len() int {
	return len(t.specs)
}
