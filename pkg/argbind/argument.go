// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"slices"
)

// Argument declares one positional slot.
type Argument struct {
	name        string
	mode        ArgumentMode
	description string
	def         any
}

// NewArgument returns an argument declaration. A zero mode means Optional.
//
// A required argument cannot carry a default. An array argument's default
// must be a []string; a nil default becomes the empty slice.
func NewArgument(name string, mode ArgumentMode, description string, def any) (*Argument, error) {
	if name == "" {
		return nil, &DefinitionError{Subject: "argument", Reason: "name cannot be empty"}
	}
	if mode == 0 {
		mode = Optional
	}
	if !mode.Valid() {
		return nil, &DefinitionError{Subject: "argument", Name: name, Reason: fmt.Sprintf("mode %s is not valid", mode)}
	}
	a := &Argument{name: name, mode: mode, description: description}
	if err := a.setDefault(def); err != nil {
		return nil, err
	}
	return a, nil
}

// MustArgument is like NewArgument but panics on a malformed declaration.
func MustArgument(name string, mode ArgumentMode, description string, def any) *Argument {
	a, err := NewArgument(name, mode, description, def)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Argument) setDefault(def any) error {
	if a.mode.IsRequired() && def != nil {
		return &DefinitionError{Subject: "argument", Name: a.name, Reason: "a required argument cannot have a default value"}
	}
	if a.mode.IsArray() {
		if def == nil {
			a.def = []string{}
			return nil
		}
		list, ok := def.([]string)
		if !ok {
			return &DefinitionError{Subject: "argument", Name: a.name, Reason: fmt.Sprintf("default for an array argument must be a []string, got %T", def)}
		}
		a.def = slices.Clone(list)
		return nil
	}
	a.def = def
	return nil
}

// Name returns the argument name.
func (a *Argument) Name() string { return a.name }

// Mode returns the declared mode.
func (a *Argument) Mode() ArgumentMode { return a.mode }

// Description returns the help text.
func (a *Argument) Description() string { return a.description }

// Default returns the value used when no token is bound. Slices are copies.
func (a *Argument) Default() any { return cloneValue(a.def) }

// IsRequired reports whether the argument must be supplied.
func (a *Argument) IsRequired() bool { return a.mode.IsRequired() }

// IsArray reports whether the argument collects the remaining tokens.
func (a *Argument) IsArray() bool { return a.mode.IsArray() }

func cloneValue(v any) any {
	if list, ok := v.([]string); ok {
		return slices.Clone(list)
	}
	return v
}
