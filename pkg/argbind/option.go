// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"tailscale.com/util/set"
)

// Option declares one named flag.
type Option struct {
	name        string
	shortcuts   []string
	mode        OptionMode
	description string
	def         any
}

// NewOption returns an option declaration.
//
// A leading "--" on name is stripped. shortcut may be empty, a single alias
// ("v" or "-v"), or several joined with "|" ("v|V" or "-v|-V"); each alias
// must be a single character and duplicates collapse. A zero mode means
// NoValue. A NoValue option's default is always false and cannot be set; an
// array option's default must be a []string, nil meaning empty.
func NewOption(name, shortcut string, mode OptionMode, description string, def any) (*Option, error) {
	name = strings.TrimPrefix(name, "--")
	if name == "" {
		return nil, &DefinitionError{Subject: "option", Reason: "name cannot be empty"}
	}
	if mode == 0 {
		mode = NoValue
	}
	if !mode.Valid() {
		return nil, &DefinitionError{Subject: "option", Name: name, Reason: fmt.Sprintf("mode %s is not valid", mode)}
	}
	shortcuts, err := parseShortcuts(name, shortcut)
	if err != nil {
		return nil, err
	}
	o := &Option{name: name, shortcuts: shortcuts, mode: mode, description: description}
	if err := o.setDefault(def); err != nil {
		return nil, err
	}
	return o, nil
}

// MustOption is like NewOption but panics on a malformed declaration.
func MustOption(name, shortcut string, mode OptionMode, description string, def any) *Option {
	o, err := NewOption(name, shortcut, mode, description, def)
	if err != nil {
		panic(err)
	}
	return o
}

func parseShortcuts(name, shortcut string) ([]string, error) {
	if shortcut == "" {
		return nil, nil
	}
	seen := make(set.Set[string])
	var out []string
	for _, s := range strings.Split(strings.TrimLeft(shortcut, "-"), "|") {
		s = strings.TrimLeft(strings.TrimSpace(s), "-")
		if s == "" || seen.Contains(s) {
			continue
		}
		if utf8.RuneCountInString(s) != 1 {
			return nil, &DefinitionError{Subject: "option", Name: name, Reason: fmt.Sprintf("shortcut %q must be a single character", s)}
		}
		seen.Add(s)
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, &DefinitionError{Subject: "option", Name: name, Reason: "shortcut cannot be empty"}
	}
	return out, nil
}

func (o *Option) setDefault(def any) error {
	if !o.mode.AcceptsValue() {
		if def != nil {
			return &DefinitionError{Subject: "option", Name: o.name, Reason: "cannot set a default value on an option that takes no value"}
		}
		o.def = false
		return nil
	}
	if o.mode.IsArray() {
		if def == nil {
			o.def = []string{}
			return nil
		}
		list, ok := def.([]string)
		if !ok {
			return &DefinitionError{Subject: "option", Name: o.name, Reason: fmt.Sprintf("default for an array option must be a []string, got %T", def)}
		}
		o.def = slices.Clone(list)
		return nil
	}
	o.def = def
	return nil
}

// Name returns the long name without the leading "--".
func (o *Option) Name() string { return o.name }

// Shortcuts returns the single-character aliases in declaration order.
func (o *Option) Shortcuts() []string { return slices.Clone(o.shortcuts) }

// Shortcut returns the aliases joined with "|", or "".
func (o *Option) Shortcut() string { return strings.Join(o.shortcuts, "|") }

// Mode returns the declared mode.
func (o *Option) Mode() OptionMode { return o.mode }

// Description returns the help text.
func (o *Option) Description() string { return o.description }

// Default returns the value used when the option is absent. Slices are copies.
func (o *Option) Default() any { return cloneValue(o.def) }

// AcceptsValue reports whether the option can carry a value.
func (o *Option) AcceptsValue() bool { return o.mode.AcceptsValue() }

// RequiresValue reports whether the option must carry a value.
func (o *Option) RequiresValue() bool { return o.mode.RequiresValue() }

// IsValueOptional reports whether the option may appear without a value.
func (o *Option) IsValueOptional() bool { return o.mode.IsValueOptional() }

// IsArray reports whether repeated occurrences accumulate.
func (o *Option) IsArray() bool { return o.mode.IsArray() }

// Equal reports whether o and other declare the same option: same name,
// shortcut set, mode and default. Description is not compared.
func (o *Option) Equal(other *Option) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.name != other.name || o.mode != other.mode {
		return false
	}
	if len(o.shortcuts) != len(other.shortcuts) {
		return false
	}
	theirs := make(set.Set[string])
	for _, s := range other.shortcuts {
		theirs.Add(s)
	}
	for _, s := range o.shortcuts {
		if !theirs.Contains(s) {
			return false
		}
	}
	return reflect.DeepEqual(o.def, other.def)
}
