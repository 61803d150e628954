// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"strings"

	"tailscale.com/util/set"
)

// ArgumentMode is the closed set of ways a positional argument can be declared.
type ArgumentMode uint8

const (
	// Required arguments must be supplied.
	Required ArgumentMode = iota + 1
	// Optional arguments may be omitted and fall back to their default.
	Optional
	// RequiredArray collects one or more trailing tokens.
	RequiredArray
	// OptionalArray collects zero or more trailing tokens.
	OptionalArray
)

// Valid reports whether m is one of the declared argument modes.
func (m ArgumentMode) Valid() bool {
	return m >= Required && m <= OptionalArray
}

// IsRequired reports whether the argument must be supplied.
func (m ArgumentMode) IsRequired() bool {
	return m == Required || m == RequiredArray
}

// IsArray reports whether the argument accumulates every remaining token.
func (m ArgumentMode) IsArray() bool {
	return m == RequiredArray || m == OptionalArray
}

func (m ArgumentMode) String() string {
	switch m {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case RequiredArray:
		return "required,array"
	case OptionalArray:
		return "optional,array"
	}
	return fmt.Sprintf("ArgumentMode(%d)", uint8(m))
}

// OptionMode is the closed set of value-acceptance modes for an option.
// An array option always accepts a value, so there is no constant for an
// array flag without one.
type OptionMode uint8

const (
	// NoValue options are boolean flags.
	NoValue OptionMode = iota + 1
	// RequiredValue options must be given a value whenever they appear.
	RequiredValue
	// OptionalValue options may appear bare, in which case their value is nil.
	OptionalValue
	// RequiredValueArray options accumulate one value per occurrence.
	RequiredValueArray
	// OptionalValueArray options accumulate zero or one value per occurrence.
	// A bare occurrence adds nothing to the list, since a nil element has no
	// []string spelling.
	OptionalValueArray
)

// Valid reports whether m is one of the declared option modes.
func (m OptionMode) Valid() bool {
	return m >= NoValue && m <= OptionalValueArray
}

// AcceptsValue reports whether the option can carry a value.
func (m OptionMode) AcceptsValue() bool {
	return m.Valid() && m != NoValue
}

// RequiresValue reports whether the option must carry a value.
func (m OptionMode) RequiresValue() bool {
	return m == RequiredValue || m == RequiredValueArray
}

// IsValueOptional reports whether the option may appear without a value.
func (m OptionMode) IsValueOptional() bool {
	return m == OptionalValue || m == OptionalValueArray
}

// IsArray reports whether repeated occurrences accumulate.
func (m OptionMode) IsArray() bool {
	return m == RequiredValueArray || m == OptionalValueArray
}

func (m OptionMode) String() string {
	switch m {
	case NoValue:
		return "none"
	case RequiredValue:
		return "required"
	case OptionalValue:
		return "optional"
	case RequiredValueArray:
		return "required,array"
	case OptionalValueArray:
		return "optional,array"
	}
	return fmt.Sprintf("OptionMode(%d)", uint8(m))
}

const (
	flagNone     = "none"
	flagRequired = "required"
	flagOptional = "optional"
	flagArray    = "array"
)

func modeFlags(kind string, flags []string, allowed ...string) (set.Set[string], error) {
	s := make(set.Set[string])
	for _, raw := range flags {
		for _, f := range strings.Split(raw, ",") {
			f = strings.ToLower(strings.TrimSpace(f))
			if f == "" {
				continue
			}
			known := false
			for _, a := range allowed {
				if f == a {
					known = true
					break
				}
			}
			if !known {
				return nil, &DefinitionError{Subject: kind + " mode", Name: f, Reason: "unknown mode flag"}
			}
			s.Add(f)
		}
	}
	return s, nil
}

// ParseArgumentMode combines named flags ("required", "optional", "array")
// into an ArgumentMode. Flags may be passed separately or comma-joined.
// No flags at all means Optional.
func ParseArgumentMode(flags ...string) (ArgumentMode, error) {
	s, err := modeFlags("argument", flags, flagRequired, flagOptional, flagArray)
	if err != nil {
		return 0, err
	}
	if s.Contains(flagRequired) && s.Contains(flagOptional) {
		return 0, &DefinitionError{Subject: "argument mode", Name: strings.Join(flags, ","), Reason: "cannot be both required and optional"}
	}
	switch {
	case s.Contains(flagRequired) && s.Contains(flagArray):
		return RequiredArray, nil
	case s.Contains(flagRequired):
		return Required, nil
	case s.Contains(flagArray):
		return OptionalArray, nil
	}
	return Optional, nil
}

// ParseOptionMode combines named flags ("none", "required", "optional",
// "array") into an OptionMode. No flags at all means NoValue.
func ParseOptionMode(flags ...string) (OptionMode, error) {
	s, err := modeFlags("option", flags, flagNone, flagRequired, flagOptional, flagArray)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, f := range []string{flagNone, flagRequired, flagOptional} {
		if s.Contains(f) {
			n++
		}
	}
	if n > 1 {
		return 0, &DefinitionError{Subject: "option mode", Name: strings.Join(flags, ","), Reason: "more than one value mode given"}
	}
	array := s.Contains(flagArray)
	switch {
	case s.Contains(flagRequired) && array:
		return RequiredValueArray, nil
	case s.Contains(flagRequired):
		return RequiredValue, nil
	case s.Contains(flagOptional) && array:
		return OptionalValueArray, nil
	case s.Contains(flagOptional):
		return OptionalValue, nil
	case array:
		return 0, &DefinitionError{Subject: "option mode", Name: strings.Join(flags, ","), Reason: "an array option must accept a value"}
	}
	return NoValue, nil
}
