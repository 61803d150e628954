// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrContract classifies malformed declarations: the command's own
	// signature is wrong, not the user's input.
	ErrContract = errors.New("invalid definition")

	// ErrBinding classifies errors caused by the supplied tokens.
	ErrBinding = errors.New("invalid input")
)

// DefinitionError is returned when an argument, option, or signature
// declaration violates its contract.
type DefinitionError struct {
	Subject string // "argument", "option", "shortcut", "option mode", ...
	Name    string // offending name or shortcut, if any
	Reason  string
}

func (e *DefinitionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Subject, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Subject, e.Name, e.Reason)
}

func (e *DefinitionError) Is(target error) bool { return target == ErrContract }

// UnknownOptionError is returned when a token names an option the bound
// signature does not declare, or when an undeclared option is looked up.
type UnknownOptionError struct {
	Name string // as written, e.g. "--foo" or "-x"
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("the %q option does not exist", e.Name)
}

func (e *UnknownOptionError) Is(target error) bool { return target == ErrBinding }

// UnknownArgumentError is returned when an undeclared argument is looked up.
type UnknownArgumentError struct {
	Name string
}

func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("the %q argument does not exist", e.Name)
}

func (e *UnknownArgumentError) Is(target error) bool { return target == ErrBinding }

// OptionTakesNoValueError is returned when a value is attached to a flag.
type OptionTakesNoValueError struct {
	Name  string
	Value string
}

func (e *OptionTakesNoValueError) Error() string {
	return fmt.Sprintf("the %q option does not accept a value, got %q", "--"+e.Name, e.Value)
}

func (e *OptionTakesNoValueError) Is(target error) bool { return target == ErrBinding }

// OptionRequiresValueError is returned when an option that needs a value
// appears without one.
type OptionRequiresValueError struct {
	Name string
}

func (e *OptionRequiresValueError) Error() string {
	return fmt.Sprintf("the %q option requires a value", "--"+e.Name)
}

func (e *OptionRequiresValueError) Is(target error) bool { return target == ErrBinding }

// NoArgumentsExpectedError is returned when a positional token is given to
// a signature that declares no arguments.
type NoArgumentsExpectedError struct {
	Token string
}

func (e *NoArgumentsExpectedError) Error() string {
	return fmt.Sprintf("no arguments expected, got %q", e.Token)
}

func (e *NoArgumentsExpectedError) Is(target error) bool { return target == ErrBinding }

// TooManyArgumentsError is returned when a positional token does not fit
// any declared argument.
type TooManyArgumentsError struct {
	Token    string
	Expected []string // declared argument names, in order
}

func (e *TooManyArgumentsError) Error() string {
	return fmt.Sprintf("too many arguments, expected arguments %s, got %q", quoteJoin(e.Expected, " "), e.Token)
}

func (e *TooManyArgumentsError) Is(target error) bool { return target == ErrBinding }

// NotEnoughArgumentsError is returned by Input.Validate when required
// arguments received no token.
type NotEnoughArgumentsError struct {
	Missing []string
}

func (e *NotEnoughArgumentsError) Error() string {
	return fmt.Sprintf("not enough arguments (missing: %s)", quoteJoin(e.Missing, ", "))
}

func (e *NotEnoughArgumentsError) Is(target error) bool { return target == ErrBinding }

func quoteJoin(names []string, sep string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, sep)
}
