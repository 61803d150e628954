// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yeetrun/argbind/pkg/argbind"
)

// Signature builds the signature of the named command. Declaration errors
// match argbind.ErrContract and name the manifest and command.
func (m *Manifest) Signature(command string) (*argbind.Signature, error) {
	c, ok := m.Command(command)
	if !ok {
		return nil, fmt.Errorf("%s: unknown command %q", m.source(), command)
	}
	defs, err := c.Definition()
	if err != nil {
		return nil, fmt.Errorf("%s: command %q: %w", m.source(), c.Name, err)
	}
	sig, err := argbind.NewSignature(defs...)
	if err != nil {
		return nil, fmt.Errorf("%s: command %q: %w", m.source(), c.Name, err)
	}
	return sig, nil
}

// Definition converts the command's arguments and options into a
// definition list, arguments first.
func (c *Command) Definition() ([]argbind.Definition, error) {
	defs := make([]argbind.Definition, 0, len(c.Arguments)+len(c.Options))
	for _, a := range c.Arguments {
		arg, err := a.build()
		if err != nil {
			return nil, err
		}
		defs = append(defs, argbind.Arg(arg))
	}
	for _, o := range c.Options {
		opt, err := o.build()
		if err != nil {
			return nil, err
		}
		defs = append(defs, argbind.Opt(opt))
	}
	return defs, nil
}

func (a Argument) build() (*argbind.Argument, error) {
	mode, err := argbind.ParseArgumentMode(a.Mode...)
	if err != nil {
		return nil, err
	}
	def, err := normalizeValue(a.Default)
	if err != nil {
		return nil, fmt.Errorf("argument %q: %w", a.Name, err)
	}
	if mode.IsArray() {
		def = asList(def)
	}
	return argbind.NewArgument(a.Name, mode, a.Description, def)
}

func (o Option) build() (*argbind.Option, error) {
	mode, err := argbind.ParseOptionMode(o.Mode...)
	if err != nil {
		return nil, err
	}
	def, err := normalizeValue(o.Default)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", o.Name, err)
	}
	switch {
	case !mode.AcceptsValue() && def == false:
		// "default = false" on a flag restates the implicit default.
		def = nil
	case mode.IsArray():
		def = asList(def)
	}
	return argbind.NewOption(o.Name, strings.Join(o.Shortcut, "|"), mode, o.Description, def)
}

// normalizeValue maps a decoded default onto the binder's value domain.
// Numbers become their decimal text; lists must hold scalars.
func normalizeValue(v any) (any, error) {
	switch v := v.(type) {
	case nil, string, bool:
		return v, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok, err := scalarText(e)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("list default holds a %T", e)
			}
			out = append(out, s)
		}
		return out, nil
	}
	s, ok, err := scalarText(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("unsupported default of type %T", v)
	}
	return s, nil
}

func scalarText(v any) (string, bool, error) {
	switch v := v.(type) {
	case string:
		return v, true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	case int:
		return strconv.Itoa(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case uint64:
		return strconv.FormatUint(v, 10), true, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true, nil
	}
	return "", false, nil
}

// asList lets a scalar default stand for a one-element array default.
func asList(v any) any {
	if s, ok := v.(string); ok {
		return []string{s}
	}
	return v
}
