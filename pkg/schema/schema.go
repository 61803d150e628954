// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema derives argbind signatures from tagged Go structs and
// copies bound values back into them.
//
// Options come from exported fields of the flags struct:
//
//	type deployFlags struct {
//	    Force   bool          `flag:"force" short:"f" help:"Overwrite"`
//	    Tags    []string      `flag:"tag" short:"t" help:"Image tags"`
//	    Timeout time.Duration `flag:"timeout" default:"30s"`
//	    Level   *string       `flag:"level"`
//	}
//
// A bool is a flag, a []string repeats, a pointer takes an optional value,
// and everything else requires a value. Positional arguments come from
// `pos` tags on the args struct, in the yargs format ("0", "1?", "2*",
// "2+").
package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shayne/yargs"
	"github.com/yeetrun/argbind/pkg/argbind"
)

// FromStruct builds a signature from a flags struct and an args struct.
// Either may be nil.
func FromStruct(flags, args any) (*argbind.Signature, error) {
	var defs []argbind.Definition
	for _, spec := range yargs.ExtractArgSpecs(args) {
		a, err := argumentFor(spec)
		if err != nil {
			return nil, err
		}
		defs = append(defs, argbind.Arg(a))
	}
	fields, err := flagFields(flags)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		o, err := optionFor(f)
		if err != nil {
			return nil, err
		}
		defs = append(defs, argbind.Opt(o))
	}
	return argbind.NewSignature(defs...)
}

// ArgumentName is the argument name derived from a struct field name.
func ArgumentName(field string) string {
	return strings.ToLower(field)
}

func argumentFor(spec yargs.ArgSpec) (*argbind.Argument, error) {
	name := ArgumentName(spec.Name)
	var mode argbind.ArgumentMode
	switch {
	case spec.Variadic && !spec.IsSlice:
		return nil, &argbind.DefinitionError{Subject: "argument", Name: name, Reason: "a variadic position needs a slice field"}
	case spec.Variadic && spec.MinCount > 0:
		mode = argbind.RequiredArray
	case spec.Variadic:
		mode = argbind.OptionalArray
	case spec.IsSlice:
		return nil, &argbind.DefinitionError{Subject: "argument", Name: name, Reason: "a slice field needs a variadic position (\"N*\" or \"N+\")"}
	case spec.Required:
		mode = argbind.Required
	default:
		mode = argbind.Optional
	}
	return argbind.NewArgument(name, mode, spec.Description, nil)
}

type flagField struct {
	index    int
	name     string
	short    string
	help     string
	def      string
	hasDef   bool
	typ      reflect.Type
	optional bool
}

func structType(v any) (reflect.Type, bool) {
	if v == nil {
		return nil, false
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t, t.Kind() == reflect.Struct
}

func flagFields(flags any) ([]flagField, error) {
	t, ok := structType(flags)
	if !ok {
		if flags != nil {
			return nil, fmt.Errorf("flags must be a struct, got %T", flags)
		}
		return nil, nil
	}
	var out []flagField
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("pos") != "" {
			continue
		}
		name := field.Tag.Get("flag")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		f := flagField{
			index: i,
			name:  name,
			short: field.Tag.Get("short"),
			help:  field.Tag.Get("help"),
			typ:   field.Type,
		}
		f.def, f.hasDef = field.Tag.Lookup("default")
		if f.typ.Kind() == reflect.Ptr {
			f.typ = f.typ.Elem()
			f.optional = true
		}
		out = append(out, f)
	}
	return out, nil
}

func optionFor(f flagField) (*argbind.Option, error) {
	var def any
	if f.hasDef {
		def = f.def
	}
	var mode argbind.OptionMode
	switch {
	case f.typ.Kind() == reflect.Bool && !f.optional:
		mode = argbind.NoValue
	case f.typ.Kind() == reflect.Slice:
		if f.typ.Elem().Kind() != reflect.String {
			return nil, &argbind.DefinitionError{Subject: "option", Name: f.name, Reason: fmt.Sprintf("unsupported slice type %s", f.typ)}
		}
		mode = argbind.RequiredValueArray
		if f.optional {
			mode = argbind.OptionalValueArray
		}
		if f.hasDef {
			def = splitList(f.def)
		}
	case f.optional:
		mode = argbind.OptionalValue
	default:
		mode = argbind.RequiredValue
	}
	return argbind.NewOption(f.name, f.short, mode, f.help, def)
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
