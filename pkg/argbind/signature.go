// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"tailscale.com/util/mak"
)

// DefinitionKind tags an element of a definition list.
type DefinitionKind uint8

const (
	KindArgument DefinitionKind = iota + 1
	KindOption
)

// Definition is one element of a signature's definition list: either an
// argument or an option, tagged by Kind.
type Definition struct {
	Kind     DefinitionKind
	Argument *Argument
	Option   *Option
}

// Arg tags an argument for a definition list.
func Arg(a *Argument) Definition { return Definition{Kind: KindArgument, Argument: a} }

// Opt tags an option for a definition list.
func Opt(o *Option) Definition { return Definition{Kind: KindOption, Option: o} }

// Signature is the ordered set of arguments and options one command accepts.
// Arguments bind in insertion order. The zero value is an empty signature.
//
// Structural rules are checked as elements are added: argument names are
// unique, nothing follows an array argument, required arguments precede
// optional ones, and option names and shortcuts are unique unless the
// re-added option is Equal to the existing one.
type Signature struct {
	arguments     *orderedmap.OrderedMap[string, *Argument]
	positional    []*Argument
	requiredCount int
	hasOptional   bool
	lastArray     *Argument

	options   *orderedmap.OrderedMap[string, *Option]
	shortcuts map[string]string // shortcut -> option name
}

// NewSignature returns a signature holding defs in order.
func NewSignature(defs ...Definition) (*Signature, error) {
	s := &Signature{}
	if err := s.SetDefinition(defs...); err != nil {
		return nil, err
	}
	return s, nil
}

// MustSignature is like NewSignature but panics on a malformed declaration.
func MustSignature(defs ...Definition) *Signature {
	s, err := NewSignature(defs...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Signature) ensureInit() {
	if s.arguments == nil {
		s.arguments = orderedmap.New[string, *Argument]()
	}
	if s.options == nil {
		s.options = orderedmap.New[string, *Option]()
	}
}

// SetDefinition replaces every argument and option with defs. On error s is
// left unchanged.
func (s *Signature) SetDefinition(defs ...Definition) error {
	var args []*Argument
	var opts []*Option
	for i, d := range defs {
		switch d.Kind {
		case KindArgument:
			if d.Argument == nil {
				return &DefinitionError{Subject: "definition", Reason: fmt.Sprintf("element %d is a nil argument", i)}
			}
			args = append(args, d.Argument)
		case KindOption:
			if d.Option == nil {
				return &DefinitionError{Subject: "definition", Reason: fmt.Sprintf("element %d is a nil option", i)}
			}
			opts = append(opts, d.Option)
		default:
			return &DefinitionError{Subject: "definition", Reason: fmt.Sprintf("element %d has unknown kind %d", i, d.Kind)}
		}
	}
	next := &Signature{}
	if err := next.AddArguments(args...); err != nil {
		return err
	}
	if err := next.AddOptions(opts...); err != nil {
		return err
	}
	*s = *next
	return nil
}

// SetArguments replaces all arguments. On error s is left unchanged.
func (s *Signature) SetArguments(args ...*Argument) error {
	next := &Signature{}
	if err := next.AddArguments(args...); err != nil {
		return err
	}
	s.arguments = next.arguments
	s.positional = next.positional
	s.requiredCount = next.requiredCount
	s.hasOptional = next.hasOptional
	s.lastArray = next.lastArray
	return nil
}

// AddArguments adds args in order, stopping at the first violation.
func (s *Signature) AddArguments(args ...*Argument) error {
	for _, a := range args {
		if err := s.AddArgument(a); err != nil {
			return err
		}
	}
	return nil
}

// AddArgument appends a to the positional order.
func (s *Signature) AddArgument(a *Argument) error {
	s.ensureInit()
	if _, ok := s.arguments.Get(a.name); ok {
		return &DefinitionError{Subject: "argument", Name: a.name, Reason: "an argument with this name already exists"}
	}
	if s.lastArray != nil {
		return &DefinitionError{Subject: "argument", Name: a.name, Reason: fmt.Sprintf("cannot add an argument after the array argument %q", s.lastArray.name)}
	}
	if a.IsRequired() && s.hasOptional {
		return &DefinitionError{Subject: "argument", Name: a.name, Reason: "cannot add a required argument after an optional one"}
	}
	if a.IsArray() {
		s.lastArray = a
	}
	if a.IsRequired() {
		s.requiredCount++
	} else {
		s.hasOptional = true
	}
	s.arguments.Set(a.name, a)
	s.positional = append(s.positional, a)
	return nil
}

// SetOptions replaces all options. On error s is left unchanged.
func (s *Signature) SetOptions(opts ...*Option) error {
	next := &Signature{}
	if err := next.AddOptions(opts...); err != nil {
		return err
	}
	s.options = next.options
	s.shortcuts = next.shortcuts
	return nil
}

// AddOptions adds opts in order, stopping at the first violation.
func (s *Signature) AddOptions(opts ...*Option) error {
	for _, o := range opts {
		if err := s.AddOption(o); err != nil {
			return err
		}
	}
	return nil
}

// AddOption registers o. Re-adding an option Equal to the registered one
// replaces it.
func (s *Signature) AddOption(o *Option) error {
	s.ensureInit()
	if existing, ok := s.options.Get(o.name); ok && !o.Equal(existing) {
		return &DefinitionError{Subject: "option", Name: o.name, Reason: "an option with this name already exists"}
	}
	for _, sc := range o.shortcuts {
		owner, ok := s.shortcuts[sc]
		if !ok {
			continue
		}
		if existing, _ := s.options.Get(owner); !o.Equal(existing) {
			return &DefinitionError{Subject: "shortcut", Name: sc, Reason: fmt.Sprintf("already used by option %q", owner)}
		}
	}
	s.options.Set(o.name, o)
	for _, sc := range o.shortcuts {
		mak.Set(&s.shortcuts, sc, o.name)
	}
	return nil
}

// Argument returns the argument named name.
func (s *Signature) Argument(name string) (*Argument, bool) {
	if s.arguments == nil {
		return nil, false
	}
	return s.arguments.Get(name)
}

// ArgumentAt returns the argument at position pos.
func (s *Signature) ArgumentAt(pos int) (*Argument, bool) {
	if pos < 0 || pos >= len(s.positional) {
		return nil, false
	}
	return s.positional[pos], true
}

// HasArgument reports whether an argument named name is declared.
func (s *Signature) HasArgument(name string) bool {
	_, ok := s.Argument(name)
	return ok
}

// HasArgumentAt reports whether an argument is declared at position pos.
func (s *Signature) HasArgumentAt(pos int) bool {
	_, ok := s.ArgumentAt(pos)
	return ok
}

// Arguments returns the arguments in positional order.
func (s *Signature) Arguments() []*Argument {
	out := make([]*Argument, len(s.positional))
	copy(out, s.positional)
	return out
}

// ArgumentCount returns how many tokens can bind to arguments, or -1 when
// the last argument is an array and the count is unbounded.
func (s *Signature) ArgumentCount() int {
	if s.lastArray != nil {
		return -1
	}
	return len(s.positional)
}

// ArgumentRequiredCount returns the number of required arguments.
func (s *Signature) ArgumentRequiredCount() int {
	return s.requiredCount
}

// ArgumentDefaults maps every argument name to its default.
func (s *Signature) ArgumentDefaults() map[string]any {
	out := make(map[string]any, len(s.positional))
	for _, a := range s.positional {
		out[a.name] = a.Default()
	}
	return out
}

// Option returns the option named name (without the leading "--").
func (s *Signature) Option(name string) (*Option, bool) {
	if s.options == nil {
		return nil, false
	}
	return s.options.Get(name)
}

// HasOption reports whether an option named name is declared.
func (s *Signature) HasOption(name string) bool {
	_, ok := s.Option(name)
	return ok
}

// HasShortcut reports whether sc is a declared shortcut.
func (s *Signature) HasShortcut(sc string) bool {
	_, ok := s.shortcuts[sc]
	return ok
}

// ShortcutToName returns the name of the option owning sc.
func (s *Signature) ShortcutToName(sc string) (string, bool) {
	name, ok := s.shortcuts[sc]
	return name, ok
}

// OptionForShortcut returns the option owning sc.
func (s *Signature) OptionForShortcut(sc string) (*Option, bool) {
	name, ok := s.shortcuts[sc]
	if !ok {
		return nil, false
	}
	return s.Option(name)
}

// Options returns the options in declaration order.
func (s *Signature) Options() []*Option {
	if s.options == nil {
		return nil
	}
	out := make([]*Option, 0, s.options.Len())
	for pair := s.options.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// OptionDefaults maps every option name to its default.
func (s *Signature) OptionDefaults() map[string]any {
	opts := s.Options()
	out := make(map[string]any, len(opts))
	for _, o := range opts {
		out[o.name] = o.Default()
	}
	return out
}

// Merge returns a new signature whose arguments are base's followed by s's
// and whose options are s's followed by base's. Neither input is modified.
func (s *Signature) Merge(base *Signature) (*Signature, error) {
	out := &Signature{}
	if base != nil {
		if err := out.AddArguments(base.Arguments()...); err != nil {
			return nil, err
		}
	}
	if err := out.AddArguments(s.Arguments()...); err != nil {
		return nil, err
	}
	if err := out.AddOptions(s.Options()...); err != nil {
		return nil, err
	}
	if base != nil {
		if err := out.AddOptions(base.Options()...); err != nil {
			return nil, err
		}
	}
	return out, nil
}
