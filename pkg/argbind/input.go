// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"slices"
	"strings"

	"github.com/ef-ds/deque"
)

// Input holds a raw token sequence and the values produced by binding it
// against a Signature.
//
// Bind may be called any number of times; each call starts over from the
// first token and replaces the previous result. An Input is not safe for
// concurrent use.
type Input struct {
	tokens []string

	sig       *Signature
	arguments map[string]any
	options   map[string]any

	// kinds classifies each token as seen by the last Bind. Tokens the last
	// Bind never reached stay kindUnknown.
	kinds []tokenKind
}

type tokenKind uint8

const (
	kindUnknown   tokenKind = iota
	kindArgument            // bound to a positional argument
	kindOption              // an option token, with or without inline value
	kindValue               // consumed by the preceding option as its value
	kindSeparator           // the "--" that ends option parsing
)

// NewInput returns an Input over tokens, typically os.Args[1:]. The slice is
// copied.
func NewInput(tokens []string) *Input {
	return &Input{
		tokens: slices.Clone(tokens),
		kinds:  make([]tokenKind, len(tokens)),
	}
}

// Tokens returns a copy of the raw tokens.
func (in *Input) Tokens() []string {
	return slices.Clone(in.tokens)
}

// Signature returns the signature of the last Bind, or nil.
func (in *Input) Signature() *Signature {
	return in.sig
}

// Bind parses the tokens against sig. A nil sig binds against the empty
// signature.
//
// On success the resolved values replace any earlier result. On failure
// no bound values are kept: the accessors report sig's defaults only.
func (in *Input) Bind(sig *Signature) error {
	if sig == nil {
		sig = &Signature{}
	}
	b := &binder{
		sig:          sig,
		parseOptions: true,
		arguments:    make(map[string]any),
		options:      make(map[string]any),
		kinds:        make([]tokenKind, len(in.tokens)),
	}
	for i, t := range in.tokens {
		b.queue.PushBack(token{index: i, text: t})
	}
	err := b.run()

	in.sig = sig
	in.kinds = b.kinds
	if err != nil {
		in.arguments = make(map[string]any)
		in.options = make(map[string]any)
		return err
	}
	in.arguments = b.arguments
	in.options = b.options
	return nil
}

// Validate reports a NotEnoughArgumentsError when a required argument of
// the bound signature received no token.
func (in *Input) Validate() error {
	if in.sig == nil {
		return nil
	}
	var missing []string
	for _, a := range in.sig.positional {
		if !a.IsRequired() {
			continue
		}
		if _, ok := in.arguments[a.name]; !ok {
			missing = append(missing, a.name)
		}
	}
	if len(missing) > 0 {
		return &NotEnoughArgumentsError{Missing: missing}
	}
	return nil
}

// Arguments returns every declared argument mapped to its bound value, or
// its default when no token was bound.
func (in *Input) Arguments() map[string]any {
	if in.sig == nil {
		return map[string]any{}
	}
	out := in.sig.ArgumentDefaults()
	for k, v := range in.arguments {
		out[k] = cloneValue(v)
	}
	return out
}

// Options returns every declared option mapped to its bound value, or its
// default when the option did not appear.
func (in *Input) Options() map[string]any {
	if in.sig == nil {
		return map[string]any{}
	}
	out := in.sig.OptionDefaults()
	for k, v := range in.options {
		out[k] = cloneValue(v)
	}
	return out
}

// Argument returns the resolved value of one argument. It fails only when
// the bound signature does not declare name.
func (in *Input) Argument(name string) (any, error) {
	a, ok := in.declaredArgument(name)
	if !ok {
		return nil, &UnknownArgumentError{Name: name}
	}
	if v, ok := in.arguments[name]; ok {
		return cloneValue(v), nil
	}
	return a.Default(), nil
}

// Option returns the resolved value of one option. It fails only when the
// bound signature does not declare name.
func (in *Input) Option(name string) (any, error) {
	o, ok := in.declaredOption(name)
	if !ok {
		return nil, &UnknownOptionError{Name: "--" + name}
	}
	if v, ok := in.options[name]; ok {
		return cloneValue(v), nil
	}
	return o.Default(), nil
}

// HasArgument reports whether the bound signature declares name.
func (in *Input) HasArgument(name string) bool {
	_, ok := in.declaredArgument(name)
	return ok
}

// HasOption reports whether the bound signature declares name.
func (in *Input) HasOption(name string) bool {
	_, ok := in.declaredOption(name)
	return ok
}

// SetArgument overrides the resolved value of a declared argument.
func (in *Input) SetArgument(name string, value any) error {
	if !in.HasArgument(name) {
		return &UnknownArgumentError{Name: name}
	}
	if in.arguments == nil {
		in.arguments = make(map[string]any)
	}
	in.arguments[name] = cloneValue(value)
	return nil
}

// SetOption overrides the resolved value of a declared option.
func (in *Input) SetOption(name string, value any) error {
	if !in.HasOption(name) {
		return &UnknownOptionError{Name: "--" + name}
	}
	if in.options == nil {
		in.options = make(map[string]any)
	}
	in.options[name] = cloneValue(value)
	return nil
}

func (in *Input) declaredArgument(name string) (*Argument, bool) {
	if in.sig == nil {
		return nil, false
	}
	return in.sig.Argument(name)
}

func (in *Input) declaredOption(name string) (*Option, bool) {
	if in.sig == nil {
		return nil, false
	}
	return in.sig.Option(name)
}

type token struct {
	index int
	text  string
}

// optValue is a tentative option value; set is false for "no value", which
// differs from the empty string.
type optValue struct {
	text string
	set  bool
}

// binder is the state of a single Bind call.
type binder struct {
	sig          *Signature
	queue        deque.Deque
	parseOptions bool

	arguments map[string]any
	options   map[string]any
	kinds     []tokenKind
}

func (b *binder) run() error {
	for b.queue.Len() > 0 {
		v, _ := b.queue.PopFront()
		t := v.(token)
		kind, err := b.parseToken(t.text)
		if err != nil {
			return err
		}
		b.kinds[t.index] = kind
	}
	return nil
}

func (b *binder) parseToken(text string) (tokenKind, error) {
	switch {
	case !b.parseOptions, text == "":
		return kindArgument, b.parseArgument(text)
	case text == "--":
		b.parseOptions = false
		return kindSeparator, nil
	case strings.HasPrefix(text, "--"):
		return kindOption, b.parseLongOption(text[2:])
	case strings.HasPrefix(text, "-") && text != "-":
		return kindOption, b.parseShortOption(text[1:])
	}
	return kindArgument, b.parseArgument(text)
}

func (b *binder) parseLongOption(name string) error {
	value := optValue{}
	if n, v, ok := strings.Cut(name, "="); ok {
		name, value = n, optValue{text: v, set: true}
	}
	o, ok := b.sig.Option(name)
	if !ok {
		return &UnknownOptionError{Name: "--" + name}
	}
	return b.addOption(o, value)
}

func (b *binder) parseShortOption(name string) error {
	runes := []rune(name)
	if len(runes) > 1 {
		if o, ok := b.sig.OptionForShortcut(string(runes[0])); ok && o.AcceptsValue() {
			return b.addOption(o, optValue{text: string(runes[1:]), set: true})
		}
		return b.parseShortOptionSet(runes)
	}
	o, ok := b.sig.OptionForShortcut(name)
	if !ok {
		return &UnknownOptionError{Name: "-" + name}
	}
	return b.addOption(o, optValue{})
}

// parseShortOptionSet walks a cluster such as "-abc". The first member that
// accepts a value takes the rest of the cluster as that value.
func (b *binder) parseShortOptionSet(runes []rune) error {
	for i, r := range runes {
		sc := string(r)
		o, ok := b.sig.OptionForShortcut(sc)
		if !ok {
			return &UnknownOptionError{Name: "-" + sc}
		}
		if o.AcceptsValue() {
			value := optValue{}
			if i < len(runes)-1 {
				value = optValue{text: string(runes[i+1:]), set: true}
			}
			return b.addOption(o, value)
		}
		if err := b.addOption(o, optValue{}); err != nil {
			return err
		}
	}
	return nil
}

// addOption records one occurrence of o. A value-accepting option given no
// inline value claims the next token when that token does not look like a
// flag. This also claims a positional token that happens to follow an
// optional-value option; that ambiguity is inherent to the syntax.
func (b *binder) addOption(o *Option, value optValue) error {
	if value.set && !o.AcceptsValue() {
		return &OptionTakesNoValueError{Name: o.name, Value: value.text}
	}
	if !value.set && o.AcceptsValue() && b.queue.Len() > 0 {
		v, _ := b.queue.Front()
		next := v.(token)
		if next.text == "" || !strings.HasPrefix(next.text, "-") {
			b.queue.PopFront()
			b.kinds[next.index] = kindValue
			value = optValue{text: next.text, set: true}
		}
	}

	var resolved any
	switch {
	case value.set:
		resolved = value.text
	case o.RequiresValue():
		return &OptionRequiresValueError{Name: o.name}
	case !o.IsArray() && !o.IsValueOptional():
		resolved = true
	}

	if o.IsArray() {
		list, _ := b.options[o.name].([]string)
		if list == nil {
			list = []string{}
		}
		if value.set {
			list = append(list, value.text)
		}
		b.options[o.name] = list
		return nil
	}
	b.options[o.name] = resolved
	return nil
}

func (b *binder) parseArgument(text string) error {
	c := len(b.arguments)
	if a, ok := b.sig.ArgumentAt(c); ok {
		if a.IsArray() {
			b.arguments[a.name] = []string{text}
		} else {
			b.arguments[a.name] = text
		}
		return nil
	}
	if a, ok := b.sig.ArgumentAt(c - 1); ok && a.IsArray() {
		b.arguments[a.name] = append(b.arguments[a.name].([]string), text)
		return nil
	}
	if len(b.sig.positional) > 0 {
		names := make([]string, len(b.sig.positional))
		for i, a := range b.sig.positional {
			names[i] = a.name
		}
		return &TooManyArgumentsError{Token: text, Expected: names}
	}
	return &NoArgumentsExpectedError{Token: text}
}
