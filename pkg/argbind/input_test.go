// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustSig(t *testing.T, defs ...Definition) *Signature {
	t.Helper()
	sig, err := NewSignature(defs...)
	if err != nil {
		t.Fatalf("NewSignature() error = %v", err)
	}
	return sig
}

func TestBind(t *testing.T) {
	foo := Opt(MustOption("foo", "f", RequiredValue, "", nil))
	tests := []struct {
		name     string
		defs     []Definition
		tokens   []string
		wantArgs map[string]any
		wantOpts map[string]any
	}{
		{
			name:     "single argument",
			defs:     []Definition{Arg(MustArgument("name", Optional, "", nil))},
			tokens:   []string{"foo"},
			wantArgs: map[string]any{"name": "foo"},
		},
		{
			name:     "long option with equals",
			defs:     []Definition{foo},
			tokens:   []string{"--foo=bar"},
			wantOpts: map[string]any{"foo": "bar"},
		},
		{
			name:     "long option takes next token",
			defs:     []Definition{foo},
			tokens:   []string{"--foo", "bar"},
			wantOpts: map[string]any{"foo": "bar"},
		},
		{
			name:     "short option inline value",
			defs:     []Definition{foo},
			tokens:   []string{"-fbar"},
			wantOpts: map[string]any{"foo": "bar"},
		},
		{
			name:     "short option takes next token",
			defs:     []Definition{foo},
			tokens:   []string{"-f", "bar"},
			wantOpts: map[string]any{"foo": "bar"},
		},
		{
			name:     "lookahead takes empty token",
			defs:     []Definition{foo},
			tokens:   []string{"--foo", ""},
			wantOpts: map[string]any{"foo": ""},
		},
		{
			name:     "double dash disables option parsing",
			defs:     []Definition{Arg(MustArgument("number", Optional, "", nil))},
			tokens:   []string{"--", "-1"},
			wantArgs: map[string]any{"number": "-1"},
		},
		{
			name:     "flag-looking token after double dash",
			defs:     []Definition{Arg(MustArgument("rest", OptionalArray, "", nil)), foo},
			tokens:   []string{"--", "--foo", "-f", "--"},
			wantArgs: map[string]any{"rest": []string{"--foo", "-f", "--"}},
			wantOpts: map[string]any{"foo": nil},
		},
		{
			name: "repeated array option",
			defs: []Definition{
				Opt(MustOption("name", "", OptionalValueArray, "", nil)),
			},
			tokens:   []string{"--name=a", "--name=b"},
			wantOpts: map[string]any{"name": []string{"a", "b"}},
		},
		{
			name: "array option mixes spellings",
			defs: []Definition{
				Opt(MustOption("tag", "t", RequiredValueArray, "", nil)),
			},
			tokens:   []string{"-t", "a", "--tag=b", "-tc", "--tag", "d"},
			wantOpts: map[string]any{"tag": []string{"a", "b", "c", "d"}},
		},
		{
			name: "bare optional array option adds nothing",
			defs: []Definition{
				Opt(MustOption("name", "", OptionalValueArray, "", nil)),
			},
			tokens:   []string{"--name"},
			wantOpts: map[string]any{"name": []string{}},
		},
		{
			name: "bare optional array occurrence between values",
			defs: []Definition{
				Opt(MustOption("name", "", OptionalValueArray, "", nil)),
			},
			tokens:   []string{"--name=a", "--name", "--name=b"},
			wantOpts: map[string]any{"name": []string{"a", "b"}},
		},
		{
			name: "explicit empty value",
			defs: []Definition{
				Opt(MustOption("opt", "", OptionalValue, "", nil)),
				Arg(MustArgument("arg", Optional, "", nil)),
			},
			tokens:   []string{"--opt=", "bar"},
			wantArgs: map[string]any{"arg": "bar"},
			wantOpts: map[string]any{"opt": ""},
		},
		{
			name: "bare optional value is nil",
			defs: []Definition{
				Opt(MustOption("opt", "o", OptionalValue, "", "fallback")),
			},
			tokens:   []string{"--opt"},
			wantOpts: map[string]any{"opt": nil},
		},
		{
			name: "optional value claims following positional",
			defs: []Definition{
				Opt(MustOption("opt", "o", OptionalValue, "", nil)),
				Arg(MustArgument("arg", Optional, "", nil)),
			},
			tokens:   []string{"-o", "bar"},
			wantArgs: map[string]any{"arg": nil},
			wantOpts: map[string]any{"opt": "bar"},
		},
		{
			name: "lookahead leaves flag-looking token",
			defs: []Definition{
				Opt(MustOption("opt", "o", OptionalValue, "", nil)),
				Opt(MustOption("verbose", "v", NoValue, "", nil)),
			},
			tokens:   []string{"--opt", "-v"},
			wantOpts: map[string]any{"opt": nil, "verbose": true},
		},
		{
			name: "boolean cluster",
			defs: []Definition{
				Opt(MustOption("all", "a", NoValue, "", nil)),
				Opt(MustOption("brief", "b", NoValue, "", nil)),
				Opt(MustOption("color", "c", NoValue, "", nil)),
			},
			tokens:   []string{"-abc"},
			wantOpts: map[string]any{"all": true, "brief": true, "color": true},
		},
		{
			name: "cluster member takes rest as value",
			defs: []Definition{
				Opt(MustOption("all", "a", NoValue, "", nil)),
				foo,
			},
			tokens:   []string{"-afvalue"},
			wantOpts: map[string]any{"all": true, "foo": "value"},
		},
		{
			name: "cluster ending in value option looks ahead",
			defs: []Definition{
				Opt(MustOption("all", "a", NoValue, "", nil)),
				foo,
			},
			tokens:   []string{"-af", "value"},
			wantOpts: map[string]any{"all": true, "foo": "value"},
		},
		{
			name: "array argument collects the tail",
			defs: []Definition{
				Arg(MustArgument("first", Required, "", nil)),
				Arg(MustArgument("rest", RequiredArray, "", nil)),
			},
			tokens:   []string{"a", "b", "c"},
			wantArgs: map[string]any{"first": "a", "rest": []string{"b", "c"}},
		},
		{
			name: "options between arguments",
			defs: []Definition{
				Arg(MustArgument("src", Required, "", nil)),
				Arg(MustArgument("dst", Optional, "", "here")),
				foo,
				Opt(MustOption("verbose", "v", NoValue, "", nil)),
			},
			tokens:   []string{"x", "--foo", "y", "-v", "z"},
			wantArgs: map[string]any{"src": "x", "dst": "z"},
			wantOpts: map[string]any{"foo": "y", "verbose": true},
		},
		{
			name: "defaults fill unsupplied values",
			defs: []Definition{
				Arg(MustArgument("dst", Optional, "", "here")),
				Arg(MustArgument("more", OptionalArray, "", []string{"x"})),
				Opt(MustOption("level", "l", RequiredValue, "", "info")),
				Opt(MustOption("quiet", "q", NoValue, "", nil)),
			},
			tokens:   nil,
			wantArgs: map[string]any{"dst": "here", "more": []string{"x"}},
			wantOpts: map[string]any{"level": "info", "quiet": false},
		},
		{
			name:     "empty token is positional",
			defs:     []Definition{Arg(MustArgument("name", Optional, "", nil))},
			tokens:   []string{""},
			wantArgs: map[string]any{"name": ""},
		},
		{
			name:     "single dash is positional",
			defs:     []Definition{Arg(MustArgument("file", Optional, "", nil))},
			tokens:   []string{"-"},
			wantArgs: map[string]any{"file": "-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInput(tt.tokens)
			if err := in.Bind(mustSig(t, tt.defs...)); err != nil {
				t.Fatalf("Bind() error = %v", err)
			}
			if tt.wantArgs != nil {
				if diff := cmp.Diff(tt.wantArgs, in.Arguments()); diff != "" {
					t.Errorf("Arguments() mismatch (-want +got):\n%s", diff)
				}
			}
			if tt.wantOpts != nil {
				if diff := cmp.Diff(tt.wantOpts, in.Options()); diff != "" {
					t.Errorf("Options() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestBindErrors(t *testing.T) {
	tests := []struct {
		name   string
		defs   []Definition
		tokens []string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "no arguments expected",
			tokens: []string{"foo", "bar"},
			check: func(t *testing.T, err error) {
				var e *NoArgumentsExpectedError
				if !errors.As(err, &e) {
					t.Fatalf("error = %v, want NoArgumentsExpectedError", err)
				}
				if e.Token != "foo" {
					t.Errorf("Token = %q, want %q", e.Token, "foo")
				}
			},
		},
		{
			name:   "too many arguments",
			defs:   []Definition{Arg(MustArgument("a", Required, "", nil)), Arg(MustArgument("b", Optional, "", nil))},
			tokens: []string{"1", "2", "3"},
			check: func(t *testing.T, err error) {
				var e *TooManyArgumentsError
				if !errors.As(err, &e) {
					t.Fatalf("error = %v, want TooManyArgumentsError", err)
				}
				if e.Token != "3" {
					t.Errorf("Token = %q, want %q", e.Token, "3")
				}
				if diff := cmp.Diff([]string{"a", "b"}, e.Expected); diff != "" {
					t.Errorf("Expected mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:   "unknown long option",
			tokens: []string{"--nope=1"},
			check: func(t *testing.T, err error) {
				var e *UnknownOptionError
				if !errors.As(err, &e) || e.Name != "--nope" {
					t.Fatalf("error = %v, want UnknownOptionError for --nope", err)
				}
			},
		},
		{
			name:   "unknown short option",
			tokens: []string{"-x"},
			check: func(t *testing.T, err error) {
				var e *UnknownOptionError
				if !errors.As(err, &e) || e.Name != "-x" {
					t.Fatalf("error = %v, want UnknownOptionError for -x", err)
				}
			},
		},
		{
			name: "unknown shortcut inside cluster",
			defs: []Definition{
				Opt(MustOption("all", "a", NoValue, "", nil)),
				Opt(MustOption("brief", "b", NoValue, "", nil)),
			},
			tokens: []string{"-axb"},
			check: func(t *testing.T, err error) {
				var e *UnknownOptionError
				if !errors.As(err, &e) || e.Name != "-x" {
					t.Fatalf("error = %v, want UnknownOptionError for -x", err)
				}
			},
		},
		{
			name:   "flag given a value",
			defs:   []Definition{Opt(MustOption("verbose", "v", NoValue, "", nil))},
			tokens: []string{"--verbose=yes"},
			check: func(t *testing.T, err error) {
				var e *OptionTakesNoValueError
				if !errors.As(err, &e) || e.Name != "verbose" {
					t.Fatalf("error = %v, want OptionTakesNoValueError for verbose", err)
				}
			},
		},
		{
			name:   "required value missing at end",
			defs:   []Definition{Opt(MustOption("foo", "f", RequiredValue, "", nil))},
			tokens: []string{"--foo"},
			check: func(t *testing.T, err error) {
				var e *OptionRequiresValueError
				if !errors.As(err, &e) || e.Name != "foo" {
					t.Fatalf("error = %v, want OptionRequiresValueError for foo", err)
				}
			},
		},
		{
			name: "required value before a flag",
			defs: []Definition{
				Opt(MustOption("foo", "f", RequiredValue, "", nil)),
				Opt(MustOption("verbose", "v", NoValue, "", nil)),
			},
			tokens: []string{"-f", "-v"},
			check: func(t *testing.T, err error) {
				var e *OptionRequiresValueError
				if !errors.As(err, &e) || e.Name != "foo" {
					t.Fatalf("error = %v, want OptionRequiresValueError for foo", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewInput(tt.tokens).Bind(mustSig(t, tt.defs...))
			if err == nil {
				t.Fatal("Bind() error = nil, want error")
			}
			if !errors.Is(err, ErrBinding) {
				t.Errorf("errors.Is(%v, ErrBinding) = false", err)
			}
			if errors.Is(err, ErrContract) {
				t.Errorf("errors.Is(%v, ErrContract) = true", err)
			}
			tt.check(t, err)
		})
	}
}

func TestBindIsIdempotent(t *testing.T) {
	sig := mustSig(t,
		Arg(MustArgument("files", OptionalArray, "", nil)),
		Opt(MustOption("tag", "t", RequiredValueArray, "", nil)),
	)
	in := NewInput([]string{"a", "-tx", "b", "--tag", "y"})
	if err := in.Bind(sig); err != nil {
		t.Fatalf("first Bind() error = %v", err)
	}
	firstArgs, firstOpts := in.Arguments(), in.Options()
	if err := in.Bind(sig); err != nil {
		t.Fatalf("second Bind() error = %v", err)
	}
	if diff := cmp.Diff(firstArgs, in.Arguments()); diff != "" {
		t.Errorf("Arguments() changed between binds (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(firstOpts, in.Options()); diff != "" {
		t.Errorf("Options() changed between binds (-first +second):\n%s", diff)
	}
	want := map[string]any{"tag": []string{"x", "y"}}
	if diff := cmp.Diff(want, firstOpts); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}

func TestBindTwoPhase(t *testing.T) {
	routing := mustSig(t,
		Arg(MustArgument("command", Required, "", nil)),
		Opt(MustOption("verbose", "v", NoValue, "", nil)),
	)
	command := mustSig(t,
		Arg(MustArgument("command", Required, "", nil)),
		Arg(MustArgument("service", Required, "", nil)),
		Opt(MustOption("verbose", "v", NoValue, "", nil)),
		Opt(MustOption("force", "f", NoValue, "", nil)),
	)

	in := NewInput([]string{"-v", "deploy", "web", "--force"})
	if err := in.Bind(routing); err == nil {
		t.Fatal("routing Bind() error = nil, want error for the extra argument")
	}
	name, ok := in.FirstArgument()
	if !ok || name != "deploy" {
		t.Fatalf("FirstArgument() = %q, %v; want %q, true", name, ok, "deploy")
	}
	if err := in.Bind(command); err != nil {
		t.Fatalf("command Bind() error = %v", err)
	}
	if in.Signature() != command {
		t.Error("Signature() is not the last bound signature")
	}
	wantArgs := map[string]any{"command": "deploy", "service": "web"}
	if diff := cmp.Diff(wantArgs, in.Arguments()); diff != "" {
		t.Errorf("Arguments() mismatch (-want +got):\n%s", diff)
	}
	wantOpts := map[string]any{"verbose": true, "force": true}
	if diff := cmp.Diff(wantOpts, in.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}

func TestBindFailureKeepsNoValues(t *testing.T) {
	sig := mustSig(t,
		Arg(MustArgument("name", Optional, "", "anon")),
		Opt(MustOption("level", "l", RequiredValue, "", "info")),
	)
	in := NewInput([]string{"bob", "--level", "debug", "--bogus"})
	if err := in.Bind(sig); err == nil {
		t.Fatal("Bind() error = nil, want error")
	}
	if diff := cmp.Diff(map[string]any{"name": "anon"}, in.Arguments()); diff != "" {
		t.Errorf("Arguments() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"level": "info"}, in.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}

func TestInputAccessors(t *testing.T) {
	sig := mustSig(t,
		Arg(MustArgument("src", Required, "", nil)),
		Arg(MustArgument("dst", Optional, "", "out")),
		Opt(MustOption("tags", "t", RequiredValueArray, "", nil)),
		Opt(MustOption("dry-run", "n", NoValue, "", nil)),
	)
	in := NewInput([]string{"in.txt", "-t", "a"})
	if err := in.Bind(sig); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	if got, err := in.Argument("src"); err != nil || got != "in.txt" {
		t.Errorf("Argument(src) = %v, %v; want in.txt", got, err)
	}
	if got, err := in.Argument("dst"); err != nil || got != "out" {
		t.Errorf("Argument(dst) = %v, %v; want default out", got, err)
	}
	if got, err := in.Option("dry-run"); err != nil || got != false {
		t.Errorf("Option(dry-run) = %v, %v; want false", got, err)
	}

	if _, err := in.Argument("nope"); err == nil {
		t.Error("Argument(nope) error = nil")
	} else {
		var e *UnknownArgumentError
		if !errors.As(err, &e) || e.Name != "nope" {
			t.Errorf("Argument(nope) error = %v, want UnknownArgumentError", err)
		}
	}
	if _, err := in.Option("nope"); err == nil {
		t.Error("Option(nope) error = nil")
	} else {
		var e *UnknownOptionError
		if !errors.As(err, &e) || e.Name != "--nope" {
			t.Errorf("Option(nope) error = %v, want UnknownOptionError", err)
		}
	}

	// Returned slices are copies.
	tags, _ := in.Option("tags")
	tags.([]string)[0] = "mutated"
	if got, _ := in.Option("tags"); cmp.Diff([]string{"a"}, got) != "" {
		t.Errorf("Option(tags) = %v after mutating a returned slice", got)
	}

	if err := in.SetArgument("dst", "elsewhere"); err != nil {
		t.Fatalf("SetArgument() error = %v", err)
	}
	if got, _ := in.Argument("dst"); got != "elsewhere" {
		t.Errorf("Argument(dst) = %v after SetArgument", got)
	}
	if err := in.SetOption("dry-run", true); err != nil {
		t.Fatalf("SetOption() error = %v", err)
	}
	if got, _ := in.Option("dry-run"); got != true {
		t.Errorf("Option(dry-run) = %v after SetOption", got)
	}
	if err := in.SetArgument("nope", "x"); err == nil {
		t.Error("SetArgument(nope) error = nil")
	}
	if err := in.SetOption("nope", "x"); err == nil {
		t.Error("SetOption(nope) error = nil")
	}
}

func TestInputUnbound(t *testing.T) {
	in := NewInput([]string{"a"})
	if got := in.Arguments(); len(got) != 0 {
		t.Errorf("Arguments() = %v, want empty", got)
	}
	if _, err := in.Argument("a"); err == nil {
		t.Error("Argument() on unbound input error = nil")
	}
	if err := in.Validate(); err != nil {
		t.Errorf("Validate() on unbound input error = %v", err)
	}
	if in.Signature() != nil {
		t.Error("Signature() on unbound input != nil")
	}
}

func TestValidate(t *testing.T) {
	sig := mustSig(t,
		Arg(MustArgument("a", Required, "", nil)),
		Arg(MustArgument("b", Required, "", nil)),
		Arg(MustArgument("c", Optional, "", nil)),
	)

	in := NewInput([]string{"x"})
	if err := in.Bind(sig); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	err := in.Validate()
	var e *NotEnoughArgumentsError
	if !errors.As(err, &e) {
		t.Fatalf("Validate() error = %v, want NotEnoughArgumentsError", err)
	}
	if diff := cmp.Diff([]string{"b"}, e.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(err, ErrBinding) {
		t.Errorf("errors.Is(%v, ErrBinding) = false", err)
	}

	in = NewInput([]string{"x", "y"})
	if err := in.Bind(sig); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if err := in.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestNewInputCopiesTokens(t *testing.T) {
	tokens := []string{"a", "b"}
	in := NewInput(tokens)
	tokens[0] = "changed"
	if diff := cmp.Diff([]string{"a", "b"}, in.Tokens()); diff != "" {
		t.Errorf("Tokens() mismatch (-want +got):\n%s", diff)
	}
}
