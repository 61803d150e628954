// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func argNames(args []*Argument) []string {
	var out []string
	for _, a := range args {
		out = append(out, a.Name())
	}
	return out
}

func optNames(opts []*Option) []string {
	var out []string
	for _, o := range opts {
		out = append(out, o.Name())
	}
	return out
}

func TestSignatureContract(t *testing.T) {
	tests := []struct {
		name    string
		defs    []Definition
		subject string
	}{
		{
			name: "duplicate argument",
			defs: []Definition{
				Arg(MustArgument("a", Optional, "", nil)),
				Arg(MustArgument("a", Optional, "", nil)),
			},
			subject: "argument",
		},
		{
			name: "argument after array",
			defs: []Definition{
				Arg(MustArgument("files", OptionalArray, "", nil)),
				Arg(MustArgument("more", Optional, "", nil)),
			},
			subject: "argument",
		},
		{
			name: "required after optional",
			defs: []Definition{
				Arg(MustArgument("a", Optional, "", nil)),
				Arg(MustArgument("b", Required, "", nil)),
			},
			subject: "argument",
		},
		{
			name: "conflicting option",
			defs: []Definition{
				Opt(MustOption("level", "", RequiredValue, "", nil)),
				Opt(MustOption("level", "", OptionalValue, "", nil)),
			},
			subject: "option",
		},
		{
			name: "shortcut taken",
			defs: []Definition{
				Opt(MustOption("verbose", "v", NoValue, "", nil)),
				Opt(MustOption("version", "v", NoValue, "", nil)),
			},
			subject: "shortcut",
		},
		{
			name:    "nil argument",
			defs:    []Definition{{Kind: KindArgument}},
			subject: "definition",
		},
		{
			name:    "nil option",
			defs:    []Definition{{Kind: KindOption}},
			subject: "definition",
		},
		{
			name:    "unknown kind",
			defs:    []Definition{{}},
			subject: "definition",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSignature(tt.defs...)
			if !errors.Is(err, ErrContract) {
				t.Fatalf("NewSignature() error = %v, want ErrContract", err)
			}
			if errors.Is(err, ErrBinding) {
				t.Errorf("errors.Is(%v, ErrBinding) = true", err)
			}
			var de *DefinitionError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not a *DefinitionError", err)
			}
			if de.Subject != tt.subject {
				t.Errorf("Subject = %q, want %q", de.Subject, tt.subject)
			}
		})
	}
}

func TestArgumentOrdering(t *testing.T) {
	// Any sequence that never puts required after optional nor anything after
	// an array is legal.
	modes := []ArgumentMode{Required, Optional, RequiredArray, OptionalArray}
	for _, first := range modes {
		for _, second := range modes {
			s := &Signature{}
			err := s.AddArguments(
				MustArgument("a", first, "", nil),
				MustArgument("b", second, "", nil),
			)
			wantErr := first.IsArray() || (!first.IsRequired() && second.IsRequired())
			if gotErr := err != nil; gotErr != wantErr {
				t.Errorf("AddArguments(%v, %v) error = %v, wantErr %v", first, second, err, wantErr)
			}
		}
	}
}

func TestSignatureReAddEqualOption(t *testing.T) {
	s := mustSig(t, Opt(MustOption("verbose", "v", NoValue, "Be loud", nil)))
	if err := s.AddOption(MustOption("verbose", "v", NoValue, "Chatty", nil)); err != nil {
		t.Fatalf("AddOption() error = %v", err)
	}
	o, _ := s.Option("verbose")
	if o.Description() != "Chatty" {
		t.Errorf("Description() = %q, want the re-added option", o.Description())
	}
	if got := len(s.Options()); got != 1 {
		t.Errorf("len(Options()) = %d, want 1", got)
	}
}

func TestSignatureLookups(t *testing.T) {
	s := mustSig(t,
		Arg(MustArgument("src", Required, "", nil)),
		Arg(MustArgument("dst", Optional, "", "out")),
		Opt(MustOption("verbose", "v|V", NoValue, "", nil)),
		Opt(MustOption("level", "l", RequiredValue, "", "info")),
	)

	if a, ok := s.Argument("dst"); !ok || a.Name() != "dst" {
		t.Errorf("Argument(dst) = %v, %v", a, ok)
	}
	if a, ok := s.ArgumentAt(0); !ok || a.Name() != "src" {
		t.Errorf("ArgumentAt(0) = %v, %v", a, ok)
	}
	if s.HasArgumentAt(2) || s.HasArgumentAt(-1) {
		t.Error("HasArgumentAt() true for out-of-range position")
	}
	if !s.HasArgument("src") || s.HasArgument("nope") {
		t.Error("HasArgument() wrong")
	}
	if got := s.ArgumentCount(); got != 2 {
		t.Errorf("ArgumentCount() = %d, want 2", got)
	}
	if got := s.ArgumentRequiredCount(); got != 1 {
		t.Errorf("ArgumentRequiredCount() = %d, want 1", got)
	}
	if !s.HasShortcut("V") || s.HasShortcut("x") {
		t.Error("HasShortcut() wrong")
	}
	if name, ok := s.ShortcutToName("V"); !ok || name != "verbose" {
		t.Errorf("ShortcutToName(V) = %q, %v", name, ok)
	}
	if o, ok := s.OptionForShortcut("l"); !ok || o.Name() != "level" {
		t.Errorf("OptionForShortcut(l) = %v, %v", o, ok)
	}
	if _, ok := s.OptionForShortcut("x"); ok {
		t.Error("OptionForShortcut(x) found an option")
	}
	if diff := cmp.Diff(map[string]any{"src": nil, "dst": "out"}, s.ArgumentDefaults()); diff != "" {
		t.Errorf("ArgumentDefaults() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"verbose": false, "level": "info"}, s.OptionDefaults()); diff != "" {
		t.Errorf("OptionDefaults() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"verbose", "level"}, optNames(s.Options())); diff != "" {
		t.Errorf("Options() order mismatch (-want +got):\n%s", diff)
	}
}

func TestArgumentCountUnbounded(t *testing.T) {
	s := mustSig(t,
		Arg(MustArgument("a", Required, "", nil)),
		Arg(MustArgument("rest", OptionalArray, "", nil)),
	)
	if got := s.ArgumentCount(); got != -1 {
		t.Errorf("ArgumentCount() = %d, want -1", got)
	}
}

func TestZeroSignature(t *testing.T) {
	var s Signature
	if s.HasOption("x") || s.HasArgument("x") || s.HasShortcut("x") {
		t.Error("zero Signature reports declarations")
	}
	if got := s.Synopsis(false); got != "" {
		t.Errorf("Synopsis() = %q, want empty", got)
	}
	if err := s.AddArgument(MustArgument("a", Required, "", nil)); err != nil {
		t.Fatalf("AddArgument() on zero Signature error = %v", err)
	}
	if err := s.AddOption(MustOption("b", "", NoValue, "", nil)); err != nil {
		t.Fatalf("AddOption() on zero Signature error = %v", err)
	}
}

func TestSetDefinitionFailureLeavesSignature(t *testing.T) {
	s := mustSig(t, Arg(MustArgument("keep", Optional, "", nil)))
	err := s.SetDefinition(
		Arg(MustArgument("a", Optional, "", nil)),
		Arg(MustArgument("b", Required, "", nil)),
	)
	if err == nil {
		t.Fatal("SetDefinition() error = nil")
	}
	if diff := cmp.Diff([]string{"keep"}, argNames(s.Arguments())); diff != "" {
		t.Errorf("Arguments() mismatch (-want +got):\n%s", diff)
	}
}

func TestSetArgumentsAndOptions(t *testing.T) {
	s := mustSig(t,
		Arg(MustArgument("files", OptionalArray, "", nil)),
		Opt(MustOption("verbose", "v", NoValue, "", nil)),
	)
	if err := s.SetArguments(MustArgument("one", Required, "", nil), MustArgument("two", Optional, "", nil)); err != nil {
		t.Fatalf("SetArguments() error = %v", err)
	}
	if diff := cmp.Diff([]string{"one", "two"}, argNames(s.Arguments())); diff != "" {
		t.Errorf("Arguments() mismatch (-want +got):\n%s", diff)
	}
	if got := s.ArgumentCount(); got != 2 {
		t.Errorf("ArgumentCount() = %d, want 2 after replacing the array argument", got)
	}
	if !s.HasOption("verbose") {
		t.Error("SetArguments() dropped options")
	}

	if err := s.SetOptions(MustOption("quiet", "q", NoValue, "", nil)); err != nil {
		t.Fatalf("SetOptions() error = %v", err)
	}
	if s.HasOption("verbose") || s.HasShortcut("v") {
		t.Error("SetOptions() kept the old option")
	}
	if !s.HasShortcut("q") {
		t.Error("SetOptions() lost the new shortcut")
	}
}

func TestMerge(t *testing.T) {
	base := mustSig(t,
		Arg(MustArgument("command", Required, "", nil)),
		Opt(MustOption("help", "h", NoValue, "", nil)),
		Opt(MustOption("verbose", "v", NoValue, "", nil)),
	)
	cmd := mustSig(t,
		Arg(MustArgument("service", Required, "", nil)),
		Opt(MustOption("force", "f", NoValue, "", nil)),
		Opt(MustOption("verbose", "v", NoValue, "", nil)),
	)
	merged, err := cmd.Merge(base)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if diff := cmp.Diff([]string{"command", "service"}, argNames(merged.Arguments())); diff != "" {
		t.Errorf("Arguments() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"force", "verbose", "help"}, optNames(merged.Options())); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
	if got := len(cmd.Arguments()); got != 1 {
		t.Errorf("Merge() modified the receiver: %d arguments", got)
	}

	clash := mustSig(t, Opt(MustOption("hard", "h", NoValue, "", nil)))
	if _, err := clash.Merge(base); !errors.Is(err, ErrContract) {
		t.Errorf("Merge() with shortcut clash error = %v, want ErrContract", err)
	}
}
