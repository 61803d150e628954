// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import "strings"

// The lookups in this file read the raw tokens and never fail. They exist
// for routing decisions taken before the final signature is known, such as
// picking a sub-command or noticing --version.

// HasParameterOption reports whether any token equals one of names (given
// with their dashes, e.g. "--version", "-V"), or starts with "name=" for a
// long name. With onlyBeforeDoubleDash set, scanning stops at "--".
func (in *Input) HasParameterOption(names []string, onlyBeforeDoubleDash bool) bool {
	for _, t := range in.tokens {
		if onlyBeforeDoubleDash && t == "--" {
			return false
		}
		if _, _, ok := matchParameter(t, names); ok {
			return true
		}
	}
	return false
}

// ParameterOption returns the value given to the first token matching one
// of names: the token after a bare match, or the text after "name=". It
// returns def when nothing matches or a bare match is the last token.
func (in *Input) ParameterOption(names []string, def string, onlyBeforeDoubleDash bool) string {
	for i, t := range in.tokens {
		if onlyBeforeDoubleDash && t == "--" {
			return def
		}
		value, inline, ok := matchParameter(t, names)
		if !ok {
			continue
		}
		if inline {
			return value
		}
		if i+1 < len(in.tokens) {
			return in.tokens[i+1]
		}
		return def
	}
	return def
}

func matchParameter(t string, names []string) (value string, inline, ok bool) {
	for _, name := range names {
		if t == name {
			return "", false, true
		}
		if strings.HasPrefix(name, "--") && strings.HasPrefix(t, name+"=") {
			return t[len(name)+1:], true, true
		}
	}
	return "", false, false
}

// FirstArgument returns the first token that is neither an option nor an
// option's value.
//
// Tokens the last Bind classified are judged by that classification, so a
// value consumed by a declared option is skipped while a bare flag's
// follower is not. Other tokens fall back to a heuristic: a token starting
// with "-" and lacking "=" is assumed to consume the token after it.
func (in *Input) FirstArgument() (string, bool) {
	for i := 0; i < len(in.tokens); i++ {
		t := in.tokens[i]
		switch in.kinds[i] {
		case kindArgument:
			return t, true
		case kindOption, kindValue, kindSeparator:
			continue
		}
		if t == "" || t[0] != '-' {
			return t, true
		}
		if t == "--" {
			if i+1 < len(in.tokens) {
				return in.tokens[i+1], true
			}
			return "", false
		}
		if !strings.Contains(t, "=") && i+1 < len(in.tokens) {
			i++
		}
	}
	return "", false
}
