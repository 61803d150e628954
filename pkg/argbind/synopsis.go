// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"strings"
)

// Synopsis renders a one-line usage string for s, e.g.
//
//	[-f|--force] [--tag TAG] [--] <target> [<extra>...]
//
// With short set, options collapse to "[options]".
func (s *Signature) Synopsis(short bool) string {
	var elements []string
	opts := s.Options()
	if short {
		if len(opts) > 0 {
			elements = append(elements, "[options]")
		}
	} else {
		for _, o := range opts {
			elements = append(elements, optionSynopsis(o))
		}
	}

	if len(elements) > 0 && len(s.positional) > 0 {
		elements = append(elements, "[--]")
	}

	closing := ""
	for _, a := range s.positional {
		el := "<" + a.name + ">"
		if a.IsArray() {
			el += "..."
		}
		if !a.IsRequired() && closing == "" {
			el = "[" + el
			closing = "]"
		}
		elements = append(elements, el)
	}
	return strings.Join(elements, " ") + closing
}

func optionSynopsis(o *Option) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, sc := range o.shortcuts {
		b.WriteString("-" + sc + "|")
	}
	b.WriteString("--" + o.name)
	if o.AcceptsValue() {
		value := strings.ToUpper(o.name)
		if o.IsValueOptional() {
			value = "[" + value + "]"
		}
		b.WriteString(" " + value)
	}
	b.WriteByte(']')
	return b.String()
}
