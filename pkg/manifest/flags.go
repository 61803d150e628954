// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Flags is a manifest field written either as a single string or as a list
// of strings, e.g. mode = "required" or mode = ["required", "array"].
type Flags []string

// UnmarshalTOML implements toml.Unmarshaler.
func (f *Flags) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		*f = Flags{v}
		return nil
	case []any:
		out := make(Flags, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("expected a string, got %T", e)
			}
			out = append(out, s)
		}
		*f = out
		return nil
	}
	return fmt.Errorf("expected a string or a list of strings, got %T", data)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Flags) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*f = Flags{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*f = list
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
}
