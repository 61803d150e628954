// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest loads declarative command manifests and turns their
// command declarations into argbind signatures.
//
// A manifest is a TOML or YAML document:
//
//	name = "deployctl"
//	version = "1.2.0"
//
//	[[commands]]
//	name = "deploy"
//	aliases = ["d"]
//
//	[[commands.arguments]]
//	name = "service"
//	mode = "required"
//
//	[[commands.options]]
//	name = "tag"
//	shortcut = "t"
//	mode = ["required", "array"]
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
	"tailscale.com/util/set"
)

// Format names a manifest encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FileNames are the manifest names Find looks for, in order of preference.
var FileNames = []string{"argbind.toml", "argbind.yaml", "argbind.yml"}

// Manifest is a decoded command manifest file.
type Manifest struct {
	Name        string    `toml:"name" yaml:"name"`
	Version     string    `toml:"version,omitempty" yaml:"version,omitempty"`
	Description string    `toml:"description,omitempty" yaml:"description,omitempty"`
	Commands    []Command `toml:"commands" yaml:"commands"`

	// Path is the file the manifest was loaded from, empty when decoded
	// from a reader.
	Path string `toml:"-" yaml:"-"`

	version *semver.Version
}

// Command declares one command of a manifest.
type Command struct {
	Name        string     `toml:"name" yaml:"name"`
	Aliases     []string   `toml:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description string     `toml:"description,omitempty" yaml:"description,omitempty"`
	Hidden      bool       `toml:"hidden,omitempty" yaml:"hidden,omitempty"`
	Arguments   []Argument `toml:"arguments,omitempty" yaml:"arguments,omitempty"`
	Options     []Option   `toml:"options,omitempty" yaml:"options,omitempty"`
}

// Argument declares a positional argument. Mode lists flag names such as
// "required" or "array".
type Argument struct {
	Name        string `toml:"name" yaml:"name"`
	Mode        Flags  `toml:"mode,omitempty" yaml:"mode,omitempty"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`
	Default     any    `toml:"default,omitempty" yaml:"default,omitempty"`
}

// Option declares a named option and its shortcuts.
type Option struct {
	Name        string `toml:"name" yaml:"name"`
	Shortcut    Flags  `toml:"shortcut,omitempty" yaml:"shortcut,omitempty"`
	Mode        Flags  `toml:"mode,omitempty" yaml:"mode,omitempty"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`
	Default     any    `toml:"default,omitempty" yaml:"default,omitempty"`
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported manifest extension %q", filepath.Ext(path))
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Decode reads a manifest in the given format and validates it. Unknown
// keys are rejected in both formats.
func Decode(r io.Reader, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&m)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Find walks up from startDir and returns the path of the first manifest
// found. It returns an error matching os.ErrNotExist when there is none.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func (m *Manifest) validate() error {
	if m.Version != "" {
		v, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", m.Version, err)
		}
		m.version = v
	}
	seen := make(set.Set[string])
	for i, c := range m.Commands {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("command %d has no name", i)
		}
		for _, n := range append([]string{c.Name}, c.Aliases...) {
			if seen.Contains(n) {
				return fmt.Errorf("command name or alias %q is declared twice", n)
			}
			seen.Add(n)
		}
	}
	return nil
}

// SemVer returns the parsed version, or nil when none is declared.
func (m *Manifest) SemVer() *semver.Version {
	return m.version
}

// Command returns the command with the given name or alias.
func (m *Manifest) Command(name string) (*Command, bool) {
	for i := range m.Commands {
		c := &m.Commands[i]
		if c.Name == name {
			return c, true
		}
	}
	for i := range m.Commands {
		c := &m.Commands[i]
		for _, a := range c.Aliases {
			if a == name {
				return c, true
			}
		}
	}
	return nil, false
}

func (m *Manifest) source() string {
	if m.Path != "" {
		return m.Path
	}
	if m.Name != "" {
		return m.Name
	}
	return "manifest"
}
