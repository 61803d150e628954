// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command argbind binds a token list against a command manifest and prints
// the resolved values.
//
//	argbind [--manifest PATH] [--format json|yaml] [--no-color] [--debug] -- TOKENS...
//
// Without --manifest the manifest named by ARGBIND_MANIFEST is used, or
// else the nearest argbind.toml, argbind.yaml or argbind.yml found walking
// up from the working directory.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/shayne/yargs"
	"github.com/yeetrun/argbind/pkg/app"
	"github.com/yeetrun/argbind/pkg/argbind"
	"github.com/yeetrun/argbind/pkg/manifest"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const manifestEnv = "ARGBIND_MANIFEST"

type toolFlags struct {
	Manifest string `flag:"manifest" help:"Path to the command manifest (ARGBIND_MANIFEST)"`
	Format   string `flag:"format" help:"Output format (json|yaml)"`
	NoColor  bool   `flag:"no-color" help:"Disable colored error output"`
	Debug    bool   `flag:"debug" help:"Log routing decisions to stderr"`
}

func parseToolFlags(args []string) (toolFlags, []string, error) {
	result, err := yargs.ParseKnownFlags[toolFlags](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return toolFlags{}, nil, err
	}
	rest := result.RemainingArgs
	if len(rest) > 0 && rest[0] == "--" {
		rest = rest[1:]
	}
	return result.Flags, rest, nil
}

var isTerminalFn = term.IsTerminal

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	errColor := color.New(color.FgRed)
	flags, tokens, err := parseToolFlags(args)
	if err != nil {
		printError(stderr, errColor, err)
		return 1
	}
	if colorEnabled(flags, stderr) {
		errColor.EnableColor()
	} else {
		errColor.DisableColor()
	}

	if err := dispatch(ctx, flags, tokens, stdout, stderr); err != nil {
		printError(stderr, errColor, err)
		return 1
	}
	return 0
}

// colorEnabled reports whether errors written to w should be colored.
// NO_COLOR (color.NoColor) always wins.
func colorEnabled(flags toolFlags, w io.Writer) bool {
	return !flags.NoColor && !color.NoColor && writesToTerminal(w)
}

func writesToTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminalFn(int(f.Fd()))
}

func dispatch(ctx context.Context, flags toolFlags, tokens []string, stdout, stderr io.Writer) error {
	format := flags.Format
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}

	path, err := manifestPath(flags.Manifest)
	if err != nil {
		return err
	}
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "argbind"})
	if flags.Debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	logger.Debug("loaded manifest", "path", path, "commands", len(m.Commands))

	name := m.Name
	if name == "" {
		name = "argbind"
	}
	a, err := app.New(name, m.Version, app.WithOutput(stdout), app.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, c := range m.Commands {
		defs, err := c.Definition()
		if err != nil {
			return fmt.Errorf("%s: command %q: %w", path, c.Name, err)
		}
		err = a.Add(app.Command{
			Name:        c.Name,
			Aliases:     c.Aliases,
			Description: c.Description,
			Hidden:      c.Hidden,
			Definition:  defs,
			Run:         printResult(c.Name, format, stdout),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return a.Run(ctx, tokens)
}

func manifestPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(manifestEnv); env != "" {
		return env, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	path, err := manifest.Find(cwd)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("no manifest found in %s or its parents (looked for %v)", cwd, manifest.FileNames)
	}
	return path, err
}

type result struct {
	Command   string         `json:"command" yaml:"command"`
	Arguments map[string]any `json:"arguments" yaml:"arguments"`
	Options   map[string]any `json:"options" yaml:"options"`
}

func printResult(command, format string, w io.Writer) app.Handler {
	return func(ctx context.Context, in *argbind.Input) error {
		res := result{
			Command:   command,
			Arguments: in.Arguments(),
			Options:   in.Options(),
		}
		if format == "yaml" {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(res); err != nil {
				return err
			}
			return enc.Close()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
}

func printError(w io.Writer, c *color.Color, err error) {
	c.Fprintf(w, "error: %v\n", err)
	var ue *app.UsageError
	if errors.As(err, &ue) && ue.Usage != "" {
		fmt.Fprintf(w, "Usage: %s\n", ue.Usage)
	}
}
