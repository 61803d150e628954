// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app dispatches a token list to one of several registered
// commands.
//
// Dispatch binds twice. A routing bind against the application signature
// finds the command name; a second bind against the command's signature,
// merged with the application's global options, produces the values the
// handler sees.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/yeetrun/argbind/pkg/argbind"
)

// Handler runs a command against its bound input.
type Handler func(ctx context.Context, in *argbind.Input) error

// Command is a named entry point and the arguments and options it declares.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Hidden      bool
	Definition  []argbind.Definition
	Run         Handler
}

type registered struct {
	cmd    Command
	own    *argbind.Signature
	merged *argbind.Signature
}

// App is a registry of commands sharing one set of global options.
type App struct {
	name    string
	version string
	out     io.Writer
	logger  *log.Logger

	base     *argbind.Signature
	commands *orderedmap.OrderedMap[string, *registered]
	aliases  map[string]string
}

// Option configures an App in New.
type Option func(*App)

// WithOutput sets where help and version text go. The default is
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) { a.logger = l }
}

// Global option names every command accepts.
const (
	OptHelp          = "help"
	OptQuiet         = "quiet"
	OptVerbose       = "verbose"
	OptVersion       = "version"
	OptNoInteraction = "no-interaction"
)

func baseSignature() *argbind.Signature {
	return argbind.MustSignature(
		argbind.Arg(argbind.MustArgument("command", argbind.Required, "The command to execute", nil)),
		argbind.Opt(argbind.MustOption(OptHelp, "h", argbind.NoValue, "Display help for the given command", nil)),
		argbind.Opt(argbind.MustOption(OptQuiet, "q", argbind.NoValue, "Do not output any message", nil)),
		argbind.Opt(argbind.MustOption(OptVerbose, "v", argbind.NoValue, "Increase the verbosity of messages", nil)),
		argbind.Opt(argbind.MustOption(OptVersion, "V", argbind.NoValue, "Display this application version", nil)),
		argbind.Opt(argbind.MustOption(OptNoInteraction, "n", argbind.NoValue, "Do not ask any interactive question", nil)),
	)
}

// New returns an application. A non-empty version must be valid semver.
func New(name, version string, opts ...Option) (*App, error) {
	if name == "" {
		return nil, errors.New("application name cannot be empty")
	}
	if version != "" {
		if _, err := semver.NewVersion(version); err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", version, err)
		}
	}
	a := &App{
		name:     name,
		version:  version,
		out:      os.Stdout,
		base:     baseSignature(),
		commands: orderedmap.New[string, *registered](),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: name,
			Level:  log.WarnLevel,
		})
	}
	return a, nil
}

func (a *App) Name() string { return a.name }

func (a *App) Version() string { return a.version }

// Signature returns the routing signature shared by all commands.
func (a *App) Signature() *argbind.Signature { return a.base }

// Add registers cmd. Its signature is merged with the application
// signature here, so declaration mistakes surface at startup rather than
// when the command is invoked.
func (a *App) Add(cmd Command) error {
	if cmd.Name == "" {
		return errors.New("command name cannot be empty")
	}
	if cmd.Run == nil {
		return fmt.Errorf("command %q has no handler", cmd.Name)
	}
	for _, n := range append([]string{cmd.Name}, cmd.Aliases...) {
		if _, ok := a.commands.Get(n); ok {
			return fmt.Errorf("command %q is already registered", n)
		}
		if owner, ok := a.aliases[n]; ok {
			return fmt.Errorf("%q is already an alias of %q", n, owner)
		}
	}
	own, err := argbind.NewSignature(cmd.Definition...)
	if err != nil {
		return fmt.Errorf("command %q: %w", cmd.Name, err)
	}
	merged, err := own.Merge(a.base)
	if err != nil {
		return fmt.Errorf("command %q: %w", cmd.Name, err)
	}
	cmd.Aliases = slices.Clone(cmd.Aliases)
	a.commands.Set(cmd.Name, &registered{cmd: cmd, own: own, merged: merged})
	for _, alias := range cmd.Aliases {
		if a.aliases == nil {
			a.aliases = make(map[string]string)
		}
		a.aliases[alias] = cmd.Name
	}
	return nil
}

// Commands returns the registered commands in registration order.
func (a *App) Commands() []Command {
	out := make([]Command, 0, a.commands.Len())
	for pair := a.commands.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.cmd)
	}
	return out
}

// Find resolves name to a command: an exact name first, then an alias,
// then an unambiguous prefix of a visible command's name or alias.
func (a *App) Find(name string) (*Command, error) {
	r, err := a.find(name)
	if err != nil {
		return nil, err
	}
	cmd := r.cmd
	return &cmd, nil
}

func (a *App) find(name string) (*registered, error) {
	if r, ok := a.commands.Get(name); ok {
		return r, nil
	}
	if owner, ok := a.aliases[name]; ok {
		r, _ := a.commands.Get(owner)
		return r, nil
	}
	var matches []*registered
	var visible []string
	for pair := a.commands.Oldest(); pair != nil; pair = pair.Next() {
		r := pair.Value
		if r.cmd.Hidden {
			continue
		}
		visible = append(visible, r.cmd.Name)
		for _, n := range append([]string{r.cmd.Name}, r.cmd.Aliases...) {
			if name != "" && strings.HasPrefix(n, name) {
				matches = append(matches, r)
				break
			}
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, &CommandNotFoundError{Name: name, Suggestions: suggest(name, visible)}
	}
	names := make([]string, len(matches))
	for i, r := range matches {
		names[i] = r.cmd.Name
	}
	return nil, &AmbiguousCommandError{Name: name, Candidates: names}
}

// Synopsis returns the usage line of the named command, e.g.
// "deploy [-f|--force] [--] <service>".
func (a *App) Synopsis(command string) (string, error) {
	r, err := a.find(command)
	if err != nil {
		return "", err
	}
	return r.synopsis(), nil
}

func (r *registered) synopsis() string {
	if s := r.own.Synopsis(false); s != "" {
		return r.cmd.Name + " " + s
	}
	return r.cmd.Name
}

// Run dispatches tokens, typically os.Args[1:].
//
// --version or -V anywhere before "--" prints the version and returns.
// Errors caused by the tokens are returned as *UsageError,
// *CommandNotFoundError or *AmbiguousCommandError.
func (a *App) Run(ctx context.Context, tokens []string) error {
	in := argbind.NewInput(tokens)
	if in.HasParameterOption([]string{"--" + OptVersion, "-V"}, true) {
		a.printVersion()
		return nil
	}

	// The routing bind usually stops early on command-specific options;
	// FirstArgument only needs the tokens it got through.
	if err := in.Bind(a.base); err != nil {
		a.logger.Debug("routing bind incomplete", "error", err)
	}
	name, ok := in.FirstArgument()
	if !ok {
		if in.HasParameterOption([]string{"--" + OptHelp, "-h"}, true) {
			return a.printAppHelp()
		}
		return &UsageError{
			Usage: a.name + " " + a.base.Synopsis(true),
			Err:   &argbind.NotEnoughArgumentsError{Missing: []string{"command"}},
		}
	}

	r, err := a.find(name)
	if err != nil {
		return err
	}
	a.logger.Debug("resolved command", "token", name, "command", r.cmd.Name)

	usage := a.name + " " + r.synopsis()
	if err := in.Bind(r.merged); err != nil {
		return &UsageError{Command: r.cmd.Name, Usage: usage, Err: err}
	}
	if help, _ := in.Option(OptHelp); help == true {
		return a.printCommandHelp(r)
	}
	if err := in.Validate(); err != nil {
		return &UsageError{Command: r.cmd.Name, Usage: usage, Err: err}
	}
	a.logger.Debug("running command", "command", r.cmd.Name, "arguments", in.Arguments())
	return r.cmd.Run(ctx, in)
}

// Verbosity is the output level requested with --quiet and --verbose.
type Verbosity int

const (
	VerbosityQuiet Verbosity = iota - 1
	VerbosityNormal
	VerbosityVerbose
)

// VerbosityOf reads the global verbosity options from a bound input.
// --quiet wins over --verbose.
func VerbosityOf(in *argbind.Input) Verbosity {
	if v, _ := in.Option(OptQuiet); v == true {
		return VerbosityQuiet
	}
	if v, _ := in.Option(OptVerbose); v == true {
		return VerbosityVerbose
	}
	return VerbosityNormal
}

// Interactive reports whether --no-interaction was left off.
func Interactive(in *argbind.Input) bool {
	v, _ := in.Option(OptNoInteraction)
	return v != true
}
