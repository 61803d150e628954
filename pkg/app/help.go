// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/argbind/pkg/argbind"
)

func (a *App) printVersion() {
	if a.version == "" {
		fmt.Fprintln(a.out, a.name)
		return
	}
	fmt.Fprintf(a.out, "%s %s\n", a.name, a.version)
}

func (a *App) printAppHelp() error {
	fmt.Fprintf(a.out, "Usage: %s %s\n", a.name, a.base.Synopsis(true))
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nCommands:")
	for _, c := range a.Commands() {
		if c.Hidden {
			continue
		}
		name := c.Name
		if len(c.Aliases) > 0 {
			name += " (" + strings.Join(c.Aliases, ", ") + ")"
		}
		fmt.Fprintf(w, "  %s\t%s\n", name, c.Description)
	}
	writeOptions(w, "Global options:", a.base.Options())
	if err := w.Flush(); err != nil {
		return err
	}
	return writeTrimmed(a.out, &buf)
}

func (a *App) printCommandHelp(r *registered) error {
	fmt.Fprintf(a.out, "Usage: %s %s\n", a.name, r.synopsis())
	if r.cmd.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", r.cmd.Description)
	}
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	if args := r.own.Arguments(); len(args) > 0 {
		fmt.Fprintln(w, "\nArguments:")
		for _, arg := range args {
			desc := arg.Description()
			if d := arg.Default(); d != nil && !isEmptyList(d) {
				desc += fmt.Sprintf(" [default: %v]", d)
			}
			fmt.Fprintf(w, "  %s\t%s\n", arg.Name(), strings.TrimSpace(desc))
		}
	}
	writeOptions(w, "Options:", r.own.Options())
	writeOptions(w, "Global options:", r.merged.Options()[len(r.own.Options()):])
	if err := w.Flush(); err != nil {
		return err
	}
	return writeTrimmed(a.out, &buf)
}

// writeTrimmed copies table output to w without the padding tabwriter
// leaves after an empty last cell.
func writeTrimmed(w io.Writer, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if _, err := fmt.Fprintln(w, strings.TrimRight(sc.Text(), " ")); err != nil {
			return err
		}
	}
	return sc.Err()
}

func writeOptions(w *tabwriter.Writer, title string, opts []*argbind.Option) {
	if len(opts) == 0 {
		return
	}
	fmt.Fprintln(w, "\n"+title)
	for _, o := range opts {
		var names []string
		for _, sc := range o.Shortcuts() {
			names = append(names, "-"+sc)
		}
		names = append(names, "--"+o.Name())
		spelled := strings.Join(names, ", ")
		if o.AcceptsValue() {
			value := strings.ToUpper(o.Name())
			if o.IsValueOptional() {
				value = "[" + value + "]"
			}
			spelled += " " + value
		}
		desc := o.Description()
		if d := o.Default(); o.AcceptsValue() && d != nil && !isEmptyList(d) {
			desc += fmt.Sprintf(" [default: %v]", d)
		}
		if o.IsArray() {
			desc += " (multiple values allowed)"
		}
		fmt.Fprintf(w, "  %s\t%s\n", spelled, strings.TrimSpace(desc))
	}
}

func isEmptyList(v any) bool {
	l, ok := v.([]string)
	return ok && len(l) == 0
}
