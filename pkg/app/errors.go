// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/yeetrun/argbind/pkg/argbind"
)

// UsageError wraps a binding error with the usage line of the command it
// was raised for.
type UsageError struct {
	Command string // empty when no command was resolved
	Usage   string
	Err     error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// CommandNotFoundError is returned when a name matches no command.
type CommandNotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *CommandNotFoundError) Error() string {
	msg := fmt.Sprintf("command %q is not defined", e.Name)
	switch len(e.Suggestions) {
	case 0:
		return msg
	case 1:
		return fmt.Sprintf("%s, did you mean %q?", msg, e.Suggestions[0])
	}
	return fmt.Sprintf("%s, did you mean one of %s?", msg, quoteList(e.Suggestions))
}

func (e *CommandNotFoundError) Is(target error) bool { return target == argbind.ErrBinding }

// AmbiguousCommandError is returned when a prefix matches several commands.
type AmbiguousCommandError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousCommandError) Error() string {
	return fmt.Sprintf("command %q is ambiguous, it could be %s", e.Name, quoteList(e.Candidates))
}

func (e *AmbiguousCommandError) Is(target error) bool { return target == argbind.ErrBinding }

func quoteList(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(q, ", ")
}

// suggest ranks candidates close to name: those containing name's letters
// in order, and those within a small edit distance of it.
func suggest(name string, candidates []string) []string {
	if name == "" {
		return nil
	}
	dist := make(map[string]int)
	for _, r := range fuzzy.RankFindFold(name, candidates) {
		dist[r.Target] = r.Distance
	}
	limit := len(name)/3 + 1
	for _, c := range candidates {
		if _, ok := dist[c]; ok {
			continue
		}
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c)); d <= limit {
			dist[c] = d
		}
	}
	out := make([]string, 0, len(dist))
	for c := range dist {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if dist[out[i]] != dist[out[j]] {
			return dist[out[i]] < dist[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
