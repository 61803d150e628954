// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argbind binds command-line tokens to a declared signature of
// positional arguments and named options.
//
// A Signature is built from Arguments and Options. Declaration mistakes,
// such as a required argument after an optional one or two options sharing
// a shortcut, are reported as errors matching ErrContract when the
// signature is assembled, never while parsing user input.
//
//	sig := argbind.MustSignature(
//	    argbind.Arg(argbind.MustArgument("service", argbind.Required, "Service name", nil)),
//	    argbind.Arg(argbind.MustArgument("files", argbind.OptionalArray, "Files to copy", nil)),
//	    argbind.Opt(argbind.MustOption("force", "f", argbind.NoValue, "Overwrite", nil)),
//	    argbind.Opt(argbind.MustOption("tag", "t", argbind.RequiredValueArray, "Tags", nil)),
//	)
//
//	in := argbind.NewInput(os.Args[1:])
//	if err := in.Bind(sig); err != nil {
//	    log.Fatalf("%v\nusage: app %s", err, sig.Synopsis(false))
//	}
//	svc, _ := in.Argument("service")
//
// # Token syntax
//
// Long options are written --name, --name=value or --name value. Short
// options are written -n, -nvalue or -n value, and boolean shortcuts may be
// clustered (-abc). A value-accepting option without an inline value takes
// the next token unless that token starts with "-". A standalone "--" ends
// option parsing: every later token is positional.
//
// # Two-phase binding
//
// An Input can be bound more than once. A dispatcher typically binds a
// small routing signature first, reads FirstArgument to learn the
// sub-command, then binds again with that command's full signature. The
// raw-token lookups HasParameterOption and ParameterOption work without
// any signature at all.
//
// Errors caused by the tokens match ErrBinding and carry the offending
// token or name.
package argbind
