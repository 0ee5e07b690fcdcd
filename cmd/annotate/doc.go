// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

/*
Annotate adds license headers to the specified files.

For every file it resolves the copyright year from the file's existing
copyright declarations (falling back to the current year), removes
structured copyright lines that name a different holder, and inserts a
header carrying the configured holder and SPDX license identifier. Files
that already carry a matching header are left byte-identical, so the tool
can be run repeatedly, for example from a pre-commit hook.

Files are passed as arguments. When no arguments are given, paths are read
from standard input, one per line, which makes the tool usable behind
git ls-files and similar producers.

A failure to annotate one file never aborts the run: the remaining files
are still processed and every failure is reported at the end. By default
such a run still exits successfully; pass -strict to fail it.

Configuration is read from .annotate.yml (or .annotate.yaml) in the current
directory, overridden by the ANNOTATE_HOLDER, ANNOTATE_LICENSE,
ANNOTATE_TEMPLATE and ANNOTATE_TOOL environment variables, overridden by
flags. Header boilerplate templates are read from a .annotate.txtar archive
with entries named templates/<name>.tmpl.

By default headers are written by a built-in annotator. Set tool (or pass
-tool) to delegate to an external reuse-style command instead.
*/
package main

import (
	_ "embed"

	"github.com/eclipse-opensovd/annotate/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
