// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/eclipse-opensovd/annotate/cli"
	"github.com/eclipse-opensovd/annotate/header"
)

func main() { cli.Main(new(app)) }

type app struct {
	holder   string
	license  string
	template string
	config   string
	tool     string
	strict   bool
	jobs     int
	dry      bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.holder, "holder", "", "Copyright `holder` to annotate files with.")
	fs.StringVar(&a.license, "license", "", "SPDX license `identifier` to annotate files with.")
	fs.StringVar(&a.template, "template", "", "`name` of the header boilerplate template.")
	fs.StringVar(&a.config, "config", "", "Read configuration from `file` instead of .annotate.yml.")
	fs.StringVar(&a.tool, "tool", "", "Delegate header insertion to an external reuse-style `command`.")
	fs.BoolVar(&a.strict, "strict", false, "Fail the run when any file fails to annotate.")
	fs.IntVar(&a.jobs, "jobs", 0, "Annotate up to `n` files concurrently.")
	fs.BoolVar(&a.dry, "dry", false, "Print what would change without modifying any file.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	cfg, err := header.LoadConfig(a.config, env.Getenv)
	if err != nil {
		return err
	}
	// Flags take precedence over the environment and the config file.
	if a.holder != "" {
		cfg.Holder = a.holder
	}
	if a.license != "" {
		cfg.License = a.license
	}
	if a.template != "" {
		cfg.Template = a.template
	}
	if a.tool != "" {
		cfg.Tool = a.tool
		cfg.ToolArgs = nil
	}
	if a.strict {
		cfg.Strict = true
	}
	if a.jobs > 0 {
		cfg.Jobs = a.jobs
	}

	policy := cfg.Policy()
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("%w: %v", cli.ErrInvalidArgs, err)
	}

	paths := env.Args
	if len(paths) == 0 && !stdinIsTerminal(env) {
		paths, err = readPaths(env.Stdin)
		if err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: no files to annotate", cli.ErrInvalidArgs)
	}

	bundle, err := header.LoadBundle(cfg.Bundle)
	if err != nil {
		return err
	}

	var tool header.Tool = &header.TemplateTool{Bundle: bundle}
	if cfg.Tool != "" {
		tool = &header.ExecTool{Command: cfg.Tool, Args: cfg.ToolArgs, MaxRetries: 2}
	}

	ann := &header.Annotator{
		Policy:   policy,
		Tool:     tool,
		Bundle:   bundle,
		Exclude:  cfg.Exclude,
		Jobs:     cfg.Jobs,
		DryRun:   a.dry,
		Progress: progress(env),
	}

	rep := ann.Run(ctx, paths)

	annotated, skipped, failed := rep.Counts()
	for _, e := range rep.Errs() {
		env.Logf("%v", e)
	}
	env.Logf("%d annotated, %d skipped, %d failed", annotated, skipped, failed)

	if err := rep.Err(cfg.Strict); err != nil {
		return fmt.Errorf("%d of %d files failed to annotate: %w", failed, len(paths), err)
	}
	return nil
}

// stdinIsTerminal reports whether stdin is an interactive terminal, in
// which case there is no path list to read from it.
func stdinIsTerminal(env *cli.Env) bool {
	f, ok := env.Stdin.(*os.File)
	return ok && cli.IsTerminal(int(f.Fd()))
}

// readPaths reads newline-separated paths, skipping blank lines.
func readPaths(r io.Reader) ([]string, error) {
	var paths []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		if path := strings.TrimSpace(s.Text()); path != "" {
			paths = append(paths, path)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// progress returns a per-file progress reporter, or nil when stderr is not a
// terminal.
func progress(env *cli.Env) func(current, total int, path string) {
	f, ok := env.Stderr.(*os.File)
	if !ok || !cli.IsTerminal(int(f.Fd())) {
		return nil
	}
	return func(current, total int, path string) {
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil {
			width = 0
		}
		fmt.Fprintf(f, "\r\033[K%s", progressMessage(current, total, path, width))
		if current == total {
			fmt.Fprintln(f)
		}
	}
}

// progressMessage renders a single-line progress report that fits the
// terminal. The counter prefix is never trimmed; the path is shortened with
// an ellipsis when there is room for one.
func progressMessage(current, total int, path string, width int) string {
	prefix := fmt.Sprintf("[%d/%d] Annotating ", current, total)
	msg := prefix + path
	if width <= 0 || len(msg) <= width {
		return msg
	}
	if width <= len(prefix) {
		return prefix
	}
	avail := width - len(prefix)
	if avail > len("...") {
		return prefix + path[:avail-len("...")] + "..."
	}
	return prefix + path[:avail]
}
