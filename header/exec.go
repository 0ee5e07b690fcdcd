// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/eclipse-opensovd/annotate/logger"
)

// ExecTool invokes an external reuse-style annotation command once per file.
type ExecTool struct {
	// Command is the binary to run, for example "reuse".
	Command string
	// Args are arguments inserted before the request flags, for example
	// the "annotate" subcommand. If nil, "annotate" is used.
	Args []string
	// MaxRetries bounds retries of a failed invocation. The tool may fetch
	// license texts over the network, so transient failures are retried
	// with exponential backoff. Zero means no retries.
	MaxRetries uint64
}

// args maps a request to the command line of a reuse-style tool.
func (t *ExecTool) args(req Request) []string {
	args := t.Args
	if args == nil {
		args = []string{"annotate"}
	}
	args = append(args[:len(args):len(args)],
		"--copyright", req.Holder,
		"--license", req.License,
		"--year", strconv.Itoa(req.Year),
	)
	if req.MergeCopyrights {
		args = append(args, "--merge-copyrights")
	}
	if req.Template != "" {
		args = append(args, "--template", req.Template)
	}
	if req.Style != StyleAuto {
		args = append(args, "--style", req.Style.String())
	}
	if req.SkipUnrecognized {
		args = append(args, "--skip-unrecognised")
	}
	return append(args, req.Path)
}

// Annotate implements [Tool].
func (t *ExecTool) Annotate(ctx context.Context, req Request) error {
	args := t.args(req)

	op := func() error {
		logger.Debug(ctx, "running annotation tool",
			slog.String("command", t.Command),
			slog.Any("args", args),
		)

		var out bytes.Buffer
		// Deliberately not CommandContext: a started invocation is allowed
		// to finish so the file is never left mid-rewrite.
		cmd := exec.Command(t.Command, args...)
		cmd.Stdout = &out
		cmd.Stderr = &out

		err := cmd.Run()
		if err == nil {
			return nil
		}
		wrapped := fmt.Errorf("%w: %s: %v: %s", ErrToolFailed, req.Path, err, strings.TrimSpace(out.String()))
		if errors.Is(err, exec.ErrNotFound) {
			// Retrying won't install the binary.
			return backoff.Permanent(wrapped)
		}
		return wrapped
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), t.MaxRetries), ctx)
	return backoff.Retry(op, b)
}
