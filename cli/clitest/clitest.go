// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

// Package clitest provides a harness for table-driven end-to-end tests of
// [cli.App] implementations.
package clitest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/eclipse-opensovd/annotate/cli"
)

// Case describes a single invocation of an application under test.
type Case[App cli.App] struct {
	// Args are the command-line arguments passed to the application.
	Args []string
	// Stdin is the standard input of the application. If nil, an empty
	// reader is used.
	Stdin io.Reader
	// Env contains environment variables visible to the application.
	Env map[string]string

	// WantErr, if set, requires the run to return an error matching it
	// with [errors.Is].
	WantErr error
	// WantErrType, if set, requires the run to return an error whose chain
	// contains an error of the same type, per [errors.As].
	WantErrType error
	// WantNothingPrinted requires both stdout and stderr to be empty.
	WantNothingPrinted bool
	// WantInStdout is a substring that must appear in stdout.
	WantInStdout string
	// WantInStderr is a substring that must appear in stderr.
	WantInStderr string
	// CheckFunc runs extra assertions after the application finished.
	CheckFunc func(*testing.T, App)
}

// Run executes every case as a subtest. The setup function constructs a
// fresh application for each case.
func Run[App cli.App](t *testing.T, setup func(*testing.T) App, cases map[string]Case[App]) {
	t.Helper()

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := setup(t)

			stdin := tc.Stdin
			if stdin == nil {
				stdin = strings.NewReader("")
			}

			var stdout, stderr bytes.Buffer
			env := &cli.Env{
				Args:   tc.Args,
				Stdin:  stdin,
				Stdout: &stdout,
				Stderr: &stderr,
				Getenv: func(key string) string { return tc.Env[key] },
			}

			err := cli.Run(cli.WithEnv(context.Background(), env), app)

			switch {
			case tc.WantErr != nil:
				if !errors.Is(err, tc.WantErr) {
					t.Fatalf("want error matching %v, got %v", tc.WantErr, err)
				}
			case tc.WantErrType != nil:
				target := reflect.New(reflect.TypeOf(tc.WantErrType))
				if !errors.As(err, target.Interface()) {
					t.Fatalf("want error of type %T, got %v", tc.WantErrType, err)
				}
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}

			if tc.WantNothingPrinted {
				if stdout.Len() > 0 {
					t.Errorf("nothing must be printed to stdout, got: %q", stdout.String())
				}
				if stderr.Len() > 0 {
					t.Errorf("nothing must be printed to stderr, got: %q", stderr.String())
				}
			}

			if tc.WantInStdout != "" && !strings.Contains(stdout.String(), tc.WantInStdout) {
				t.Errorf("stdout must contain %q, got: %q", tc.WantInStdout, stdout.String())
			}
			if tc.WantInStderr != "" && !strings.Contains(stderr.String(), tc.WantInStderr) {
				t.Errorf("stderr must contain %q, got: %q", tc.WantInStderr, stderr.String())
			}

			if tc.CheckFunc != nil {
				tc.CheckFunc(t, app)
			}
		})
	}
}
