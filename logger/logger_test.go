// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/eclipse-opensovd/annotate/testutil"
)

func TestLogfWriter(t *testing.T) {
	var (
		logged  bool
		message string
	)
	logf := func(format string, args ...any) {
		logged = true
		message = fmt.Sprintf(format, args...)
	}
	Logf(logf).Write([]byte("hello"))
	testutil.AssertEqual(t, logged, true)
	testutil.AssertEqual(t, message, "hello")
}

func TestContextRoundTrip(t *testing.T) {
	l := New(nil)
	ctx := Put(context.Background(), l)
	testutil.AssertEqual(t, Get(ctx), l)
	testutil.AssertEqual(t, LevelVar(ctx), l.Level)
}

func TestGetWithoutLoggerDiscards(t *testing.T) {
	// Must not panic and must not write anywhere visible.
	Info(context.Background(), "dropped")
}

func TestAttachDetach(t *testing.T) {
	var buf bytes.Buffer
	l := New(nil)
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: l.Level})
	ctx := Put(context.Background(), l)

	l.Attach(h)
	Info(ctx, "first")
	if !strings.Contains(buf.String(), "first") {
		t.Fatalf("attached handler did not receive message, got %q", buf.String())
	}

	l.Detach(h)
	buf.Reset()
	Info(ctx, "second")
	testutil.AssertEqual(t, buf.String(), "")
}

func TestLevelVarControlsHandlers(t *testing.T) {
	var buf bytes.Buffer
	l := New(nil)
	l.Attach(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: l.Level}))
	ctx := Put(context.Background(), l)

	Debug(ctx, "hidden")
	testutil.AssertEqual(t, buf.String(), "")

	l.Level.Set(slog.LevelDebug)
	Debug(ctx, "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("debug message not logged after lowering level, got %q", buf.String())
	}
}
