// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eclipse-opensovd/annotate/testutil"
	"github.com/eclipse-opensovd/annotate/unwrap"
)

func testAnnotator(tool Tool) *Annotator {
	return &Annotator{
		Policy: Policy{Holder: "New Org", License: "Apache-2.0"},
		Tool:   tool,
		Now:    func() time.Time { return testNow },
	}
}

func TestRunAggregateReporting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := unwrap.Value(os.CreateTemp(dir, "a-*.rs")).Name()
	b := unwrap.Value(os.CreateTemp(dir, "b-*.rs")).Name()
	missing := filepath.Join(dir, "missing.rs")

	ann := testAnnotator(&TemplateTool{})
	rep := ann.Run(context.Background(), []string{a, missing, b})

	annotated, skipped, failed := rep.Counts()
	testutil.AssertEqual(t, annotated, 2)
	testutil.AssertEqual(t, skipped, 0)
	testutil.AssertEqual(t, failed, 1)

	errs := rep.Errs()
	testutil.AssertEqual(t, len(errs), 1)
	if !errors.Is(errs[0], ErrFileUnreadable) {
		t.Fatalf("want ErrFileUnreadable, got %v", errs[0])
	}
	if !strings.Contains(errs[0].Error(), missing) {
		t.Fatalf("error must name the offending path, got %v", errs[0])
	}

	// The two healthy files really got annotated.
	for _, path := range []string{a, b} {
		task, ok := rep.Task(path)
		testutil.AssertEqual(t, ok, true)
		testutil.AssertEqual(t, task.State, StateAnnotated)
		content := unwrap.Value(os.ReadFile(path))
		if !strings.Contains(string(content), "SPDX-FileCopyrightText: 2025 New Org") {
			t.Fatalf("file %s not annotated: %q", path, content)
		}
	}
}

func TestRunBestEffortVersusStrict(t *testing.T) {
	t.Parallel()

	ann := testAnnotator(&TemplateTool{})
	rep := ann.Run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.rs")})

	testutil.AssertEqual(t, rep.Err(false), nil)
	if err := rep.Err(true); err == nil {
		t.Fatal("strict mode must surface per-file failures")
	}
}

func TestRunIdempotence(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "lib.rs", "fn main() {}\n")
	ann := testAnnotator(&TemplateTool{})

	ann.Run(context.Background(), []string{path})
	first := unwrap.Value(os.ReadFile(path))

	ann.Run(context.Background(), []string{path})
	second := unwrap.Value(os.ReadFile(path))

	testutil.AssertEqual(t, string(second), string(first))
}

func TestRunStripsForeignHolder(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "lib.rs", "// SPDX-FileCopyrightText: 2020 Old Corp\nfn main() {}\n")
	ann := testAnnotator(&TemplateTool{})

	rep := ann.Run(context.Background(), []string{path})
	task, _ := rep.Task(path)
	testutil.AssertEqual(t, task.State, StateAnnotated)
	// Year comes from the old declaration, holder from the policy.
	testutil.AssertEqual(t, task.Year, 2020)

	content := string(unwrap.Value(os.ReadFile(path)))
	if strings.Contains(content, "Old Corp") {
		t.Fatalf("foreign copyright line must be removed, got:\n%s", content)
	}
	if !strings.Contains(content, "SPDX-FileCopyrightText: 2020 New Org") {
		t.Fatalf("policy holder with preserved year expected, got:\n%s", content)
	}

	// Re-running leaves the new header alone.
	before := content
	ann.Run(context.Background(), []string{path})
	after := string(unwrap.Value(os.ReadFile(path)))
	testutil.AssertEqual(t, after, before)
}

func TestRunDeduplicatesPaths(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "lib.rs", "fn main() {}\n")
	ann := testAnnotator(&TemplateTool{})

	var total int
	ann.Progress = func(_, t int, _ string) { total = t }

	rep := ann.Run(context.Background(), []string{path, path, path})
	annotated, _, failed := rep.Counts()
	testutil.AssertEqual(t, annotated, 1)
	testutil.AssertEqual(t, failed, 0)
	testutil.AssertEqual(t, total, 1)
}

func TestRunExcludes(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "lib.rs", "fn main() {}\n")
	ann := testAnnotator(&TemplateTool{})
	ann.Exclude = []string{".rs"}

	rep := ann.Run(context.Background(), []string{path})
	task, _ := rep.Task(path)
	testutil.AssertEqual(t, task.State, StateSkipped)

	content := unwrap.Value(os.ReadFile(path))
	testutil.AssertEqual(t, string(content), "fn main() {}\n")
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "lib.rs", "fn main() {}\n")
	ann := testAnnotator(&TemplateTool{})
	ann.DryRun = true

	rep := ann.Run(context.Background(), []string{path})
	task, _ := rep.Task(path)
	testutil.AssertEqual(t, task.State, StateAnnotated)

	content := unwrap.Value(os.ReadFile(path))
	testutil.AssertEqual(t, string(content), "fn main() {}\n")
}

// recordingTool records the requests it receives.
type recordingTool struct {
	mu   sync.Mutex
	reqs []Request
	err  error
}

func (t *recordingTool) Annotate(_ context.Context, req Request) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reqs = append(t.reqs, req)
	return t.err
}

func TestRunRequestContents(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "lib.rs", "// SPDX-FileCopyrightText: 2021 New Org\n")
	tool := &recordingTool{}
	ann := testAnnotator(tool)
	ann.Policy.Template = "opensovd" // no bundle has it, so it must be dropped

	ann.Run(context.Background(), []string{path})

	testutil.AssertEqual(t, len(tool.reqs), 1)
	req := tool.reqs[0]
	testutil.AssertEqual(t, req.Year, 2021)
	testutil.AssertEqual(t, req.Holder, "New Org")
	testutil.AssertEqual(t, req.License, "Apache-2.0")
	testutil.AssertEqual(t, req.Template, "")
	testutil.AssertEqual(t, req.Style, StyleC)
	testutil.AssertEqual(t, req.SkipUnrecognized, false)
	testutil.AssertEqual(t, req.MergeCopyrights, true)
}

func TestRunParallel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var paths []string
	for range 20 {
		paths = append(paths, unwrap.Value(os.CreateTemp(dir, "f-*.rs")).Name())
	}

	ann := testAnnotator(&TemplateTool{})
	ann.Jobs = 4

	rep := ann.Run(context.Background(), paths)
	annotated, _, failed := rep.Counts()
	testutil.AssertEqual(t, annotated, len(paths))
	testutil.AssertEqual(t, failed, 0)
}

func TestRunCanceledSchedulesNothing(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeTemp(t, "lib.rs", "fn main() {}\n")
	ann := testAnnotator(&TemplateTool{})

	rep := ann.Run(ctx, []string{path})
	if _, ok := rep.Task(path); ok {
		t.Fatal("no task must be scheduled after cancellation")
	}

	content := unwrap.Value(os.ReadFile(path))
	testutil.AssertEqual(t, string(content), "fn main() {}\n")
}

func TestRunProgressOrder(t *testing.T) {
	t.Parallel()

	a := writeTemp(t, "a.rs", "")
	b := writeTemp(t, "b.rs", "")

	var got []string
	ann := testAnnotator(&TemplateTool{})
	ann.Progress = func(current, total int, path string) {
		got = append(got, path)
		testutil.AssertEqual(t, total, 2)
	}

	ann.Run(context.Background(), []string{a, b})
	testutil.AssertEqual(t, got, []string{a, b})
}
