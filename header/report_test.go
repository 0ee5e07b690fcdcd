// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/eclipse-opensovd/annotate/testutil"
)

func TestReportCounts(t *testing.T) {
	t.Parallel()

	r := newReport([]string{"a", "b", "c", "d"})
	r.add(&Task{Path: "a", State: StateAnnotated})
	r.add(&Task{Path: "b", State: StateAnnotated})
	r.add(&Task{Path: "c", State: StateSkipped})
	r.add(&Task{Path: "d", State: StateFailed, Err: fmt.Errorf("%w: d", ErrToolFailed)})

	annotated, skipped, failed := r.Counts()
	testutil.AssertEqual(t, annotated, 2)
	testutil.AssertEqual(t, skipped, 1)
	testutil.AssertEqual(t, failed, 1)
}

func TestReportErrsKeepCallerOrder(t *testing.T) {
	t.Parallel()

	r := newReport([]string{"a", "b", "c"})
	// Workers finish out of order.
	r.add(&Task{Path: "c", State: StateFailed, Err: fmt.Errorf("%w: c", ErrToolFailed)})
	r.add(&Task{Path: "b", State: StateAnnotated})
	r.add(&Task{Path: "a", State: StateFailed, Err: fmt.Errorf("%w: a", ErrFileUnreadable)})

	errs := r.Errs()
	testutil.AssertEqual(t, len(errs), 2)
	if !errors.Is(errs[0], ErrFileUnreadable) {
		t.Fatalf("first error must belong to path a, got %v", errs[0])
	}
	if !errors.Is(errs[1], ErrToolFailed) {
		t.Fatalf("second error must belong to path c, got %v", errs[1])
	}
}

func TestReportErrsNameThePathOnce(t *testing.T) {
	t.Parallel()

	r := newReport([]string{"a.rs"})
	r.add(&Task{Path: "a.rs", State: StateFailed, Err: fmt.Errorf("%w: a.rs: stat a.rs: no such file", ErrFileUnreadable)})

	errs := r.Errs()
	testutil.AssertEqual(t, len(errs), 1)
	// Task errors already carry the path; the report must not prepend it
	// a second time.
	if got := errs[0].Error(); strings.HasPrefix(got, "a.rs: ") {
		t.Fatalf("path reported twice: %q", got)
	}
}

func TestReportErrStrictness(t *testing.T) {
	t.Parallel()

	clean := newReport([]string{"a"})
	clean.add(&Task{Path: "a", State: StateAnnotated})
	testutil.AssertEqual(t, clean.Err(false), nil)
	testutil.AssertEqual(t, clean.Err(true), nil)

	dirty := newReport([]string{"a"})
	dirty.add(&Task{Path: "a", State: StateFailed, Err: ErrToolFailed})
	testutil.AssertEqual(t, dirty.Err(false), nil)
	if err := dirty.Err(true); err == nil {
		t.Fatal("strict mode must report the failure")
	} else if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("aggregate must wrap per-file errors, got %v", err)
	}
}

func TestTaskStateStrings(t *testing.T) {
	t.Parallel()

	cases := map[State]string{
		StatePending:           "pending",
		StateYearResolved:      "year resolved",
		StateConflictsStripped: "conflicts stripped",
		StateAnnotated:         "annotated",
		StateSkipped:           "skipped",
		StateFailed:            "failed",
	}
	for state, want := range cases {
		testutil.AssertEqual(t, state.String(), want)
	}
}

func TestTaskTerminal(t *testing.T) {
	t.Parallel()

	testutil.AssertEqual(t, StatePending.Terminal(), false)
	testutil.AssertEqual(t, StateYearResolved.Terminal(), false)
	testutil.AssertEqual(t, StateConflictsStripped.Terminal(), false)
	testutil.AssertEqual(t, StateAnnotated.Terminal(), true)
	testutil.AssertEqual(t, StateSkipped.Terminal(), true)
	testutil.AssertEqual(t, StateFailed.Terminal(), true)
}
