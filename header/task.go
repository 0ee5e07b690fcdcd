// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package header

// State tracks a task through the annotation pipeline.
type State int

const (
	StatePending State = iota
	StateYearResolved
	StateConflictsStripped
	// Terminal states.
	StateAnnotated
	StateSkipped
	StateFailed
)

// String implements [fmt.Stringer].
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateYearResolved:
		return "year resolved"
	case StateConflictsStripped:
		return "conflicts stripped"
	case StateAnnotated:
		return "annotated"
	case StateSkipped:
		return "skipped"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateAnnotated || s == StateSkipped || s == StateFailed
}

// Task is the per-file unit of work. A task is constructed from a path at
// the start of a run and discarded when the run's report is; tasks are never
// persisted or reused across runs, and no state is shared between them.
type Task struct {
	// Path of the file to annotate.
	Path string
	// Year is the copyright year resolved for the file.
	Year int
	// Style is the comment style forced for the file, or StyleAuto.
	Style Style
	// SkipUnrecognized tells the annotation tool to leave files of unknown
	// type untouched instead of erroring. Mutually exclusive with a forced
	// Style.
	SkipUnrecognized bool
	// State is the task's position in the pipeline.
	State State
	// Err is set when State is StateFailed.
	Err error
}
