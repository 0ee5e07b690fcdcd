// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"github.com/go4org/hashtriemap"
	"github.com/hashicorp/go-multierror"

	"github.com/eclipse-opensovd/annotate/syncx"
)

// Report collects the outcome of a run. It is safe for concurrent use by
// the worker goroutines of [Annotator.Run].
type Report struct {
	paths []string
	tasks hashtriemap.HashTrieMap[string, *Task]
	errs  syncx.Protected[*multierror.Error]
}

func newReport(paths []string) *Report {
	return &Report{
		paths: paths,
		errs:  syncx.Protect(&multierror.Error{}),
	}
}

// add records a finished task. Task errors already name the offending path,
// so they are collected as-is.
func (r *Report) add(t *Task) {
	r.tasks.Store(t.Path, t)
	if t.State == StateFailed && t.Err != nil {
		r.errs.WriteAccess(func(m *multierror.Error) {
			m.Errors = append(m.Errors, t.Err)
		})
	}
}

// Task returns the task recorded for a path.
func (r *Report) Task(path string) (*Task, bool) {
	return r.tasks.Load(path)
}

// Counts tallies the terminal states of the run.
func (r *Report) Counts() (annotated, skipped, failed int) {
	r.tasks.Range(func(_ string, t *Task) bool {
		switch t.State {
		case StateAnnotated:
			annotated++
		case StateSkipped:
			skipped++
		case StateFailed:
			failed++
		}
		return true
	})
	return annotated, skipped, failed
}

// Errs returns every per-file error of the run, in the order the caller
// supplied the offending paths. No error is dropped from the report.
func (r *Report) Errs() []error {
	var errs []error
	for _, path := range r.paths {
		if t, ok := r.tasks.Load(path); ok && t.State == StateFailed && t.Err != nil {
			errs = append(errs, t.Err)
		}
	}
	return errs
}

// Err returns the aggregate error of the run.
//
// In best-effort mode (strict == false) it is always nil: failures were
// reported via [Report.Errs] but do not fail the run, mirroring the
// best-effort policy of hook runners. In strict mode every per-file error is
// returned as one aggregate.
func (r *Report) Err(strict bool) error {
	if !strict {
		return nil
	}
	var err error
	r.errs.ReadAccess(func(m *multierror.Error) { err = m.ErrorOrNil() })
	return err
}
