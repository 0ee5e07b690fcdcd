// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

// Package header implements an idempotent license-header annotation pipeline.
//
// For every input path it resolves the copyright year from the file's
// existing declarations, removes structured copyright lines of foreign
// holders, and delegates the actual header insertion to a [Tool]. Each file
// is an independent unit of work: a failure is recorded in the run's
// [Report] and never aborts the processing of the remaining files.
package header

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/eclipse-opensovd/annotate/logger"
	"github.com/eclipse-opensovd/annotate/syncx"
)

// Annotator runs the annotation pipeline over a list of files.
type Annotator struct {
	// Policy is the copyright and license policy of the run.
	Policy Policy
	// Tool performs the header insertion.
	Tool Tool
	// Bundle provides header boilerplate templates. The policy's template
	// name is passed to the tool only when the bundle has it.
	Bundle *Bundle
	// Exclude lists path suffixes that are skipped without being touched.
	Exclude []string
	// Jobs bounds the number of files processed concurrently. Values below
	// one mean sequential processing in caller order.
	Jobs int
	// DryRun reports what would change without touching any file.
	DryRun bool
	// Progress, if set, is called before each task starts.
	Progress func(current, total int, path string)
	// Now returns the current time. Defaults to [time.Now].
	Now func() time.Time
}

// Run processes paths in the order supplied and returns the run's report.
//
// A path supplied more than once is processed a single time, at its first
// position; otherwise concurrent workers could rewrite the same file.
// Cancelling ctx stops the scheduling of new tasks; tasks already handed to
// the tool are allowed to finish so no file is left mid-rewrite. Run never
// fails as a whole: consult [Report.Err] for the aggregate outcome.
func (a *Annotator) Run(ctx context.Context, paths []string) *Report {
	paths = uniquePaths(paths)
	rep := newReport(paths)

	jobs := a.Jobs
	if jobs < 1 {
		jobs = 1
	}
	lwg := syncx.NewLimitedWaitGroup(jobs)

	for i, path := range paths {
		if ctx.Err() != nil {
			logger.Warn(ctx, "run canceled, not scheduling remaining files",
				slog.Int("remaining", len(paths)-i))
			break
		}
		if a.Progress != nil {
			a.Progress(i+1, len(paths), path)
		}
		task := &Task{Path: path}
		// With a single job this preserves caller order; lwg.Go blocks
		// until a worker slot frees up.
		lwg.Go(func() {
			a.process(ctx, task)
			rep.add(task)
		})
	}
	lwg.Wait()

	return rep
}

func (a *Annotator) process(ctx context.Context, task *Task) {
	if a.excluded(task.Path) {
		task.State = StateSkipped
		logger.Debug(ctx, "path excluded", slog.String("path", task.Path))
		return
	}

	content, err := readRegular(task.Path)
	if err != nil {
		task.fail(err)
		return
	}

	task.Year = ResolveYear(content, a.now())
	task.State = StateYearResolved
	task.Style, task.SkipUnrecognized = SelectStyle(task.Path)

	stripped, changed := StripConflicting(content, a.Policy.Holder)
	if changed {
		if a.DryRun {
			logger.Info(ctx, "would remove conflicting copyright lines",
				slog.String("path", task.Path))
		} else if err := writeInPlace(task.Path, stripped); err != nil {
			task.fail(fmt.Errorf("%w: %s: %v", ErrStripFailed, task.Path, err))
			return
		}
	}
	task.State = StateConflictsStripped

	req := Request{
		Path:             task.Path,
		Year:             task.Year,
		Holder:           a.Policy.Holder,
		License:          a.Policy.License,
		Template:         a.template(),
		Style:            task.Style,
		SkipUnrecognized: task.SkipUnrecognized,
		MergeCopyrights:  true,
	}

	if a.DryRun {
		logger.Info(ctx, "would annotate",
			slog.String("path", task.Path),
			slog.Int("year", task.Year),
			slog.String("style", task.Style.String()))
		task.State = StateAnnotated
		return
	}

	switch err := a.Tool.Annotate(ctx, req); {
	case err == nil:
		task.State = StateAnnotated
		logger.Debug(ctx, "annotated",
			slog.String("path", task.Path),
			slog.Int("year", task.Year))
	case errors.Is(err, ErrSkipped):
		task.State = StateSkipped
		logger.Debug(ctx, "skipped", slog.String("path", task.Path))
	default:
		task.fail(err)
	}
}

func (t *Task) fail(err error) {
	t.State = StateFailed
	t.Err = err
}

// template returns the policy's template name, or the empty string when no
// such template resource exists locally.
func (a *Annotator) template() string {
	if a.Bundle != nil && a.Bundle.Has(a.Policy.Template) {
		return a.Policy.Template
	}
	return ""
}

// uniquePaths drops repeated paths, keeping first positions.
func uniquePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	unique := paths[:0:0]
	for _, path := range paths {
		if seen[path] {
			continue
		}
		seen[path] = true
		unique = append(unique, path)
	}
	return unique
}

func (a *Annotator) excluded(path string) bool {
	for _, ex := range a.Exclude {
		if strings.HasSuffix(path, ex) {
			return true
		}
	}
	return false
}

func (a *Annotator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// readRegular reads path, rejecting anything that is not a regular file.
func readRegular(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileUnreadable, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s: not a regular file", ErrFileUnreadable, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileUnreadable, path, err)
	}
	return content, nil
}

// writeInPlace rewrites path preserving its permission bits.
func writeInPlace(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, info.Mode().Perm())
}
