// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package header

import "errors"

// Sentinel errors scoped to a single task. None of them aborts a run; they
// are collected in the run's [Report].
var (
	// ErrFileUnreadable indicates the path does not exist, is not a regular
	// file, or cannot be opened.
	ErrFileUnreadable = errors.New("file unreadable")

	// ErrStripFailed indicates the in-place removal of conflicting copyright
	// lines could not be written back.
	ErrStripFailed = errors.New("conflict strip failed")

	// ErrToolFailed indicates the annotation tool reported a failure for
	// the file.
	ErrToolFailed = errors.New("annotation tool failed")

	// ErrSkipped is returned by a [Tool] that left a file of unrecognized
	// type untouched. It is not a failure.
	ErrSkipped = errors.New("unrecognized file type, skipped")
)
