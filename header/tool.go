// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package header

import "context"

// Request is one annotation order handed to a [Tool].
type Request struct {
	// Path of the file to annotate.
	Path string
	// Year to declare in the copyright line.
	Year int
	// Holder of the copyright.
	Holder string
	// License is the SPDX license identifier.
	License string
	// Template names the header boilerplate, or is empty when no template
	// resource exists.
	Template string
	// Style forces a comment style, or is StyleAuto.
	Style Style
	// SkipUnrecognized makes the tool leave files of unknown type untouched.
	SkipUnrecognized bool
	// MergeCopyrights makes the tool merge copyright entries for the same
	// holder across multiple years instead of duplicating them.
	MergeCopyrights bool
}

// Tool adds or updates a license header block matching the request.
//
// Implementations must be idempotent: annotating a file whose header already
// matches the request must leave it byte-identical. A tool that skips a file
// of unrecognized type returns an error wrapping [ErrSkipped]. Tools may be
// called from multiple goroutines for distinct paths.
type Tool interface {
	Annotate(ctx context.Context, req Request) error
}
