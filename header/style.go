// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package header

import "strings"

// Style is the comment style a header is written in.
type Style int

const (
	// StyleAuto lets the annotation tool pick a style from the file type.
	StyleAuto Style = iota
	// StyleC forces C-family line comments.
	StyleC
	// StyleHTML forces HTML-style block comments.
	StyleHTML
)

// String returns the style's flag value as understood by reuse-style tools.
func (s Style) String() string {
	switch s {
	case StyleC:
		return "c"
	case StyleHTML:
		return "html"
	}
	return "auto"
}

// cFamilySuffixes are source suffixes annotated with C-family line comments.
var cFamilySuffixes = []string{
	".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hh",
	".rs", ".go",
	".java", ".kt", ".kts",
}

// odxSuffixes are ODX/PDX diagnostic data files. They are XML underneath,
// so headers go into HTML-style block comments.
var odxSuffixes = []string{
	".odx", ".odx-c", ".odx-cs", ".odx-d", ".odx-e", ".odx-f", ".odx-fd", ".odx-v",
	".pdx",
}

// SelectStyle picks the comment style for a path based on its suffix.
//
// C-family and JVM-family sources force line comments, ODX/PDX diagnostic
// data forces HTML block comments; both disable skipping of unrecognized
// file types. Every other suffix gets no forced style and is skipped by the
// tool when it does not recognize the type, rather than erroring.
func SelectStyle(path string) (style Style, skipUnrecognized bool) {
	lower := strings.ToLower(path)
	for _, s := range cFamilySuffixes {
		if strings.HasSuffix(lower, s) {
			return StyleC, false
		}
	}
	for _, s := range odxSuffixes {
		if strings.HasSuffix(lower, s) {
			return StyleHTML, false
		}
	}
	return StyleAuto, true
}
