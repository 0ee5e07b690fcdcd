// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"bytes"
	"regexp"
	"strconv"
	"time"
)

// copyrightMarker introduces a structured, machine-readable copyright
// declaration line.
const copyrightMarker = "SPDX-FileCopyrightText:"

var (
	legacyMarkerRe = regexp.MustCompile(`(?i)copyright \(c\)`)
	yearRe         = regexp.MustCompile(`\b\d{4}\b`)
)

// ResolveYear determines the copyright year to annotate a file with.
//
// In priority order: the year of the first structured copyright line, the
// year of the first legacy "Copyright (c) YEAR" declaration, and finally the
// current calendar year. The result is deterministic given the file contents
// and now, and stable across re-runs on an already-annotated file.
//
// The year is the first four-digit number after the copyright marker on the
// matched line; numbers before the marker are ignored.
func ResolveYear(content []byte, now time.Time) int {
	lines := bytes.Split(content, []byte("\n"))

	for _, line := range lines {
		if i := bytes.Index(line, []byte(copyrightMarker)); i >= 0 {
			if y, ok := firstYear(line[i+len(copyrightMarker):]); ok {
				return y
			}
		}
	}

	for _, line := range lines {
		if loc := legacyMarkerRe.FindIndex(line); loc != nil {
			if y, ok := firstYear(line[loc[1]:]); ok {
				return y
			}
		}
	}

	return now.Year()
}

func firstYear(s []byte) (int, bool) {
	m := yearRe.Find(s)
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(string(m))
	if err != nil {
		return 0, false
	}
	return y, true
}
