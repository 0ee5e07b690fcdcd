// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

package header

import "bytes"

// StripConflicting removes structured copyright lines declaring a foreign
// holder.
//
// If content has at least one structured copyright line and none of them
// contains holder, every structured copyright line is removed and the second
// return value is true. If any structured line already mentions holder, or
// there are none, content is returned unchanged: merging multiple years for
// the same holder is the annotation tool's job.
//
// Without this step the tool would append a second copyright line next to
// the foreign one instead of replacing it.
func StripConflicting(content []byte, holder string) ([]byte, bool) {
	var found, hasHolder bool
	forEachLine(content, func(line []byte) {
		if !bytes.Contains(line, []byte(copyrightMarker)) {
			return
		}
		found = true
		if bytes.Contains(line, []byte(holder)) {
			hasHolder = true
		}
	})
	if !found || hasHolder {
		return content, false
	}
	return stripLines(content, func(line []byte) bool {
		return bytes.Contains(line, []byte(copyrightMarker))
	}), true
}

// forEachLine calls f for every line of content, without the line terminator.
func forEachLine(content []byte, f func(line []byte)) {
	for len(content) > 0 {
		i := bytes.IndexByte(content, '\n')
		if i < 0 {
			f(content)
			return
		}
		f(content[:i])
		content = content[i+1:]
	}
}

// stripLines returns content without the lines for which drop returns true.
// All other bytes, including line terminators, are preserved.
func stripLines(content []byte, drop func(line []byte) bool) []byte {
	out := make([]byte, 0, len(content))
	for len(content) > 0 {
		var line []byte
		if i := bytes.IndexByte(content, '\n'); i < 0 {
			line, content = content, nil
		} else {
			line, content = content[:i+1], content[i+1:]
		}
		if !drop(bytes.TrimSuffix(line, []byte("\n"))) {
			out = append(out, line...)
		}
	}
	return out
}
