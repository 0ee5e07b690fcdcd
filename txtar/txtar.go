// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

// Package txtar implements a trivial text-based file archive format.
//
// The format is line-oriented: an optional comment is followed by a sequence
// of file entries, each introduced by a "-- name --" marker line. The format
// stores only file names and contents, which makes archives diffable and easy
// to write by hand. It is used for the template bundle and for test fixtures.
//
// The format imposes two limitations: names and contents holding marker-like
// lines cannot be stored, and contents not ending in a newline gain one when
// round-tripped.
package txtar

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Archive is a collection of files.
type Archive struct {
	Comment []byte
	Files   []File
}

// File is a single file in an archive.
type File struct {
	Name string // name of file
	Data []byte // text content of file
}

// Format returns the serialized form of an Archive.
// It is assumed that the Archive data structure is well-formed:
// all file names are non-empty and no file data contains a marker line.
func Format(a *Archive) []byte {
	var buf bytes.Buffer
	buf.Write(fixNL(a.Comment))
	for _, f := range a.Files {
		fmt.Fprintf(&buf, "-- %s --\n", f.Name)
		buf.Write(fixNL(f.Data))
	}
	return buf.Bytes()
}

// ParseFile parses the named file as an archive.
func ParseFile(file string) (*Archive, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Parse(data), nil
}

// Parse parses the serialized form of an Archive.
// The returned Archive holds slices of data, so modifying data
// after calling Parse is undefined behavior.
func Parse(data []byte) *Archive {
	a := &Archive{Files: []File{}}
	var name string
	a.Comment, name, data = findFileMarker(data)
	for name != "" {
		f := File{Name: name}
		f.Data, name, data = findFileMarker(data)
		a.Files = append(a.Files, f)
	}
	return a
}

var (
	newlineMarker = []byte("\n-- ")
	marker        = []byte("-- ")
	markerEnd     = []byte(" --")
)

// findFileMarker finds the next file marker in data,
// extracts the file name, and returns the data before the marker,
// the file name, and the data after the marker line.
// If there is no next marker, findFileMarker returns before = fixNL(data), name = "", after = nil.
func findFileMarker(data []byte) (before []byte, name string, after []byte) {
	var i int
	for {
		if name, after = markerLine(data[i:]); name != "" {
			return data[:i], name, after
		}
		j := bytes.Index(data[i:], newlineMarker)
		if j < 0 {
			return fixNL(data), "", nil
		}
		i += j + 1 // positioned at start of new possible marker
	}
}

// markerLine checks whether data begins with a file marker line.
// If so, it returns the name from the line and the data after the line.
// Otherwise it returns name == "" with an unspecified after.
func markerLine(data []byte) (name string, after []byte) {
	if !bytes.HasPrefix(data, marker) {
		return "", nil
	}
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		i = len(data)
	} else {
		after = data[i+1:]
	}
	line := bytes.TrimRight(data[:i], " \t\r")
	if !bytes.HasSuffix(line, markerEnd) {
		return "", nil
	}
	name = strings.TrimSpace(string(line[len(marker) : len(line)-len(markerEnd)]))
	if name == "" {
		return "", nil
	}
	return name, after
}

// fixNL returns data with a final newline added, if needed.
func fixNL(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] == '\n' {
		return data
	}
	d := make([]byte, len(data)+1)
	copy(d, data)
	d[len(data)] = '\n'
	return d
}

// Extract writes the files of an archive into the directory dir,
// creating intermediate directories as needed. File names inside the
// archive must be slash-separated relative paths that stay within dir.
func Extract(a *Archive, dir string) error {
	for _, f := range a.Files {
		name := filepath.Clean(filepath.FromSlash(f.Name))
		if name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
			return fmt.Errorf("txtar: file name %q escapes the target directory", f.Name)
		}
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// FromDir builds an archive from the contents of the directory dir.
// File names in the archive are slash-separated paths relative to dir,
// in lexical walk order.
func FromDir(dir string) (*Archive, error) {
	a := new(Archive)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		a.Files = append(a.Files, File{Name: filepath.ToSlash(rel), Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
