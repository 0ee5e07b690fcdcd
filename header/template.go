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
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/eclipse-opensovd/annotate/txtar"
)

// BundlePath is the default location of the template bundle.
const BundlePath = ".annotate.txtar"

// Bundle holds the header boilerplate templates, loaded from a txtar archive
// with entries named "templates/<name>.tmpl". The bundle is read once per
// run and is read-only afterwards.
type Bundle struct {
	templates map[string]*template.Template
}

// LoadBundle reads a template bundle from path. A missing bundle file is not
// an error and yields an empty bundle.
func LoadBundle(path string) (*Bundle, error) {
	b := &Bundle{templates: map[string]*template.Template{}}

	ar, err := txtar.ParseFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, err
	}

	for _, f := range ar.Files {
		dir, file := filepath.Split(f.Name)
		if dir != "templates/" || filepath.Ext(file) != ".tmpl" {
			continue
		}
		name := strings.TrimSuffix(file, ".tmpl")
		tmpl, err := template.New(name).Parse(string(f.Data))
		if err != nil {
			return nil, fmt.Errorf("parsing template %q: %w", f.Name, err)
		}
		b.templates[name] = tmpl
	}

	return b, nil
}

// Has reports whether a template resource of that name exists.
func (b *Bundle) Has(name string) bool {
	_, ok := b.templates[name]
	return ok
}

// headerData is what templates are rendered with.
type headerData struct {
	Year    int
	Holder  string
	License string
}

// render returns the template's boilerplate lines. An empty name renders to
// no lines.
func (b *Bundle) render(name string, data headerData) ([]string, error) {
	if name == "" {
		return nil, nil
	}
	tmpl, ok := b.templates[name]
	if !ok {
		return nil, fmt.Errorf("no template named %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), nil
}

// licenseMarker introduces a structured license declaration line.
const licenseMarker = "SPDX-License-Identifier:"

// TemplateTool is the built-in annotation tool. It prepends a header block
// composed from the policy and an optional boilerplate template, and leaves
// already-annotated files byte-identical.
type TemplateTool struct {
	// Bundle provides the boilerplate templates. If nil, headers carry no
	// boilerplate.
	Bundle *Bundle
}

// Annotate implements [Tool].
func (t *TemplateTool) Annotate(ctx context.Context, req Request) error {
	info, err := os.Stat(req.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileUnreadable, req.Path, err)
	}
	content, err := os.ReadFile(req.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileUnreadable, req.Path, err)
	}

	cs, ok := commentStyleFor(req)
	if !ok {
		if req.SkipUnrecognized {
			return fmt.Errorf("%s: %w", req.Path, ErrSkipped)
		}
		return fmt.Errorf("%w: %s: no comment style for this file type", ErrToolFailed, req.Path)
	}

	out, changed := t.apply(content, cs, req)
	if !changed {
		return nil
	}
	if err := os.WriteFile(req.Path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolFailed, req.Path, err)
	}
	return nil
}

// apply computes the annotated form of content. The second return value is
// false when the file already matches the request.
func (t *TemplateTool) apply(content []byte, cs commentStyle, req Request) ([]byte, bool) {
	var (
		holderLine  []byte
		hasLicense  bool
		licenseDecl = fmt.Sprintf("%s %s", licenseMarker, req.License)
	)
	forEachLine(content, func(line []byte) {
		if bytes.Contains(line, []byte(copyrightMarker)) && bytes.Contains(line, []byte(req.Holder)) && holderLine == nil {
			holderLine = line
		}
		if bytes.Contains(line, []byte(licenseDecl)) {
			hasLicense = true
		}
	})

	if holderLine != nil && hasLicense {
		// Header already matches.
		return content, false
	}

	if holderLine != nil && req.MergeCopyrights {
		// The holder is declared but the license line is missing: complete
		// the existing header instead of writing a second one.
		return insertLicenseLine(content, holderLine, licenseDecl), true
	}

	block := t.headerBlock(cs, req)
	i := prologueEnd(content)
	out := make([]byte, 0, len(content)+len(block)+1)
	out = append(out, content[:i]...)
	if i > 0 && content[i-1] != '\n' {
		// The prologue line has no terminator; without one the header
		// would be glued onto it.
		out = append(out, '\n')
	}
	out = append(out, block...)
	out = append(out, content[i:]...)
	return out, true
}

// headerBlock renders the full header comment, including a trailing blank
// line separating it from the file body.
func (t *TemplateTool) headerBlock(cs commentStyle, req Request) []byte {
	lines := []string{fmt.Sprintf("%s %d %s", copyrightMarker, req.Year, req.Holder)}
	if t.Bundle != nil {
		if body, err := t.Bundle.render(req.Template, headerData{Year: req.Year, Holder: req.Holder, License: req.License}); err == nil && len(body) > 0 {
			lines = append(lines, "")
			lines = append(lines, body...)
		}
	}
	lines = append(lines, "", fmt.Sprintf("%s %s", licenseMarker, req.License))

	var buf bytes.Buffer
	if cs.open != "" {
		buf.WriteString(cs.open + "\n")
	}
	for _, line := range lines {
		buf.WriteString(strings.TrimRight(cs.prefix+line, " ") + "\n")
	}
	if cs.close != "" {
		buf.WriteString(cs.close + "\n")
	}
	buf.WriteString("\n")
	return buf.Bytes()
}

// insertLicenseLine adds a license declaration right after the existing
// copyright line, reusing its comment prefix.
func insertLicenseLine(content, holderLine []byte, licenseDecl string) []byte {
	prefix := holderLine[:bytes.Index(holderLine, []byte(copyrightMarker))]
	insert := append([]byte{}, prefix...)
	insert = append(insert, []byte(licenseDecl+"\n")...)

	i := bytes.Index(content, holderLine)
	end := i + len(holderLine)
	if end < len(content) && content[end] == '\n' {
		end++
	}
	out := make([]byte, 0, len(content)+len(insert))
	out = append(out, content[:end]...)
	out = append(out, insert...)
	out = append(out, content[end:]...)
	return out
}

// prologueEnd returns the offset at which a header block may be inserted.
// Shebang lines and XML declarations must stay the first line of the file.
func prologueEnd(content []byte) int {
	if bytes.HasPrefix(content, []byte("#!")) || bytes.HasPrefix(content, []byte("<?xml")) {
		if i := bytes.IndexByte(content, '\n'); i >= 0 {
			return i + 1
		}
		return len(content)
	}
	return 0
}

// commentStyle describes how header lines are wrapped into comments.
type commentStyle struct {
	open   string // block opener, empty for line comments
	prefix string // per-line prefix
	close  string // block closer, empty for line comments
}

var (
	lineC    = commentStyle{prefix: "// "}
	lineHash = commentStyle{prefix: "# "}
	blockXML = commentStyle{open: "<!--", close: "-->"}
)

// autoStyles maps file suffixes to comment styles for files the style
// selection left on auto.
var autoStyles = map[string]commentStyle{
	".py":    lineHash,
	".sh":    lineHash,
	".bash":  lineHash,
	".yml":   lineHash,
	".yaml":  lineHash,
	".toml":  lineHash,
	".proto": lineC,
	".js":    lineC,
	".ts":    lineC,
	".xml":   blockXML,
	".html":  blockXML,
	".svg":   blockXML,
	".md":    blockXML,
}

func commentStyleFor(req Request) (commentStyle, bool) {
	switch req.Style {
	case StyleC:
		return lineC, true
	case StyleHTML:
		return blockXML, true
	}
	cs, ok := autoStyles[strings.ToLower(filepath.Ext(req.Path))]
	return cs, ok
}
