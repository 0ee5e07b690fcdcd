// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

// Package version reports information about the running binary, derived
// from the build info embedded by the Go toolchain.
package version

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/eclipse-opensovd/annotate/syncx"
)

// CmdName returns the base name of the running binary.
func CmdName() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return strings.TrimSuffix(filepath.Base(exe), ".exe")
}

// Info describes the running binary.
type Info struct {
	// Name is the binary name.
	Name string
	// Version is the module version, or "devel" for untagged builds.
	Version string
	// Commit is the VCS revision the binary was built from, if recorded.
	Commit string
	// GoVersion is the version of the Go toolchain that built the binary.
	GoVersion string
}

// String implements [fmt.Stringer].
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", i.Name, i.Version)
	if i.Commit != "" {
		fmt.Fprintf(&sb, " (%s)", i.Commit)
	}
	fmt.Fprintf(&sb, " built with %s\n", i.GoVersion)
	return sb.String()
}

var info syncx.Lazy[Info]

// Version returns information about the running binary.
func Version() Info {
	return info.Get(func() Info {
		i := Info{
			Name:      CmdName(),
			Version:   "devel",
			GoVersion: runtime.Version(),
		}
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return i
		}
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			i.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 8 {
				i.Commit = s.Value[:8]
			}
		}
		return i
	})
}
