// Copyright (c) 2025 The Contributors to Eclipse OpenSOVD (see CONTRIBUTORS)
//
// This program and the accompanying materials are made available under the
// terms of the Apache License Version 2.0 which is available at
// https://www.apache.org/licenses/LICENSE-2.0
//
// SPDX-License-Identifier: Apache-2.0

// Package unwrap provides helper functions to panic on non-nil errors.
package unwrap

// Value unwraps and returns val if err is nil.
// It panics if err is not nil.
func Value[T any](val T, err error) T {
	NoError(err)
	return val
}

// NoError panics if err is not nil.
func NoError(err error) {
	if err != nil {
		panic(err)
	}
}
