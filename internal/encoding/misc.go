// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding

// Concatenate returns a fresh slice holding the inputs in order.
func Concatenate(input ...[]byte) []byte {
	size := 0
	for _, in := range input {
		size += len(in)
	}

	out := make([]byte, 0, size)
	for _, in := range input {
		out = append(out, in...)
	}

	return out
}

// Concat returns a || b.
func Concat(a, b []byte) []byte {
	return Concatenate(a, b)
}

// Concat3 returns a || b || c.
func Concat3(a, b, c []byte) []byte {
	return Concatenate(a, b, c)
}

// SuffixString returns a || label.
func SuffixString(a []byte, label string) []byte {
	return Concatenate(a, []byte(label))
}
