// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	cryptorand "crypto/rand"
	"fmt"

	group "github.com/bytemare/crypto"
)

const (
	// NonceLength is the default length used for nonces.
	NonceLength = 32

	// SeedLength is the default length used for seeds.
	SeedLength = 32
)

// RandomBytes returns random bytes of length len (wrapper for crypto/rand).
func RandomBytes(length int) []byte {
	r := make([]byte, length)
	if _, err := cryptorand.Read(r); err != nil {
		// We can as well not panic and try again in a loop
		panic(fmt.Errorf("unexpected error in generating random bytes : %w", err))
	}

	return r
}

// Xor returns a new byte slice containing the byte-by-byte xor-ing of the in-place arrays a and b.
func Xor(a, b []byte) []byte {
	if len(a) != len(b) {
		panic("xoring slices must be of same length")
	}

	dst := make([]byte, len(a))

	for i := range a {
		dst[i] = a[i] ^ b[i]
	}

	return dst
}

// ClearScalar attempts to zero out the scalar and sets the reference to nil.
func ClearScalar(s **group.Scalar) {
	if s == nil || *s == nil {
		return
	}

	(*s).Zero()
	*s = nil
}

// ClearSlice attempts to zero out the slice's contents and sets the reference to nil.
func ClearSlice(b *[]byte) {
	if b == nil || *b == nil {
		return
	}

	clear(*b)
	*b = nil
}
