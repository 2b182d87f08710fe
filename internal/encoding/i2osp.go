// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding

import (
	"encoding/binary"
	"errors"
)

var (
	errInputNegative = errors.New("negative input")
	errInputLarge    = errors.New("input is too high for length")
	errLengthRange   = errors.New("length must be between 1 and 4")
)

// I2OSP returns the big-endian encoding of value on length bytes, with length in [1, 4]. It panics if value does not
// fit.
func I2OSP(value int, length uint16) []byte {
	if length == 0 || length > 4 {
		panic(errLengthRange)
	}

	if value < 0 {
		panic(errInputNegative)
	}

	if uint64(value) >= 1<<(8*uint64(length)) {
		panic(errInputLarge)
	}

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(value))

	return append([]byte(nil), buf[4-length:]...)
}
