// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package encoding provides encoding utilities.
package encoding

import (
	"errors"
)

// ErrI2OSPLength is returned when the requested length prefix size is not supported.
var ErrI2OSPLength = errors.New("requested size is too big")

// EncodeVectorLen returns the input prepended with a byte encoding of its length.
func EncodeVectorLen(in []byte, length uint16) []byte {
	switch length {
	case 1, 2:
		return append(I2OSP(len(in), length), in...)
	default:
		panic(ErrI2OSPLength)
	}
}

// EncodeVector returns the input with a two-byte encoding of its length.
func EncodeVector(in []byte) []byte {
	return EncodeVectorLen(in, 2)
}
