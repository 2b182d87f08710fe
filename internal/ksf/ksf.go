// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ksf provides the Key Stretching Functions applied to the OPRF output.
package ksf

import (
	"errors"
	"fmt"

	"github.com/bytemare/ksf"
)

var (
	// ErrParameters indicates an invalid amount of KSF parameters.
	ErrParameters = errors.New("invalid number of KSF parameters")

	// ErrUnavailable indicates the requested KSF is not available.
	ErrUnavailable = errors.New("key stretching function is not available")

	// errNegativeLength indicates a negative output length.
	errNegativeLength = errors.New("the KSF output length must not be negative")
)

// Options holds optional parameters to tweak the KSF and provide a custom salt.
type Options struct {
	Salt       []byte
	Parameters []int
	Length     int
}

// NewOptions returns a new Options instance with the provided length.
func NewOptions(length int) *Options {
	return &Options{
		Salt:       nil,
		Parameters: nil,
		Length:     length,
	}
}

// KSF wraps a key stretching function and exposes its functions.
type KSF struct {
	stretcher
	options *Options
	id      ksf.Identifier
}

// NewKSF returns a newly instantiated KSF producing length bytes. The zero identifier yields the identity KSF.
func NewKSF(id ksf.Identifier, length int) (*KSF, error) {
	k := &KSF{
		id:      id,
		options: NewOptions(length),
	}

	if id == 0 {
		k.stretcher = &IdentityKSF{}
		return k, nil
	}

	if !id.Available() {
		return nil, fmt.Errorf("%w: %d", ErrUnavailable, id)
	}

	k.stretcher = id.Get()

	return k, nil
}

// Identifier returns the identifier of the underlying function, 0 for the identity KSF.
func (k *KSF) Identifier() ksf.Identifier {
	return k.id
}

// Set overrides the salt, parameters, and output length. Parameters, when given, must match the amount of canonical
// parameters, and a zero length keeps the current one.
func (k *KSF) Set(salt []byte, parameters []int, length int) error {
	if len(parameters) != 0 {
		if len(parameters) != len(k.Params()) {
			return fmt.Errorf("%w: expected %d, got %d",
				ErrParameters, len(k.Params()), len(parameters))
		}

		k.options.Parameters = parameters
		k.Parameterize(parameters...)
	}

	if length < 0 {
		return fmt.Errorf("%w: %d", errNegativeLength, length)
	}

	if length != 0 {
		k.options.Length = length
	}

	k.options.Salt = salt

	return nil
}

// Stretch applies the key stretching function to the input with the configured salt and length.
func (k *KSF) Stretch(input []byte) []byte {
	return k.Harden(input, k.options.Salt, k.options.Length)
}

type stretcher interface {
	// Harden uses default parameters for the key derivation function over the input password and salt.
	Harden(password, salt []byte, length int) []byte

	// Parameterize replaces the functions parameters with the new ones.
	// Must match the amount of parameters for the KSF.
	Parameterize(parameters ...int)

	// Params returns the list of internal parameters. If none were provided or modified,
	// the recommended defaults values are used.
	Params() []int
}

// IdentityKSF represents a KSF with no operations.
type IdentityKSF struct{}

// Harden returns the password as is.
func (i IdentityKSF) Harden(password, _ []byte, _ int) []byte {
	return password
}

// Parameterize applies KSF parameters if defined.
func (i IdentityKSF) Parameterize(_ ...int) {}

// Params returns nil, the identity KSF has none.
func (i IdentityKSF) Params() []int {
	return nil
}
