// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package oprf implements the base mode of the Oblivious Pseudorandom Function (OPRF) from RFC 9497.
package oprf

import (
	"crypto"
	"errors"

	group "github.com/bytemare/crypto"
	"github.com/bytemare/hash"

	"github.com/ecliptix/ecliptix/internal/encoding"
	"github.com/ecliptix/ecliptix/internal/tag"
)

// mode distinguishes between the OPRF base mode and the Verifiable mode.
type mode byte

// base identifies the OPRF non-verifiable, base mode.
const base mode = iota

// maxDeriveKeyPairTries is the number of counter values tried before giving up on key derivation.
const maxDeriveKeyPairTries = 255

var (
	// ErrDeriveKeyPairError indicates key pair derivation failed.
	ErrDeriveKeyPairError = errors.New("key pair derivation failed")

	// ErrInvalidInput indicates the input maps to the identity element.
	ErrInvalidInput = errors.New("invalid OPRF input: maps to the identity element")

	// ErrInvalidSeed indicates the seed is not of the expected length.
	ErrInvalidSeed = errors.New("invalid OPRF seed length")

	// ErrZeroBlind indicates the blinding scalar is zero.
	ErrZeroBlind = errors.New("OPRF blind is zero")
)

// Identifier identifies the OPRF compatible cipher suite to be used.
type Identifier byte

// Ristretto255Sha512 is the OPRF cipher suite of the Ristretto255 group and SHA-512.
const Ristretto255Sha512 = Identifier(group.Ristretto255Sha512)

// SeedLength is the length of the seed used for key derivation.
const SeedLength = 32

var suiteToHash = map[Identifier]crypto.Hash{
	Ristretto255Sha512: crypto.SHA512,
}

var suiteToName = map[Identifier]string{
	Ristretto255Sha512: tag.OPRFRistretto255,
}

// Available returns whether the cipher suite is supported.
func (i Identifier) Available() bool {
	_, ok := suiteToName[i]
	return ok && i.Group().Available()
}

// Group returns the group of the cipher suite.
func (i Identifier) Group() group.Group {
	return group.Group(i)
}

// String returns the RFC identifier of the cipher suite.
func (i Identifier) String() string {
	return suiteToName[i]
}

func (i Identifier) contextString() []byte {
	return encoding.Concatenate(
		[]byte(tag.OPRFVersionPrefix),
		encoding.I2OSP(int(base), 1),
		[]byte("-"),
		[]byte(suiteToName[i]),
	)
}

func (i Identifier) dst(prefix string) []byte {
	return encoding.Concat([]byte(prefix), i.contextString())
}

// Client returns an OPRF client.
func (i Identifier) Client() *Client {
	return &Client{Identifier: i}
}

// DeriveKeyPair deterministically derives a private and public key pair from a 32-byte seed and info string.
func (i Identifier) DeriveKeyPair(seed, info []byte) (*group.Scalar, *group.Element, error) {
	if len(seed) != SeedLength {
		return nil, nil, ErrInvalidSeed
	}

	g := i.Group()
	dst := i.dst(tag.DeriveKeyPairInternal)
	deriveInput := encoding.Concat3(seed, encoding.I2OSP(len(info), 2), info)

	for counter := 0; counter <= maxDeriveKeyPairTries; counter++ {
		sk := g.HashToScalar(encoding.Concat(deriveInput, encoding.I2OSP(counter, 1)), dst)
		if !sk.IsZero() {
			return sk, g.Base().Multiply(sk), nil
		}
	}

	return nil, nil, ErrDeriveKeyPairError
}

// Evaluate evaluates the blinded element with the private key.
func (i Identifier) Evaluate(privateKey *group.Scalar, blindedElement *group.Element) *group.Element {
	return blindedElement.Copy().Multiply(privateKey)
}

func (i Identifier) hash(input ...[]byte) []byte {
	h := hash.FromCrypto(suiteToHash[i]).GetHashFunction()
	for _, in := range input {
		_, _ = h.Write(in)
	}

	return h.Sum(nil)
}
