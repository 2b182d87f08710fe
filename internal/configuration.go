// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal provides structures and functions to operate OPAQUE that are not part of the public API.
package internal

import (
	"crypto"
	"errors"

	group "github.com/bytemare/crypto"

	"github.com/ecliptix/ecliptix/internal/ksf"
	"github.com/ecliptix/ecliptix/internal/oprf"
)

// Configuration is the internal representation of the instance runtime parameters.
type Configuration struct {
	KDF          *KDF
	MAC          *Mac
	Hash         *Hash
	KSF          *ksf.KSF
	OPRF         oprf.Identifier
	Context      []byte
	NonceLen     int
	EnvelopeSize int
	Group        group.Group
}

// NewConfiguration returns the ristretto255-SHA512 configuration with the given key stretching function and context.
func NewConfiguration(stretch *ksf.KSF, context []byte) *Configuration {
	mac := NewMac(crypto.SHA512)

	return &Configuration{
		KDF:          NewKDF(crypto.SHA512),
		MAC:          mac,
		Hash:         NewHash(crypto.SHA512),
		KSF:          stretch,
		OPRF:         oprf.Ristretto255Sha512,
		Context:      context,
		NonceLen:     NonceLength,
		EnvelopeSize: NonceLength + mac.Size(),
		Group:        group.Ristretto255Sha512,
	}
}

// ElementLength returns the byte size of an encoded group element.
func (c *Configuration) ElementLength() int {
	return c.Group.ElementLength()
}

// RegistrationResponseLength returns the byte size of an encoded registration response.
func (c *Configuration) RegistrationResponseLength() int {
	return 2 * c.ElementLength()
}

// RegistrationRecordLength returns the byte size of an encoded registration record.
func (c *Configuration) RegistrationRecordLength() int {
	return c.ElementLength() + c.Hash.Size() + c.EnvelopeSize
}

// MaskedResponseLength returns the byte size of the masked server public key and envelope.
func (c *Configuration) MaskedResponseLength() int {
	return c.ElementLength() + c.EnvelopeSize
}

// KE1Length returns the byte size of an encoded KE1 message.
func (c *Configuration) KE1Length() int {
	return c.ElementLength() + c.NonceLen + c.ElementLength()
}

// KE2Length returns the byte size of an encoded KE2 message.
func (c *Configuration) KE2Length() int {
	return c.ElementLength() + c.NonceLen + c.MaskedResponseLength() + c.NonceLen + c.ElementLength() + c.MAC.Size()
}

// DecodeElement decodes the input as a non-identity group element.
func (c *Configuration) DecodeElement(input []byte) (*group.Element, error) {
	if len(input) != c.ElementLength() {
		return nil, ErrInvalidEncodingLength
	}

	e := c.Group.NewElement()
	if err := e.Decode(input); err != nil {
		return nil, errors.Join(ErrInvalidElement, err)
	}

	if e.IsIdentity() {
		return nil, ErrIdentityElement
	}

	return e, nil
}

// DecodeScalar decodes the input as a non-zero scalar.
func (c *Configuration) DecodeScalar(input []byte) (*group.Scalar, error) {
	if len(input) != c.Group.ScalarLength() {
		return nil, ErrInvalidEncodingLength
	}

	s := c.Group.NewScalar()
	if err := s.Decode(input); err != nil {
		return nil, errors.Join(ErrInvalidScalar, err)
	}

	if s.IsZero() {
		return nil, ErrScalarZero
	}

	return s, nil
}
