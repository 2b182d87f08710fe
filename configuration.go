// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ecliptix

import (
	"crypto"
	"errors"
	"fmt"

	"github.com/bytemare/ksf"

	"github.com/ecliptix/ecliptix/internal"
	internalKSF "github.com/ecliptix/ecliptix/internal/ksf"
)

const (
	// ServerPublicKeyLength is the byte length of an encoded OPAQUE server public key.
	ServerPublicKeyLength = 32

	// NonceLength is the byte length of the nonces used in the protocol.
	NonceLength = internal.NonceLength

	// RegistrationRequestLength is the byte length of a serialized RegistrationRequest.
	RegistrationRequestLength = 32

	// RegistrationResponseLength is the byte length of a serialized RegistrationResponse.
	RegistrationResponseLength = 64

	// RegistrationRecordLength is the byte length of a serialized RegistrationRecord.
	RegistrationRecordLength = 192

	// KE1Length is the byte length of a serialized KE1 message.
	KE1Length = 96

	// KE2Length is the byte length of a serialized KE2 message.
	KE2Length = 320

	// KE3Length is the byte length of a serialized KE3 message.
	KE3Length = 64

	// ksfOutputLength is the output length of the key stretching function.
	ksfOutputLength = 32
)

var (
	errInvalidKSFid    = errors.New("invalid key stretching function identifier")
	errInvalidOAEPHash = errors.New("invalid or unavailable OAEP hash function")
)

// Configuration holds the runtime parameters of the module. The OPAQUE suite is fixed to ristretto255-SHA512.
type Configuration struct {
	// Context is the OPAQUE application context bound into the key exchange.
	Context []byte `json:"context"`

	// KSF is the key stretching function applied to the OPRF output. 0 is the identity function.
	KSF ksf.Identifier `json:"ksf"`

	// KSFSalt is the salt given to the key stretching function. It defaults to nil.
	KSFSalt []byte `json:"ksfSalt,omitempty"`

	// KSFParameters replace the key stretching function's default parameters. When set, their count must match the
	// function's.
	KSFParameters []int `json:"ksfParameters,omitempty"`

	// KSFLength is the output length of the key stretching function. 0 selects the default of 32 bytes.
	KSFLength int `json:"ksfLength,omitempty"`

	// OAEPHash is the hash function used by RSA-OAEP and its MGF1.
	OAEPHash crypto.Hash `json:"oaep"`
}

// DefaultConfiguration returns a default configuration with strong parameters.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Context:  nil,
		KSF:      ksf.Argon2id,
		OAEPHash: crypto.SHA256,
	}
}

func (c *Configuration) verify() error {
	if c.KSF != 0 && !c.KSF.Available() {
		return ErrConfiguration.Join(fmt.Errorf("%w: %d", errInvalidKSFid, c.KSF))
	}

	if !c.OAEPHash.Available() {
		return ErrConfiguration.Join(fmt.Errorf("%w: %d", errInvalidOAEPHash, c.OAEPHash))
	}

	return nil
}

func (c *Configuration) toInternal() (*internal.Configuration, error) {
	if err := c.verify(); err != nil {
		return nil, err
	}

	stretch, err := internalKSF.NewKSF(c.KSF, ksfOutputLength)
	if err != nil {
		return nil, ErrConfiguration.Join(err)
	}

	if err = stretch.Set(c.KSFSalt, c.KSFParameters, c.KSFLength); err != nil {
		return nil, ErrConfiguration.Join(err)
	}

	return internal.NewConfiguration(stretch, c.Context), nil
}
