// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ecliptix

import (
	group "github.com/bytemare/crypto"

	"github.com/ecliptix/ecliptix/internal"
	"github.com/ecliptix/ecliptix/internal/ake"
)

// ClientStateOptions override the secure default values or internally generated values of a ClientState.
// Only use this if you know what you're doing. Reusing blinds, seeds, and nonces across sessions is a security risk,
// and breaks forward secrecy.
type ClientStateOptions struct {
	// OPRFBlind is the scalar blinding the password.
	OPRFBlind *group.Scalar

	// AKE holds the key exchange's ephemeral values.
	AKE *AKEOptions

	// EnvelopeNonce is the nonce used to seal the envelope at registration.
	EnvelopeNonce []byte
}

// AKEOptions override the key exchange's ephemeral values. SecretKeyShare takes precedence over SecretKeyShareSeed.
type AKEOptions struct {
	SecretKeyShare     *group.Scalar
	SecretKeyShareSeed []byte
	Nonce              []byte
}

type clientStateOptions struct {
	blind          *group.Scalar
	secretKeyShare *group.Scalar
	nonce          []byte
	envelopeNonce  []byte
}

func copyBytes(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)

	return out
}

func isValidScalar(s *group.Scalar) error {
	if s == nil {
		return internal.ErrInvalidScalar
	}

	if s.IsZero() {
		return internal.ErrScalarZero
	}

	return nil
}

func newNonce(in []byte) ([]byte, error) {
	if len(in) == 0 {
		return internal.RandomBytes(internal.NonceLength), nil
	}

	if len(in) != internal.NonceLength {
		return nil, internal.ErrInvalidNonceLength
	}

	return copyBytes(in), nil
}

func (a *AKEOptions) getSecretKeyShare(conf *internal.Configuration) (*group.Scalar, error) {
	if a != nil && a.SecretKeyShare != nil {
		if err := isValidScalar(a.SecretKeyShare); err != nil {
			return nil, err
		}

		return a.SecretKeyShare.Copy(), nil
	}

	var seed []byte

	if a != nil && len(a.SecretKeyShareSeed) != 0 {
		if len(a.SecretKeyShareSeed) != internal.SeedLength {
			return nil, internal.ErrInvalidSeedLength
		}

		seed = a.SecretKeyShareSeed
	} else {
		seed = internal.RandomBytes(internal.SeedLength)
	}

	sk, _, err := ake.KeyGen(conf, seed)
	if err != nil {
		return nil, err
	}

	return sk, nil
}

func parseClientStateOptions(conf *internal.Configuration, options []*ClientStateOptions) (*clientStateOptions, error) {
	var in *ClientStateOptions
	if len(options) != 0 && options[0] != nil {
		in = options[0]
	} else {
		in = &ClientStateOptions{}
	}

	o := &clientStateOptions{}

	// OPRF blind.
	if in.OPRFBlind != nil {
		if err := isValidScalar(in.OPRFBlind); err != nil {
			return nil, ErrClientState.Join(internal.ErrInvalidOPRFBlind, err)
		}

		o.blind = in.OPRFBlind.Copy()
	} else {
		o.blind = conf.Group.NewScalar().Random()
	}

	// Envelope nonce.
	var err error

	if o.envelopeNonce, err = newNonce(in.EnvelopeNonce); err != nil {
		return nil, ErrClientState.Join(err)
	}

	// AKE nonce.
	var akeNonce []byte
	if in.AKE != nil {
		akeNonce = in.AKE.Nonce
	}

	if o.nonce, err = newNonce(akeNonce); err != nil {
		return nil, ErrClientState.Join(err)
	}

	// Ephemeral secret key share.
	if o.secretKeyShare, err = in.AKE.getSecretKeyShare(conf); err != nil {
		return nil, ErrClientState.Join(err)
	}

	return o, nil
}
