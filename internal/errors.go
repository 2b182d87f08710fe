// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import "errors"

var (
	// ErrInvalidEncodingLength indicates an encoding of unexpected length.
	ErrInvalidEncodingLength = errors.New("invalid encoding length")

	// ErrInvalidElement indicates that the input is not a valid encoding of a group element.
	ErrInvalidElement = errors.New("invalid group element encoding")

	// ErrIdentityElement indicates that the element is the group's identity element.
	ErrIdentityElement = errors.New("element is the identity element")

	// ErrInvalidScalar indicates that the input is not a valid encoding of a scalar.
	ErrInvalidScalar = errors.New("invalid scalar encoding")

	// ErrScalarZero indicates that the scalar is zero.
	ErrScalarZero = errors.New("scalar is zero")

	// ErrInvalidServerPublicKey indicates the server public key is invalid.
	ErrInvalidServerPublicKey = errors.New("invalid server public key")

	// ErrServerPublicKeyMismatch indicates the server public key in a message differs from the one the client is bound to.
	ErrServerPublicKeyMismatch = errors.New("server public key does not match the pinned key")

	// ErrInvalidEvaluatedMessage indicates the OPRF evaluation is not a valid group element.
	ErrInvalidEvaluatedMessage = errors.New("invalid OPRF evaluation")

	// ErrInvalidServerKeyShare indicates the server's ephemeral public key share is invalid.
	ErrInvalidServerKeyShare = errors.New("invalid ephemeral server public key")

	// ErrInvalidMessageLength indicates the message is of invalid length.
	ErrInvalidMessageLength = errors.New("invalid message length")

	// ErrEnvelopeInvalidMac indicates the envelope's authentication tag does not match.
	ErrEnvelopeInvalidMac = errors.New("invalid envelope authentication tag")

	// ErrServerAuthentication indicates the server's MAC did not verify.
	ErrServerAuthentication = errors.New("failed to authenticate server: invalid mac")

	// ErrInvalidOPRFBlind indicates the provided OPRF blind is invalid.
	ErrInvalidOPRFBlind = errors.New("invalid OPRF blind")

	// ErrInvalidNonceLength indicates the provided nonce is of invalid length.
	ErrInvalidNonceLength = errors.New("invalid nonce length")

	// ErrInvalidSeedLength indicates the provided seed is of invalid length.
	ErrInvalidSeedLength = errors.New("invalid seed length")

	// ErrStateConsumed indicates that the client state has already been used for a first protocol message.
	ErrStateConsumed = errors.New("client state already used: a state is valid for a single protocol flow")

	// ErrStateDestroyed indicates that the client state has been destroyed.
	ErrStateDestroyed = errors.New("client state has been destroyed")

	// ErrStateWrongPhase indicates that the client state is not in the phase required by the operation.
	ErrStateWrongPhase = errors.New("client state is not in the expected phase for this operation")
)
