// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package masking provides the credential masking mechanism.
package masking

import (
	group "github.com/bytemare/crypto"

	"github.com/ecliptix/ecliptix/internal"
	"github.com/ecliptix/ecliptix/internal/encoding"
	"github.com/ecliptix/ecliptix/internal/keyrecovery"
	"github.com/ecliptix/ecliptix/internal/tag"
)

// MaskingKey derives the masking key from the randomized password.
func MaskingKey(conf *internal.Configuration, randomizedPassword []byte) []byte {
	return conf.KDF.Expand(randomizedPassword, []byte(tag.MaskingKey), conf.Hash.Size())
}

func xorResponse(conf *internal.Configuration, maskingKey, nonce, in []byte) []byte {
	pad := conf.KDF.Expand(
		maskingKey,
		encoding.SuffixString(nonce, tag.CredentialResponsePad),
		conf.MaskedResponseLength(),
	)

	return internal.Xor(pad, in)
}

// Mask encrypts the serverPublicKey and the envelope under nonceIn and the maskingKey. A random nonce is drawn if
// nonceIn is empty.
func Mask(
	conf *internal.Configuration,
	nonceIn, maskingKey, serverPublicKey, envelope []byte,
) (nonce, maskedResponse []byte) {
	nonce = nonceIn
	if len(nonce) == 0 {
		nonce = internal.RandomBytes(conf.NonceLen)
	}

	clear := encoding.Concat(serverPublicKey, envelope)
	maskedResponse = xorResponse(conf, maskingKey, nonce, clear)

	return nonce, maskedResponse
}

// Unmask decrypts the maskedResponse and returns the server's public key and the envelope on success.
func Unmask(
	conf *internal.Configuration,
	randomizedPassword, nonce, maskedResponse []byte,
) (serverPublicKey *group.Element, serverPublicKeyBytes []byte, envelope *keyrecovery.Envelope, err error) {
	if len(maskedResponse) != conf.MaskedResponseLength() {
		return nil, nil, nil, internal.ErrInvalidMessageLength
	}

	clear := xorResponse(conf, MaskingKey(conf, randomizedPassword), nonce, maskedResponse)
	serverPublicKeyBytes = clear[:conf.ElementLength()]

	envelope, err = keyrecovery.Deserialize(conf, clear[conf.ElementLength():])
	if err != nil {
		return nil, nil, nil, err
	}

	serverPublicKey, err = conf.DecodeElement(serverPublicKeyBytes)
	if err != nil {
		return nil, nil, nil, internal.ErrInvalidServerPublicKey
	}

	return serverPublicKey, serverPublicKeyBytes, envelope, nil
}
