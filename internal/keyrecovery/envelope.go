// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package keyrecovery provides utility functions and structures allowing credential management.
package keyrecovery

import (
	"errors"

	group "github.com/bytemare/crypto"

	"github.com/ecliptix/ecliptix/internal"
	"github.com/ecliptix/ecliptix/internal/encoding"
	"github.com/ecliptix/ecliptix/internal/tag"
)

var errInvalidEnvelopeLength = errors.New("invalid envelope length")

// Credentials holds the optional identities bound into the envelope. Nil identities default to the public keys.
type Credentials struct {
	ClientIdentity, ServerIdentity []byte
}

// Envelope represents the OPAQUE envelope.
type Envelope struct {
	Nonce   []byte
	AuthTag []byte
}

// Serialize returns the byte serialization of the envelope.
func (e *Envelope) Serialize() []byte {
	return encoding.Concat(e.Nonce, e.AuthTag)
}

// Deserialize decodes the input into an envelope.
func Deserialize(conf *internal.Configuration, input []byte) (*Envelope, error) {
	if len(input) != conf.EnvelopeSize {
		return nil, errInvalidEnvelopeLength
	}

	return &Envelope{
		Nonce:   input[:conf.NonceLen],
		AuthTag: input[conf.NonceLen:],
	}, nil
}

func exportKey(conf *internal.Configuration, randomizedPassword, nonce []byte) []byte {
	return conf.KDF.Expand(randomizedPassword, encoding.SuffixString(nonce, tag.ExportKey), conf.KDF.Size())
}

func authTag(conf *internal.Configuration, randomizedPassword, nonce, ctc []byte) []byte {
	authKey := conf.KDF.Expand(randomizedPassword, encoding.SuffixString(nonce, tag.AuthKey), conf.KDF.Size())
	return conf.MAC.MAC(authKey, encoding.Concat(nonce, ctc))
}

// cleartextCredentials assumes that clientPublicKey, serverPublicKey are non-nil valid group elements.
func cleartextCredentials(clientPublicKey, serverPublicKey []byte, creds *Credentials) []byte {
	clientIdentity, serverIdentity := clientPublicKey, serverPublicKey

	if creds != nil {
		if creds.ClientIdentity != nil {
			clientIdentity = creds.ClientIdentity
		}

		if creds.ServerIdentity != nil {
			serverIdentity = creds.ServerIdentity
		}
	}

	return encoding.Concat3(
		serverPublicKey,
		encoding.EncodeVector(serverIdentity),
		encoding.EncodeVector(clientIdentity),
	)
}

func deriveDiffieHellmanKeyPair(
	conf *internal.Configuration,
	randomizedPassword, nonce []byte,
) (*group.Scalar, *group.Element, error) {
	seed := conf.KDF.Expand(randomizedPassword, encoding.SuffixString(nonce, tag.ExpandPrivateKey), internal.SeedLength)
	return conf.OPRF.DeriveKeyPair(seed, []byte(tag.DeriveDiffieHellmanKeyPair))
}

// Store returns the client's Envelope, its public key, and the additional export key.
func Store(
	conf *internal.Configuration,
	randomizedPassword, serverPublicKey, nonce []byte,
	creds *Credentials,
) (env *Envelope, pku *group.Element, export []byte, err error) {
	if len(nonce) != conf.NonceLen {
		return nil, nil, nil, internal.ErrInvalidNonceLength
	}

	_, pku, err = deriveDiffieHellmanKeyPair(conf, randomizedPassword, nonce)
	if err != nil {
		return nil, nil, nil, err
	}

	ctc := cleartextCredentials(pku.Encode(), serverPublicKey, creds)

	env = &Envelope{
		Nonce:   nonce,
		AuthTag: authTag(conf, randomizedPassword, nonce, ctc),
	}

	return env, pku, exportKey(conf, randomizedPassword, nonce), nil
}

// Recover returns the client's private and public key, as well as the secret export key.
func Recover(
	conf *internal.Configuration,
	randomizedPassword, serverPublicKey []byte,
	envelope *Envelope,
	creds *Credentials,
) (clientSecretKey *group.Scalar, clientPublicKey *group.Element, export []byte, err error) {
	clientSecretKey, clientPublicKey, err = deriveDiffieHellmanKeyPair(conf, randomizedPassword, envelope.Nonce)
	if err != nil {
		return nil, nil, nil, err
	}

	ctc := cleartextCredentials(clientPublicKey.Encode(), serverPublicKey, creds)

	expectedTag := authTag(conf, randomizedPassword, envelope.Nonce, ctc)
	if !conf.MAC.Equal(expectedTag, envelope.AuthTag) {
		clientSecretKey.Zero()
		return nil, nil, nil, internal.ErrEnvelopeInvalidMac
	}

	return clientSecretKey, clientPublicKey, exportKey(conf, randomizedPassword, envelope.Nonce), nil
}
