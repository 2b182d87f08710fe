// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ake provides high-level functions for the 3DH AKE.
package ake

import (
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/ecliptix/ecliptix/internal"
	"github.com/ecliptix/ecliptix/internal/encoding"
	"github.com/ecliptix/ecliptix/internal/tag"
	"github.com/ecliptix/ecliptix/message"
)

// KeyGen derives a Diffie-Hellman key pair from the seed, or from a random seed if none is given.
func KeyGen(conf *internal.Configuration, seed ...[]byte) (*group.Scalar, *group.Element, error) {
	var s []byte
	if len(seed) != 0 && len(seed[0]) > 0 {
		s = seed[0]
	} else {
		s = internal.RandomBytes(internal.SeedLength)
	}

	sk, pk, err := conf.OPRF.DeriveKeyPair(s, []byte(tag.DeriveDiffieHellmanKeyPair))
	if err != nil {
		return nil, nil, fmt.Errorf("key share derivation: %w", err)
	}

	return sk, pk, nil
}

func diffieHellman(s *group.Scalar, e *group.Element) *group.Element {
	return e.Copy().Multiply(s)
}

// Identities holds the client and server identities.
type Identities struct {
	ClientIdentity []byte
	ServerIdentity []byte
}

// SetIdentities sets the client and server identities to their respective public key if not set.
func (id *Identities) SetIdentities(clientPublicKey *group.Element, serverPublicKey []byte) *Identities {
	if id.ClientIdentity == nil {
		id.ClientIdentity = clientPublicKey.Encode()
	}

	if id.ServerIdentity == nil {
		id.ServerIdentity = serverPublicKey
	}

	return id
}

func k3dh(
	p1 *group.Element,
	s1 *group.Scalar,
	p2 *group.Element,
	s2 *group.Scalar,
	p3 *group.Element,
	s3 *group.Scalar,
) []byte {
	e1 := diffieHellman(s1, p1).Encode()
	e2 := diffieHellman(s2, p2).Encode()
	e3 := diffieHellman(s3, p3).Encode()

	return encoding.Concat3(e1, e2, e3)
}

// transcript holds the server's part of KE2 bound into the preamble.
type transcript struct {
	credentialResponse   *message.CredentialResponse
	serverPublicKeyshare *group.Element
	serverNonce          []byte
}

func core3DH(
	conf *internal.Configuration, identities *Identities, ikm, ke1 []byte, t *transcript,
) (sessionSecret, serverMac, clientMac []byte) {
	preamble := Preamble(conf, identities, ke1, t.credentialResponse, t.serverNonce, t.serverPublicKeyshare)
	hPreamble := conf.Hash.Sum(preamble)

	serverMacKey, clientMacKey, sessionSecret := deriveKeys(conf.KDF, ikm, hPreamble)
	serverMac = conf.MAC.MAC(serverMacKey, hPreamble)
	clientMac = conf.MAC.MAC(clientMacKey, conf.Hash.Sum(preamble, serverMac))

	return sessionSecret, serverMac, clientMac
}

// Preamble returns the transcript preamble of the key exchange.
func Preamble(
	conf *internal.Configuration,
	identities *Identities,
	ke1 []byte,
	credentialResponse *message.CredentialResponse,
	serverNonce []byte,
	serverPublicKeyshare *group.Element,
) []byte {
	return encoding.Concatenate(
		[]byte(tag.VersionTag),
		encoding.EncodeVector(conf.Context),
		encoding.EncodeVector(identities.ClientIdentity),
		ke1,
		encoding.EncodeVector(identities.ServerIdentity),
		credentialResponse.Serialize(),
		serverNonce,
		serverPublicKeyshare.Encode(),
	)
}

func buildLabel(length int, label, context []byte) []byte {
	return encoding.Concat3(
		encoding.I2OSP(length, 2),
		encoding.EncodeVectorLen(encoding.Concat([]byte(tag.LabelPrefix), label), 1),
		encoding.EncodeVectorLen(context, 1))
}

func expandLabel(h *internal.KDF, secret, label, context []byte) []byte {
	hkdfLabel := buildLabel(h.Size(), label, context)
	return h.Expand(secret, hkdfLabel, h.Size())
}

func deriveSecret(h *internal.KDF, secret, label, context []byte) []byte {
	return expandLabel(h, secret, label, context)
}

func deriveKeys(h *internal.KDF, ikm, context []byte) (serverMacKey, clientMacKey, sessionSecret []byte) {
	prk := h.Extract(nil, ikm)
	handshakeSecret := deriveSecret(h, prk, []byte(tag.Handshake), context)
	sessionSecret = deriveSecret(h, prk, []byte(tag.SessionKey), context)
	serverMacKey = expandLabel(h, handshakeSecret, []byte(tag.MacServer), nil)
	clientMacKey = expandLabel(h, handshakeSecret, []byte(tag.MacClient), nil)

	return serverMacKey, clientMacKey, sessionSecret
}
