// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ake

import (
	group "github.com/bytemare/crypto"

	"github.com/ecliptix/ecliptix/internal"
	"github.com/ecliptix/ecliptix/message"
)

// ServerOutput holds the server's key exchange output.
type ServerOutput struct {
	KE2               *message.KE2
	SessionSecret     []byte
	ExpectedClientMac []byte
}

// ServerResponse computes KE2 from the client's KE1, the server's long-term and ephemeral keys, and the credential
// response.
func ServerResponse(
	conf *internal.Configuration,
	identities *Identities,
	serverSecretKey, ephemeralSecretKey *group.Scalar,
	clientPublicKey *group.Element,
	nonce []byte,
	ke1 *message.KE1,
	credentialResponse *message.CredentialResponse,
) *ServerOutput {
	epk := conf.Group.Base().Multiply(ephemeralSecretKey)
	ikm := k3dh(
		ke1.ClientPublicKeyshare, ephemeralSecretKey,
		ke1.ClientPublicKeyshare, serverSecretKey,
		clientPublicKey, ephemeralSecretKey,
	)

	sessionSecret, serverMac, clientMac := core3DH(conf, identities, ikm, ke1.Serialize(), &transcript{
		credentialResponse:   credentialResponse,
		serverPublicKeyshare: epk,
		serverNonce:          nonce,
	})

	return &ServerOutput{
		KE2: &message.KE2{
			CredentialResponse:   credentialResponse,
			ServerPublicKeyshare: epk,
			ServerNonce:          nonce,
			ServerMac:            serverMac,
		},
		SessionSecret:     sessionSecret,
		ExpectedClientMac: clientMac,
	}
}
