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

// ClientKeys holds the client's long-term secret key and the ephemeral secret key share.
type ClientKeys struct {
	SecretKey          *group.Scalar
	EphemeralSecretKey *group.Scalar
}

// ClientFinalize verifies the server's MAC in KE2 and, on success, returns the client MAC for KE3 and the session key.
func ClientFinalize(
	conf *internal.Configuration,
	identities *Identities,
	keys *ClientKeys,
	serverPublicKey *group.Element,
	ke1 []byte,
	ke2 *message.KE2,
) (clientMac, sessionSecret []byte, err error) {
	ikm := k3dh(
		ke2.ServerPublicKeyshare, keys.EphemeralSecretKey,
		serverPublicKey, keys.EphemeralSecretKey,
		ke2.ServerPublicKeyshare, keys.SecretKey,
	)

	sessionSecret, serverMac, clientMac := core3DH(conf, identities, ikm, ke1, &transcript{
		credentialResponse:   ke2.CredentialResponse,
		serverPublicKeyshare: ke2.ServerPublicKeyshare,
		serverNonce:          ke2.ServerNonce,
	})

	if !conf.MAC.Equal(serverMac, ke2.ServerMac) {
		internal.ClearSlice(&sessionSecret)
		return nil, nil, internal.ErrServerAuthentication
	}

	return clientMac, sessionSecret, nil
}
