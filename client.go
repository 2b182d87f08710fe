// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ecliptix

import (
	"crypto/subtle"

	group "github.com/bytemare/crypto"

	"github.com/ecliptix/ecliptix/internal"
	"github.com/ecliptix/ecliptix/internal/ake"
	"github.com/ecliptix/ecliptix/internal/encoding"
	"github.com/ecliptix/ecliptix/internal/keyrecovery"
	"github.com/ecliptix/ecliptix/internal/masking"
	"github.com/ecliptix/ecliptix/internal/oprf"
	"github.com/ecliptix/ecliptix/message"
)

// Identities holds the optional client and server identities. Nil identities default to the respective public keys.
type Identities struct {
	Client []byte
	Server []byte
}

func (i *Identities) credentials() *keyrecovery.Credentials {
	if i == nil {
		return nil
	}

	return &keyrecovery.Credentials{
		ClientIdentity: i.Client,
		ServerIdentity: i.Server,
	}
}

func (i *Identities) akeIdentities(clientPublicKey *group.Element, serverPublicKey []byte) *ake.Identities {
	ids := &ake.Identities{}
	if i != nil {
		ids.ClientIdentity = i.Client
		ids.ServerIdentity = i.Server
	}

	return ids.SetIdentities(clientPublicKey, serverPublicKey)
}

// Client represents an OPAQUE Client bound to a pinned server public key. A Client holds no per-flow state and can
// drive any number of flows, each with its own ClientState.
type Client struct {
	Deserialize          *Deserializer
	conf                 *internal.Configuration
	serverPublicKey      *group.Element
	serverPublicKeyBytes []byte
}

// NewClient returns a new Client bound to the 32-byte serverPublicKey. A nil configuration selects the default one.
func NewClient(serverPublicKey []byte, c *Configuration) (*Client, error) {
	if c == nil {
		c = DefaultConfiguration()
	}

	if len(serverPublicKey) != ServerPublicKeyLength {
		return nil, ErrInvalidKeyLength
	}

	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	pks, err := conf.DecodeElement(serverPublicKey)
	if err != nil {
		return nil, ErrServerPublicKey.Join(err)
	}

	return &Client{
		Deserialize:          &Deserializer{conf: conf},
		conf:                 conf,
		serverPublicKey:      pks,
		serverPublicKeyBytes: copyBytes(serverPublicKey),
	}, nil
}

// ServerPublicKey returns a copy of the pinned server public key.
func (c *Client) ServerPublicKey() []byte {
	return copyBytes(c.serverPublicKeyBytes)
}

func (c *Client) checkServerPublicKey(pks []byte) error {
	if subtle.ConstantTimeCompare(pks, c.serverPublicKeyBytes) != 1 {
		return ErrServerPublicKey.Join(internal.ErrServerPublicKeyMismatch)
	}

	return nil
}

// oprfClient returns an OPRF client using the state's blind.
func (c *Client) oprfClient(state *ClientState) (*oprf.Client, error) {
	o := c.conf.OPRF.Client()
	if err := o.SetBlind(state.blind); err != nil {
		return nil, err
	}

	return o, nil
}

func (c *Client) blind(state *ClientState, password []byte) (*oprf.Client, *group.Element, error) {
	o, err := c.oprfClient(state)
	if err != nil {
		return nil, nil, err
	}

	blinded, err := o.Blind(password)
	if err != nil {
		o.Clear()
		return nil, nil, err
	}

	return o, blinded, nil
}

// randomizedPassword finalizes the OPRF, stretches its output, and derives the randomized password.
func (c *Client) randomizedPassword(o *oprf.Client, evaluation *group.Element) []byte {
	output := o.Finalize(evaluation)
	stretched := c.conf.KSF.Stretch(output)

	return c.conf.KDF.Extract(nil, encoding.Concat(output, stretched))
}

// CreateRegistrationRequest returns a RegistrationRequest message blinding the given password. The state must be fresh
// and is bound to the registration flow.
func (c *Client) CreateRegistrationRequest(state *ClientState, password []byte) (*message.RegistrationRequest, error) {
	if err := state.expect(phaseFresh); err != nil {
		return nil, err
	}

	o, blinded, err := c.blind(state, password)
	if err != nil {
		return nil, ErrRegistration.Join(err)
	}

	o.Clear()

	state.phase = phaseRegistration

	return &message.RegistrationRequest{BlindedMessage: blinded}, nil
}

// FinalizeRegistration returns a RegistrationRecord message and the export key given the server's
// RegistrationResponse. The password must be the one given to CreateRegistrationRequest for this state.
func (c *Client) FinalizeRegistration(
	state *ClientState,
	password []byte,
	resp *message.RegistrationResponse,
	identities *Identities,
) (record *message.RegistrationRecord, exportKey []byte, err error) {
	if err = state.expect(phaseRegistration); err != nil {
		return nil, nil, err
	}

	defer state.abortOnError(&err)

	if resp == nil || resp.EvaluatedMessage == nil || resp.Pks == nil {
		return nil, nil, ErrRegistrationResponse
	}

	if err = c.checkServerPublicKey(resp.Pks.Encode()); err != nil {
		return nil, nil, err
	}

	o, _, err := c.blind(state, password)
	if err != nil {
		return nil, nil, ErrRegistration.Join(err)
	}
	defer o.Clear()

	randomizedPassword := c.randomizedPassword(o, resp.EvaluatedMessage)
	defer internal.ClearSlice(&randomizedPassword)

	envelope, clientPublicKey, exportKey, err := keyrecovery.Store(
		c.conf,
		randomizedPassword,
		c.serverPublicKeyBytes,
		state.envelopeNonce,
		identities.credentials(),
	)
	if err != nil {
		return nil, nil, ErrRegistration.Join(err)
	}

	state.phase = phaseRegistered

	return &message.RegistrationRecord{
		PublicKey:  clientPublicKey,
		MaskingKey: masking.MaskingKey(c.conf, randomizedPassword),
		Envelope:   envelope.Serialize(),
	}, exportKey, nil
}

// GenerateKE1 initiates the login flow, returning a KE1 message blinding the given password. The state must be fresh
// and is bound to the login flow.
func (c *Client) GenerateKE1(state *ClientState, password []byte) (*message.KE1, error) {
	if err := state.expect(phaseFresh); err != nil {
		return nil, err
	}

	o, blinded, err := c.blind(state, password)
	if err != nil {
		return nil, ErrAuthentication.Join(err)
	}

	o.Clear()

	ke1 := &message.KE1{
		CredentialRequest:    &message.CredentialRequest{BlindedMessage: blinded},
		ClientNonce:          copyBytes(state.nonce),
		ClientPublicKeyshare: state.publicKeyShare.Copy(),
	}

	state.ke1 = ke1.Serialize()
	state.phase = phaseLogin

	return ke1, nil
}

// GenerateKE3 returns a KE3 message and the export key given the server's KE2 response. On success, the session key
// is available from the state. The password must be the one given to GenerateKE1 for this state.
func (c *Client) GenerateKE3(
	state *ClientState,
	password []byte,
	ke2 *message.KE2,
	identities *Identities,
) (ke3 *message.KE3, exportKey []byte, err error) {
	if err = state.expect(phaseLogin); err != nil {
		return nil, nil, err
	}

	defer state.abortOnError(&err)

	if ke2 == nil || ke2.CredentialResponse == nil || ke2.EvaluatedMessage == nil || ke2.ServerPublicKeyshare == nil {
		return nil, nil, ErrKE2
	}

	if len(ke2.MaskedResponse) != c.conf.MaskedResponseLength() {
		return nil, nil, ErrKE2.Join(internal.ErrInvalidMessageLength)
	}

	o, _, err := c.blind(state, password)
	if err != nil {
		return nil, nil, ErrAuthentication.Join(err)
	}
	defer o.Clear()

	randomizedPassword := c.randomizedPassword(o, ke2.EvaluatedMessage)
	defer internal.ClearSlice(&randomizedPassword)

	serverPublicKey, serverPublicKeyBytes, envelope, err := masking.Unmask(
		c.conf,
		randomizedPassword,
		ke2.MaskingNonce,
		ke2.MaskedResponse,
	)
	if err != nil {
		// A wrong password yields a garbage server key.
		return nil, nil, ErrAuthentication.Join(err)
	}

	clientSecretKey, clientPublicKey, exportKey, err := keyrecovery.Recover(
		c.conf,
		randomizedPassword,
		serverPublicKeyBytes,
		envelope,
		identities.credentials(),
	)
	if err != nil {
		return nil, nil, ErrAuthentication.Join(err)
	}
	defer clientSecretKey.Zero()

	if err = c.checkServerPublicKey(serverPublicKeyBytes); err != nil {
		return nil, nil, err
	}

	clientMac, sessionKey, err := ake.ClientFinalize(
		c.conf,
		identities.akeIdentities(clientPublicKey, serverPublicKeyBytes),
		&ake.ClientKeys{
			SecretKey:          clientSecretKey,
			EphemeralSecretKey: state.secretKeyShare,
		},
		serverPublicKey,
		state.ke1,
		ke2,
	)
	if err != nil {
		return nil, nil, ErrAuthentication.Join(err)
	}

	state.sessionKey = sessionKey
	state.phase = phaseFinished

	return &message.KE3{ClientMac: clientMac}, exportKey, nil
}
