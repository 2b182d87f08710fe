// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ake_test

import (
	"bytes"
	"errors"
	"testing"

	group "github.com/bytemare/crypto"

	"github.com/ecliptix/ecliptix/internal"
	"github.com/ecliptix/ecliptix/internal/ake"
	"github.com/ecliptix/ecliptix/internal/ksf"
	"github.com/ecliptix/ecliptix/message"
)

type exchange struct {
	conf         *internal.Configuration
	clientKeys   *ake.ClientKeys
	clientPublic *group.Element
	serverSecret *group.Scalar
	serverPublic *group.Element
	ke1          *message.KE1
	output       *ake.ServerOutput
}

func setup(t *testing.T, context []byte, ids *ake.Identities) *exchange {
	t.Helper()

	stretch, err := ksf.NewKSF(0, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conf := internal.NewConfiguration(stretch, context)

	csk, cpk, err := ake.KeyGen(conf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ssk, spk, err := ake.KeyGen(conf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cesk, cepk, err := ake.KeyGen(conf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sesk, _, err := ake.KeyGen(conf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ke1 := &message.KE1{
		CredentialRequest:    &message.CredentialRequest{BlindedMessage: conf.Group.Base()},
		ClientPublicKeyshare: cepk,
		ClientNonce:          internal.RandomBytes(conf.NonceLen),
	}

	credentialResponse := &message.CredentialResponse{
		EvaluatedMessage: conf.Group.Base(),
		MaskingNonce:     internal.RandomBytes(conf.NonceLen),
		MaskedResponse:   internal.RandomBytes(conf.MaskedResponseLength()),
	}

	identities := (&ake.Identities{}).SetIdentities(cpk, spk.Encode())
	if ids != nil {
		identities = ids
	}

	out := ake.ServerResponse(conf, identities, ssk, sesk, cpk, internal.RandomBytes(conf.NonceLen), ke1, credentialResponse)

	return &exchange{
		conf:         conf,
		clientKeys:   &ake.ClientKeys{SecretKey: csk, EphemeralSecretKey: cesk},
		clientPublic: cpk,
		serverSecret: ssk,
		serverPublic: spk,
		ke1:          ke1,
		output:       out,
	}
}

func TestKeyExchange(t *testing.T) {
	tests := []struct {
		name    string
		context []byte
		ids     *ake.Identities
	}{
		{name: "default", context: nil, ids: nil},
		{name: "with context", context: []byte("ecliptix"), ids: nil},
		{name: "with identities", context: nil, ids: &ake.Identities{ClientIdentity: []byte("client"), ServerIdentity: []byte("server")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := setup(t, tt.context, tt.ids)

			identities := (&ake.Identities{}).SetIdentities(x.clientPublic, x.serverPublic.Encode())
			if tt.ids != nil {
				identities = tt.ids
			}

			mac, session, err := ake.ClientFinalize(x.conf, identities, x.clientKeys, x.serverPublic, x.ke1.Serialize(), x.output.KE2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !bytes.Equal(mac, x.output.ExpectedClientMac) {
				t.Fatal("expected client MAC to match the server's expectation")
			}

			if !bytes.Equal(session, x.output.SessionSecret) {
				t.Fatal("expected equal session keys")
			}

			if len(session) != x.conf.KDF.Size() || len(mac) != x.conf.MAC.Size() {
				t.Fatalf("unexpected output lengths %d and %d", len(session), len(mac))
			}
		})
	}
}

func TestKeyExchangeFailures(t *testing.T) {
	x := setup(t, nil, nil)
	identities := (&ake.Identities{}).SetIdentities(x.clientPublic, x.serverPublic.Encode())

	// Tampered server MAC.
	ke2 := *x.output.KE2
	ke2.ServerMac = bytes.Clone(ke2.ServerMac)
	ke2.ServerMac[0] ^= 0xff

	if _, _, err := ake.ClientFinalize(x.conf, identities, x.clientKeys, x.serverPublic, x.ke1.Serialize(), &ke2); !errors.Is(err, internal.ErrServerAuthentication) {
		t.Fatalf("expected %q - got %v", internal.ErrServerAuthentication, err)
	}

	// Wrong long-term server key.
	_, other, err := ake.KeyGen(x.conf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err = ake.ClientFinalize(x.conf, identities, x.clientKeys, other, x.ke1.Serialize(), x.output.KE2); !errors.Is(err, internal.ErrServerAuthentication) {
		t.Fatalf("expected %q - got %v", internal.ErrServerAuthentication, err)
	}

	// Mismatching identities.
	wrongIDs := &ake.Identities{ClientIdentity: []byte("mallory"), ServerIdentity: x.serverPublic.Encode()}
	if _, _, err = ake.ClientFinalize(x.conf, wrongIDs, x.clientKeys, x.serverPublic, x.ke1.Serialize(), x.output.KE2); !errors.Is(err, internal.ErrServerAuthentication) {
		t.Fatalf("expected %q - got %v", internal.ErrServerAuthentication, err)
	}
}

func TestKeyGenDeterministic(t *testing.T) {
	stretch, err := ksf.NewKSF(0, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conf := internal.NewConfiguration(stretch, nil)
	seed := internal.RandomBytes(internal.SeedLength)

	sk1, pk1, err := ake.KeyGen(conf, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sk2, pk2, err := ake.KeyGen(conf, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(sk1.Encode(), sk2.Encode()) || !bytes.Equal(pk1.Encode(), pk2.Encode()) {
		t.Fatal("expected the same seed to derive the same key pair")
	}

	if _, _, err = ake.KeyGen(conf, []byte("short")); err == nil {
		t.Fatal("expected error on short seed")
	}
}
