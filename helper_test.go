// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ecliptix_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecliptix/ecliptix"
	"github.com/ecliptix/ecliptix/internal/testkit"
)

const (
	testPassword = "correct horse battery staple"
	testUser     = "alice@ecliptix"
)

func readFile(t *testing.T, name string) []byte {
	t.Helper()

	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("unexpected error reading %s: %v", name, err)
	}

	return b
}

func readEmbeddedPublicKey(t *testing.T) []byte {
	t.Helper()

	b, err := os.ReadFile(filepath.Join("keys", "client_public.pem"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return b
}

// fullKeyStore returns the embedded public key paired with its private key.
func fullKeyStore(t *testing.T) *ecliptix.KeyStore {
	t.Helper()

	keys, err := ecliptix.LoadKeyStore(readEmbeddedPublicKey(t), readFile(t, "client_private.pem"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return keys
}

// fastConfiguration skips key stretching to keep the protocol tests quick.
func fastConfiguration() *ecliptix.Configuration {
	conf := ecliptix.DefaultConfiguration()
	conf.KSF = 0

	return conf
}

func newServer(t *testing.T, context []byte) *testkit.Server {
	t.Helper()

	server, err := testkit.NewServer(context)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return server
}

func newClient(t *testing.T, serverPublicKey []byte, conf *ecliptix.Configuration) *ecliptix.Client {
	t.Helper()

	client, err := ecliptix.NewClient(serverPublicKey, conf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return client
}

func newState(t *testing.T, options ...*ecliptix.ClientStateOptions) *ecliptix.ClientState {
	t.Helper()

	state, err := ecliptix.NewClientState(options...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Cleanup(state.Destroy)

	return state
}

// register runs a full registration of password against server and returns the parsed record and export key.
func register(
	t *testing.T,
	client *ecliptix.Client,
	server *testkit.Server,
	password []byte,
	ids *ecliptix.Identities,
) (*testkit.Record, []byte) {
	t.Helper()

	state := newState(t)

	request, err := client.CreateRegistrationRequest(state, password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	encoded, err := server.RegistrationResponse(request.Serialize(), []byte(testUser))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := client.Deserialize.RegistrationResponse(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, exportKey, err := client.FinalizeRegistration(state, password, response, ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(record.Serialize()) != ecliptix.RegistrationRecordLength {
		t.Fatalf("expected a %d byte record - got %d", ecliptix.RegistrationRecordLength, len(record.Serialize()))
	}

	parsed, err := server.Register(record.Serialize())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return parsed, exportKey
}
