// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package capi_test

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/hex"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecliptix/ecliptix"
	"github.com/ecliptix/ecliptix/internal/capi"
)

const serverKey = "e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76"

func fullKeys() (*ecliptix.KeyStore, error) {
	return ecliptix.LoadKeyStoreFiles(
		filepath.Join("..", "..", "keys", "client_public.pem"),
		filepath.Join("..", "..", "testdata", "client_private.pem"),
	)
}

func newLibrary(t *testing.T, options ...capi.Option) *capi.Library {
	t.Helper()

	l := capi.New(options...)
	require.Equal(t, capi.StatusOK, l.Init(), l.LastError())
	t.Cleanup(l.Cleanup)

	return l
}

func publicKey(t *testing.T, l *capi.Library) []byte {
	t.Helper()

	var n int
	require.Equal(t, capi.StatusBufferTooSmall, l.PublicKey(nil, &n))
	require.Positive(t, n)

	out := make([]byte, n)
	require.Equal(t, capi.StatusOK, l.PublicKey(out, &n))
	require.Len(t, out, n)

	return out
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", capi.StatusOK.String())
	assert.Equal(t, "buffer_too_small", capi.StatusBufferTooSmall.String())
	assert.Equal(t, "invalid_handle", capi.StatusInvalidHandle.String())
	assert.Equal(t, "generic_error", capi.StatusGeneric.String())
	assert.Equal(t, "unknown_status", capi.Status(99).String())
}

func TestNotInitialized(t *testing.T) {
	l := capi.New()

	var n int
	assert.Equal(t, capi.StatusNotInitialized, l.PublicKey(make([]byte, 512), &n))
	assert.Equal(t, capi.StatusNotInitialized, l.Encrypt([]byte("m"), make([]byte, 512), &n))
	assert.Equal(t, capi.StatusNotInitialized, l.Decrypt(make([]byte, 256), make([]byte, 512), &n))
	assert.NotEmpty(t, l.LastError())

	require.Equal(t, capi.StatusOK, l.Init())
	l.Cleanup()
	l.Cleanup()
	assert.Equal(t, capi.StatusNotInitialized, l.PublicKey(make([]byte, 512), &n))
}

func TestInitFailure(t *testing.T) {
	l := capi.New(capi.WithKeyLoader(func() (*ecliptix.KeyStore, error) {
		return ecliptix.LoadKeyStore([]byte("not a key"), nil)
	}))

	assert.Equal(t, capi.StatusInit, l.Init())
	assert.Contains(t, l.LastError(), "init")
	l.Cleanup()
}

func TestPublicKeyTwoPhase(t *testing.T) {
	l := newLibrary(t)

	var n int
	assert.Equal(t, capi.StatusBufferTooSmall, l.PublicKey(make([]byte, 10), &n))

	der := publicKey(t, l)
	pub, err := x509.ParsePKIXPublicKey(der)
	require.NoError(t, err)
	assert.NotNil(t, pub)

	assert.Equal(t, capi.StatusInvalidParams, l.PublicKey(der, nil))
}

func TestEncryptDecrypt(t *testing.T) {
	l := newLibrary(t, capi.WithKeyLoader(fullKeys))
	message := []byte("ecliptix smoke message")

	var n int
	require.Equal(t, capi.StatusBufferTooSmall, l.Encrypt(message, nil, &n))
	require.Equal(t, 256, n)

	ciphertext := make([]byte, n)
	require.Equal(t, capi.StatusOK, l.Encrypt(message, ciphertext, &n), l.LastError())

	require.Equal(t, capi.StatusBufferTooSmall, l.Decrypt(ciphertext, make([]byte, 4), &n))
	require.Equal(t, len(message), n)

	plaintext := make([]byte, n)
	require.Equal(t, capi.StatusOK, l.Decrypt(ciphertext, plaintext, &n), l.LastError())
	assert.Equal(t, message, plaintext)

	ciphertext[0] ^= 0xff
	assert.Equal(t, capi.StatusDecrypt, l.Decrypt(ciphertext, plaintext, &n))

	assert.Equal(t, capi.StatusEncrypt, l.Encrypt(make([]byte, 300), make([]byte, 256), &n))
}

func TestDecryptPublicOnly(t *testing.T) {
	l := newLibrary(t)

	var n int
	ciphertext := make([]byte, 256)
	require.Equal(t, capi.StatusOK, l.Encrypt([]byte("m"), ciphertext, &n))
	assert.Equal(t, capi.StatusNoPrivateKey, l.Decrypt(ciphertext, make([]byte, 256), &n))
}

func TestClientCreate(t *testing.T) {
	l := capi.New()

	key, err := hex.DecodeString(serverKey)
	require.NoError(t, err)

	h, status := l.ClientCreate(key[:31])
	assert.Equal(t, capi.StatusInvalidKeyLength, status)
	assert.Zero(t, h)

	h, status = l.ClientCreate(bytes.Repeat([]byte{0xff}, 32))
	assert.Equal(t, capi.StatusInvalidServerKey, status)
	assert.Zero(t, h)

	h, status = l.ClientCreate(key)
	require.Equal(t, capi.StatusOK, status)
	assert.NotZero(t, h)

	l.ClientDestroy(h)
	l.ClientDestroy(h)
	l.ClientDestroy(0)
}

func TestOpaqueFirstMessages(t *testing.T) {
	l := capi.New()
	password := []byte("pa$$w0rd")

	key, err := hex.DecodeString(serverKey)
	require.NoError(t, err)

	client, status := l.ClientCreate(key)
	require.Equal(t, capi.StatusOK, status)
	t.Cleanup(func() { l.ClientDestroy(client) })

	state, status := l.StateCreate()
	require.Equal(t, capi.StatusOK, status)

	n, status := l.CreateRegistrationRequest(client, password, state, make([]byte, 8))
	require.Equal(t, capi.StatusBufferTooSmall, status)
	require.Equal(t, ecliptix.RegistrationRequestLength, n)

	out := make([]byte, 128)
	n, status = l.CreateRegistrationRequest(client, password, state, out)
	require.Equal(t, capi.StatusOK, status, l.LastError())
	assert.Equal(t, ecliptix.RegistrationRequestLength, n)

	_, status = l.GenerateKE1(client, password, state, out)
	assert.Equal(t, capi.StatusClientState, status)

	l.StateDestroy(state)

	_, status = l.CreateRegistrationRequest(client, password, state, out)
	assert.Equal(t, capi.StatusInvalidHandle, status)

	state, status = l.StateCreate()
	require.Equal(t, capi.StatusOK, status)
	t.Cleanup(func() { l.StateDestroy(state) })

	_, status = l.GenerateKE1(client, nil, state, out)
	assert.Equal(t, capi.StatusInvalidParams, status)

	n, status = l.GenerateKE1(client, password, state, out)
	require.Equal(t, capi.StatusOK, status, l.LastError())
	assert.Equal(t, ecliptix.KE1Length, n)

	_, status = l.GenerateKE1(capi.Handle(0), password, state, out)
	assert.Equal(t, capi.StatusInvalidHandle, status)
}

func TestLastError(t *testing.T) {
	l := capi.New()
	assert.Empty(t, l.LastError())

	_, status := l.ClientCreate(make([]byte, 31))
	require.Equal(t, capi.StatusInvalidKeyLength, status)
	first := l.LastError()
	assert.Contains(t, first, "client_create")

	// Successes leave the last error in place.
	_, status = l.StateCreate()
	require.Equal(t, capi.StatusOK, status)
	assert.Equal(t, first, l.LastError())

	var n int
	require.Equal(t, capi.StatusNotInitialized, l.PublicKey(nil, &n))
	assert.NotEqual(t, first, l.LastError())
}

type recordingHandler struct {
	slog.Handler
	records []slog.Record
}

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}

func TestLoggerReceivesFailures(t *testing.T) {
	handler := &recordingHandler{Handler: slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})}
	l := capi.New(capi.WithLogger(slog.New(handler)))

	_, status := l.ClientCreate(nil)
	require.Equal(t, capi.StatusInvalidKeyLength, status)
	require.Len(t, handler.records, 1)
	assert.Equal(t, slog.LevelDebug, handler.records[0].Level)

	found := false
	handler.records[0].Attrs(func(a slog.Attr) bool {
		if a.Key == "status" {
			found = a.Value.String() == "invalid_key_length"
		}

		return true
	})
	assert.True(t, found)
}

func TestConcurrentHandles(t *testing.T) {
	l := newLibrary(t)
	key, err := hex.DecodeString(serverKey)
	require.NoError(t, err)

	const workers = 8

	type result struct {
		registration, ke1 []byte
		statuses          []capi.Status
	}

	results := make([]result, workers)

	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			r := &results[i]
			password := []byte("password")

			client, status := l.ClientCreate(key)
			r.statuses = append(r.statuses, status)

			registrationState, status := l.StateCreate()
			r.statuses = append(r.statuses, status)

			loginState, status := l.StateCreate()
			r.statuses = append(r.statuses, status)

			r.registration = make([]byte, ecliptix.RegistrationRequestLength)
			_, status = l.CreateRegistrationRequest(client, password, registrationState, r.registration)
			r.statuses = append(r.statuses, status)

			r.ke1 = make([]byte, ecliptix.KE1Length)
			_, status = l.GenerateKE1(client, password, loginState, r.ke1)
			r.statuses = append(r.statuses, status)

			l.StateDestroy(registrationState)
			l.StateDestroy(loginState)
			l.ClientDestroy(client)

			// Destroyed handles are stale.
			_, status = l.GenerateKE1(client, password, loginState, r.ke1)
			r.statuses = append(r.statuses, status)
		}()
	}

	wg.Wait()

	seen := make(map[string]bool, workers)

	for i, r := range results {
		require.Len(t, r.statuses, 6, "worker %d", i)
		assert.Equal(t, []capi.Status{
			capi.StatusOK, capi.StatusOK, capi.StatusOK, capi.StatusOK, capi.StatusOK, capi.StatusInvalidHandle,
		}, r.statuses, "worker %d", i)

		assert.False(t, seen[string(r.ke1)], "worker %d reused a KE1", i)
		seen[string(r.ke1)] = true
	}
}
