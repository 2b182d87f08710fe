// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package capi implements the C boundary of the ecliptix module over plain Go types: status codes, handle arenas,
// caller-provided output buffers, and the process-wide last error.
package capi

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/ecliptix/ecliptix"
)

// MaxMessageLength is the largest output of CreateRegistrationRequest and GenerateKE1.
const MaxMessageLength = ecliptix.KE1Length

var (
	errNotInitialized = errors.New("library is not initialized")
	errNilLength      = errors.New("nil output length")
	errInvalidHandle  = errors.New("invalid handle")
	errEmptyPassword  = errors.New("empty password")
	errBufferTooSmall = errors.New("output buffer too small")
	errInvalidParams  = errors.New("invalid parameters")
)

// KeyLoader returns the RSA key material loaded by Init.
type KeyLoader func() (*ecliptix.KeyStore, error)

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger receiving failure records. Failures are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithKeyLoader replaces the embedded key material.
func WithKeyLoader(loader KeyLoader) Option {
	return func(l *Library) {
		if loader != nil {
			l.loader = loader
		}
	}
}

// WithConfiguration sets the module configuration used by Init and ClientCreate.
func WithConfiguration(conf *ecliptix.Configuration) Option {
	return func(l *Library) {
		if conf != nil {
			l.conf = conf
		}
	}
}

// Library holds the process-wide state behind the C boundary. Init and Cleanup must not overlap with other calls.
// The handle arenas and the last error are safe for concurrent use, the objects behind handles are not.
type Library struct {
	logger  *slog.Logger
	loader  KeyLoader
	conf    *ecliptix.Configuration
	keys    *ecliptix.KeyStore
	cipher  *ecliptix.Cipher
	clients arena[ecliptix.Client]
	states  arena[ecliptix.ClientState]
	lastErr string
	mu      sync.Mutex
}

// New returns a Library loading the embedded key material, with logging disabled.
func New(options ...Option) *Library {
	l := &Library{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		loader: ecliptix.EmbeddedKeyStore,
		conf:   ecliptix.DefaultConfiguration(),
	}

	for _, option := range options {
		option(l)
	}

	return l
}

// fail records err as the last error and returns status.
func (l *Library) fail(op string, status Status, err error) Status {
	message := op + ": " + strings.ReplaceAll(err.Error(), "\n", ": ")

	l.mu.Lock()
	l.lastErr = message
	l.mu.Unlock()

	attrs := []any{slog.String("op", op), slog.String("status", status.String())}

	var coded *ecliptix.Error
	if errors.As(err, &coded) {
		attrs = append(attrs, slog.Any("error", coded))
	}

	l.logger.Debug(message, attrs...)

	return status
}

func (l *Library) failErr(op string, err error) Status {
	return l.fail(op, statusOf(err), err)
}

// InvalidParams records a malformed argument detected by a binding layer for op.
func (l *Library) InvalidParams(op string) Status {
	return l.fail(op, StatusInvalidParams, errInvalidParams)
}

// LastError returns the message of the most recent failure. Successful calls leave it unchanged.
func (l *Library) LastError() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.lastErr
}

// Init loads and validates the key material.
func (l *Library) Init() Status {
	keys, err := l.loader()
	if err != nil {
		return l.failErr("init", err)
	}

	cipher, err := ecliptix.NewCipher(keys, l.conf)
	if err != nil {
		keys.Flush()
		return l.failErr("init", err)
	}

	l.mu.Lock()
	if l.keys != nil {
		l.keys.Flush()
	}

	l.keys, l.cipher = keys, cipher
	l.mu.Unlock()

	return StatusOK
}

// Cleanup releases the key material. It is safe to call after a failed Init and more than once.
func (l *Library) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.keys != nil {
		l.keys.Flush()
	}

	l.keys, l.cipher = nil, nil
}

func (l *Library) loaded() (*ecliptix.KeyStore, *ecliptix.Cipher) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.keys, l.cipher
}

// fill copies data into out if it fits. outLen receives the written length, or the required length on
// StatusBufferTooSmall.
func (l *Library) fill(op string, data, out []byte, outLen *int) Status {
	*outLen = len(data)

	if len(out) < len(data) {
		return l.fail(op, StatusBufferTooSmall, errBufferTooSmall)
	}

	copy(out, data)

	return StatusOK
}

// PublicKey writes the DER encoded SubjectPublicKeyInfo into out. When out is too small, outLen receives the required
// length and StatusBufferTooSmall is returned, so the caller can retry with an exact buffer.
func (l *Library) PublicKey(out []byte, outLen *int) Status {
	if outLen == nil {
		return l.fail("public_key", StatusInvalidParams, errNilLength)
	}

	keys, _ := l.loaded()
	if keys == nil {
		return l.fail("public_key", StatusNotInitialized, errNotInitialized)
	}

	return l.fill("public_key", keys.PublicKeyDER(), out, outLen)
}

// Encrypt writes the RSA-OAEP encryption of in into out, following the PublicKey buffer protocol.
func (l *Library) Encrypt(in, out []byte, outLen *int) Status {
	if outLen == nil {
		return l.fail("encrypt", StatusInvalidParams, errNilLength)
	}

	_, cipher := l.loaded()
	if cipher == nil {
		return l.fail("encrypt", StatusNotInitialized, errNotInitialized)
	}

	if required := cipher.CiphertextLength(); len(out) < required {
		*outLen = required
		return l.fail("encrypt", StatusBufferTooSmall, errBufferTooSmall)
	}

	ciphertext, err := cipher.Encrypt(in)
	if err != nil {
		return l.failErr("encrypt", err)
	}

	return l.fill("encrypt", ciphertext, out, outLen)
}

// Decrypt writes the RSA-OAEP decryption of in into out, following the PublicKey buffer protocol.
func (l *Library) Decrypt(in, out []byte, outLen *int) Status {
	if outLen == nil {
		return l.fail("decrypt", StatusInvalidParams, errNilLength)
	}

	_, cipher := l.loaded()
	if cipher == nil {
		return l.fail("decrypt", StatusNotInitialized, errNotInitialized)
	}

	plaintext, err := cipher.Decrypt(in)
	if err != nil {
		return l.failErr("decrypt", err)
	}

	status := l.fill("decrypt", plaintext, out, outLen)
	clear(plaintext)

	return status
}

// ClientCreate returns a handle to a new OPAQUE client bound to serverPublicKey.
func (l *Library) ClientCreate(serverPublicKey []byte) (Handle, Status) {
	client, err := ecliptix.NewClient(serverPublicKey, l.conf)
	if err != nil {
		return 0, l.failErr("client_create", err)
	}

	return l.clients.insert(client), StatusOK
}

// ClientDestroy releases the client. Zero, stale, and unknown handles are ignored.
func (l *Library) ClientDestroy(h Handle) {
	l.clients.remove(h)
}

// StateCreate returns a handle to a new client state.
func (l *Library) StateCreate() (Handle, Status) {
	state, err := ecliptix.NewClientState()
	if err != nil {
		return 0, l.failErr("state_create", err)
	}

	return l.states.insert(state), StatusOK
}

// StateDestroy zeroes and releases the state. Zero, stale, and unknown handles are ignored.
func (l *Library) StateDestroy(h Handle) {
	if state, ok := l.states.remove(h); ok {
		state.Destroy()
	}
}

func (l *Library) resolve(op string, client, state Handle, password []byte) (*ecliptix.Client, *ecliptix.ClientState, Status) {
	if len(password) == 0 {
		return nil, nil, l.fail(op, StatusInvalidParams, errEmptyPassword)
	}

	c, ok := l.clients.get(client)
	if !ok {
		return nil, nil, l.fail(op, StatusInvalidHandle, errInvalidHandle)
	}

	s, ok := l.states.get(state)
	if !ok {
		return nil, nil, l.fail(op, StatusInvalidHandle, errInvalidHandle)
	}

	return c, s, StatusOK
}

// CreateRegistrationRequest writes the registration request for password into out and returns its length. The state
// is consumed on success. An undersized out leaves the state untouched. An empty password is rejected with
// StatusInvalidParams.
func (l *Library) CreateRegistrationRequest(client Handle, password []byte, state Handle, out []byte) (int, Status) {
	const op = "create_registration_request"

	c, s, status := l.resolve(op, client, state, password)
	if status != StatusOK {
		return 0, status
	}

	if len(out) < ecliptix.RegistrationRequestLength {
		return ecliptix.RegistrationRequestLength, l.fail(op, StatusBufferTooSmall, errBufferTooSmall)
	}

	request, err := c.CreateRegistrationRequest(s, password)
	if err != nil {
		return 0, l.failErr(op, err)
	}

	return copy(out, request.Serialize()), StatusOK
}

// GenerateKE1 writes the KE1 message for password into out and returns its length. The state is consumed on success.
// An undersized out leaves the state untouched. An empty password is rejected with StatusInvalidParams.
func (l *Library) GenerateKE1(client Handle, password []byte, state Handle, out []byte) (int, Status) {
	const op = "generate_ke1"

	c, s, status := l.resolve(op, client, state, password)
	if status != StatusOK {
		return 0, status
	}

	if len(out) < ecliptix.KE1Length {
		return ecliptix.KE1Length, l.fail(op, StatusBufferTooSmall, errBufferTooSmall)
	}

	ke1, err := c.GenerateKE1(s, password)
	if err != nil {
		return 0, l.failErr(op, err)
	}

	return copy(out, ke1.Serialize()), StatusOK
}
