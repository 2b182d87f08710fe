// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package capi

import (
	"errors"

	"github.com/ecliptix/ecliptix"
)

// Status is the numeric result of a boundary call. StatusOK is the only success value.
type Status int32

const (
	// StatusOK indicates success.
	StatusOK Status = iota

	// StatusInvalidParams indicates a missing or malformed argument.
	StatusInvalidParams

	// StatusNotInitialized indicates a key operation before a successful Init.
	StatusNotInitialized

	// StatusInit indicates that loading the key material failed.
	StatusInit

	// StatusBufferTooSmall indicates that the output buffer is too small. The required length is reported.
	StatusBufferTooSmall

	// StatusEncrypt indicates an encryption failure.
	StatusEncrypt

	// StatusDecrypt indicates a decryption failure.
	StatusDecrypt

	// StatusNoPrivateKey indicates that no private key is available for decryption.
	StatusNoPrivateKey

	// StatusInvalidKeyLength indicates a server public key of unexpected length.
	StatusInvalidKeyLength

	// StatusInvalidServerKey indicates a server public key that is not a valid group element.
	StatusInvalidServerKey

	// StatusInvalidHandle indicates an unknown, stale, or destroyed handle.
	StatusInvalidHandle

	// StatusClientState indicates a client state used out of order.
	StatusClientState

	// StatusAlloc indicates an allocation failure.
	StatusAlloc

	// StatusProtocol indicates an OPAQUE protocol failure.
	StatusProtocol

	// StatusGeneric indicates any other failure.
	StatusGeneric
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidParams:
		return "invalid_params"
	case StatusNotInitialized:
		return "not_initialized"
	case StatusInit:
		return "init_error"
	case StatusBufferTooSmall:
		return "buffer_too_small"
	case StatusEncrypt:
		return "encrypt_error"
	case StatusDecrypt:
		return "decrypt_error"
	case StatusNoPrivateKey:
		return "no_private_key"
	case StatusInvalidKeyLength:
		return "invalid_key_length"
	case StatusInvalidServerKey:
		return "invalid_server_key"
	case StatusInvalidHandle:
		return "invalid_handle"
	case StatusClientState:
		return "client_state_error"
	case StatusAlloc:
		return "alloc_error"
	case StatusProtocol:
		return "protocol_error"
	case StatusGeneric:
		return "generic_error"
	default:
		return "unknown_status"
	}
}

// statusOf maps an error returned by the ecliptix package to a Status.
func statusOf(err error) Status {
	var code ecliptix.ErrorCode
	if !errors.As(err, &code) {
		return StatusGeneric
	}

	switch code {
	case ecliptix.ErrCodeConfiguration:
		return StatusInvalidParams
	case ecliptix.ErrCodeInit:
		return StatusInit
	case ecliptix.ErrCodeEncrypt:
		return StatusEncrypt
	case ecliptix.ErrCodeDecrypt:
		return StatusDecrypt
	case ecliptix.ErrCodeNoPrivateKey:
		return StatusNoPrivateKey
	case ecliptix.ErrCodeInvalidKeyLength:
		return StatusInvalidKeyLength
	case ecliptix.ErrCodeServerPublicKey:
		return StatusInvalidServerKey
	case ecliptix.ErrCodeClientState:
		return StatusClientState
	case ecliptix.ErrCodeRegistration, ecliptix.ErrCodeAuthentication, ecliptix.ErrCodeMessage:
		return StatusProtocol
	default:
		return StatusGeneric
	}
}
