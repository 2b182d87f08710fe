// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ecliptix

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var (
	// ErrConfiguration indicates that the configuration is invalid.
	ErrConfiguration = ErrCodeConfiguration.New("")

	// ErrInit indicates that loading the key material failed.
	ErrInit = ErrCodeInit.New("")

	// ErrEncrypt indicates that RSA-OAEP encryption failed.
	ErrEncrypt = ErrCodeEncrypt.New("")

	// ErrDecrypt indicates that RSA-OAEP decryption failed.
	ErrDecrypt = ErrCodeDecrypt.New("")

	// ErrNoPrivateKey indicates that decryption was requested but no private key is loaded. This is an expected
	// condition in public-only deployments.
	ErrNoPrivateKey = ErrCodeNoPrivateKey.New("no private key available")

	// ErrInvalidKeyLength indicates that the server public key does not have the expected length.
	ErrInvalidKeyLength = ErrCodeInvalidKeyLength.New("invalid server public key length")

	// ErrServerPublicKey indicates that the server public key is invalid or does not match the pinned key.
	ErrServerPublicKey = ErrCodeServerPublicKey.New("invalid server public key")

	// ErrRegistration indicates that the registration process failed.
	ErrRegistration = ErrCodeRegistration.New("")

	// ErrAuthentication indicates that the authentication process failed.
	ErrAuthentication = ErrCodeAuthentication.New("")

	// ErrRegistrationRequest indicates an error with a registration request.
	ErrRegistrationRequest = ErrCodeMessage.New("invalid registration request")

	// ErrRegistrationResponse indicates an error with a registration response.
	ErrRegistrationResponse = ErrCodeMessage.New("invalid registration response")

	// ErrKE1 indicates an error with a KE1 message.
	ErrKE1 = ErrCodeMessage.New("invalid KE1 message")

	// ErrKE2 indicates an error with a KE2 message.
	ErrKE2 = ErrCodeMessage.New("invalid KE2 message")

	// ErrKE3 indicates an error with a KE3 message.
	ErrKE3 = ErrCodeMessage.New("invalid KE3 message")

	// ErrClientState indicates that the client state is invalid or used out of order.
	ErrClientState = ErrCodeClientState.New("")
)

// ErrorCode represents the type of error returned by this module. It is used to categorize errors and provide
// a consistent way to handle error conditions.
type ErrorCode byte //nolint:errname // This is an error code, not an error type.

const (
	// ErrCodeUnknown represents an unknown error.
	ErrCodeUnknown ErrorCode = iota

	// ErrCodeConfiguration represents an error related to the configuration.
	ErrCodeConfiguration

	// ErrCodeInit represents an error while loading the key material.
	ErrCodeInit

	// ErrCodeEncrypt represents an encryption failure.
	ErrCodeEncrypt

	// ErrCodeDecrypt represents a decryption failure.
	ErrCodeDecrypt

	// ErrCodeNoPrivateKey represents the absence of a private key.
	ErrCodeNoPrivateKey

	// ErrCodeInvalidKeyLength represents a server public key of unexpected length.
	ErrCodeInvalidKeyLength

	// ErrCodeServerPublicKey represents an invalid or mismatching server public key.
	ErrCodeServerPublicKey

	// ErrCodeRegistration represents an error related to the registration phase.
	ErrCodeRegistration

	// ErrCodeAuthentication represents an error related to the authentication phase.
	ErrCodeAuthentication

	// ErrCodeMessage represents an error related to message processing.
	ErrCodeMessage

	// ErrCodeClientState represents an error related to the client's state.
	ErrCodeClientState
)

// New returns an *Error for the code. An empty message defaults to the code name with spaces.
func (c ErrorCode) New(message string, errs ...error) *Error {
	if message == "" {
		message = strings.ReplaceAll(c.String(), "_", " ")
	}

	return &Error{
		Code:    c,
		Message: message,
		Err:     errors.Join(errs...),
	}
}

// String returns the snake_case name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeUnknown:
		return "unknown_error"
	case ErrCodeConfiguration:
		return "configuration_error"
	case ErrCodeInit:
		return "init_error"
	case ErrCodeEncrypt:
		return "encrypt_error"
	case ErrCodeDecrypt:
		return "decrypt_error"
	case ErrCodeNoPrivateKey:
		return "no_private_key"
	case ErrCodeInvalidKeyLength:
		return "invalid_key_length"
	case ErrCodeServerPublicKey:
		return "server_public_key_error"
	case ErrCodeRegistration:
		return "registration_error"
	case ErrCodeAuthentication:
		return "authentication_error"
	case ErrCodeMessage:
		return "message_error"
	case ErrCodeClientState:
		return "client_state_error"
	default:
		return "unknown_error"
	}
}

// Error returns the code name.
func (c ErrorCode) Error() string {
	return c.String()
}

// Is reports whether target carries the same code, either as an ErrorCode or as an *Error.
func (c ErrorCode) Is(target error) bool {
	var errCode ErrorCode
	if errors.As(target, &errCode) {
		return byte(c) == byte(errCode)
	}

	var codedErr *Error
	if errors.As(target, &codedErr) {
		return byte(c) == byte(codedErr.Code)
	}

	return false
}

// As assigns the code to an *ErrorCode target.
func (c ErrorCode) As(target any) bool {
	switch t := target.(type) {
	case ErrorCode:
		return true
	case *ErrorCode:
		*t = c
		return true
	default:
		return false
	}
}

// Error is the error type returned by the ecliptix package. Code classifies it, Message describes it, and Err holds
// the cause, if any.
type Error struct {
	Err     error
	Message string
	Code    ErrorCode
}

// Error returns the message only. Use Unwrap or %+v for the cause.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.Err }

// Join returns an error matching both e and errs.
func (e *Error) Join(errs ...error) error {
	return errors.Join(e, errors.Join(errs...))
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", int(e.Code)),
		slog.String("code_name", e.Code.String()),
		slog.String("message", e.Message),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("error", e.Err))
	}

	return slog.GroupValue(attrs...)
}

// Format implements fmt.Formatter. %+v prints the code, the message, and the tree of wrapped errors.
func (e *Error) Format(f fmt.State, verb rune) {
	switch {
	case verb == 'v' && f.Flag('+'):
		_, _ = io.WriteString(f, e.verbose()) //nolint:errcheck // nothing to do on a failed write
	case verb == 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error()) //nolint:errcheck // nothing to do on a failed write
	default:
		_, _ = io.WriteString(f, e.Error()) //nolint:errcheck // nothing to do on a failed write
	}
}

// Is implements the errors.Is method for the Error type. A bare ErrorCode target matches on the code, an *Error
// target matches on both code and message.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorCode:
		return e.Code == t
	case *Error:
		return e.Code == t.Code && strings.EqualFold(e.Message, t.Message)
	default:
		return false
	}
}

// As assigns e, or its code, to an **Error or *ErrorCode target.
func (e *Error) As(target any) bool {
	switch t := target.(type) {
	case *ErrorCode:
		*t = e.Code
		return true
	case **Error:
		*t = e
		return true
	default:
		return false
	}
}

func (e *Error) verbose() string {
	var b strings.Builder

	_, _ = fmt.Fprintf(&b, "code=%d(%s)", e.Code, e.Code.String())
	if e.Message != "" {
		_, _ = fmt.Fprintf(&b, " message=%q", e.Message)
	}

	writeChain(&b, e.Err, 0)

	return b.String()
}

// writeChain appends one indented line per error in the tree rooted at err.
func writeChain(b *strings.Builder, err error, depth int) {
	if err == nil {
		return
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString("↳ ")
	b.WriteString(err.Error())

	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, child := range u.Unwrap() {
			writeChain(b, child, depth+1)
		}
	case interface{ Unwrap() error }:
		writeChain(b, u.Unwrap(), depth+1)
	}
}
