// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ecliptix_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/ecliptix/ecliptix"
)

var errCause = errors.New("cause")

func TestErrorIs(t *testing.T) {
	err := ecliptix.ErrDecrypt.Join(errCause)

	if !errors.Is(err, ecliptix.ErrDecrypt) {
		t.Fatal("expected the joined error to match its sentinel")
	}

	if !errors.Is(err, errCause) {
		t.Fatal("expected the joined error to match its cause")
	}

	if !errors.Is(err, ecliptix.ErrCodeDecrypt) {
		t.Fatal("expected the joined error to match its code")
	}

	if errors.Is(err, ecliptix.ErrNoPrivateKey) {
		t.Fatal("expected a decryption failure not to match the missing private key error")
	}

	if errors.Is(ecliptix.ErrKE1, ecliptix.ErrKE2) {
		t.Fatal("expected message errors with the same code to remain distinct")
	}

	if !errors.Is(ecliptix.ErrKE2, ecliptix.ErrCodeMessage) {
		t.Fatal("expected a message error to match its code")
	}
}

func TestErrorAs(t *testing.T) {
	err := ecliptix.ErrAuthentication.Join(errCause)

	var code ecliptix.ErrorCode
	if !errors.As(err, &code) || code != ecliptix.ErrCodeAuthentication {
		t.Fatalf("expected %v - got %v", ecliptix.ErrCodeAuthentication, code)
	}

	var e *ecliptix.Error
	if !errors.As(err, &e) || e.Code != ecliptix.ErrCodeAuthentication {
		t.Fatalf("expected an *Error - got %v", e)
	}
}

func TestErrorCodeString(t *testing.T) {
	tests := map[ecliptix.ErrorCode]string{
		ecliptix.ErrCodeUnknown:          "unknown_error",
		ecliptix.ErrCodeConfiguration:    "configuration_error",
		ecliptix.ErrCodeInit:             "init_error",
		ecliptix.ErrCodeEncrypt:          "encrypt_error",
		ecliptix.ErrCodeDecrypt:          "decrypt_error",
		ecliptix.ErrCodeNoPrivateKey:     "no_private_key",
		ecliptix.ErrCodeInvalidKeyLength: "invalid_key_length",
		ecliptix.ErrCodeServerPublicKey:  "server_public_key_error",
		ecliptix.ErrCodeRegistration:     "registration_error",
		ecliptix.ErrCodeAuthentication:   "authentication_error",
		ecliptix.ErrCodeMessage:          "message_error",
		ecliptix.ErrCodeClientState:      "client_state_error",
		ecliptix.ErrorCode(250):          "unknown_error",
	}

	for code, expected := range tests {
		if code.String() != expected {
			t.Fatalf("expected %q - got %q", expected, code.String())
		}
	}

	if ecliptix.ErrInit.Error() != "init error" {
		t.Fatalf("expected a message derived from the code - got %q", ecliptix.ErrInit.Error())
	}
}

func TestErrorFormat(t *testing.T) {
	e := ecliptix.ErrCodeRegistration.New("", errCause)

	if fmt.Sprintf("%s", e) != "registration error" {
		t.Fatalf("unexpected format: %s", e)
	}

	if fmt.Sprintf("%q", e) != "\"registration error\"" {
		t.Fatalf("unexpected format: %q", e)
	}

	verbose := fmt.Sprintf("%+v", e)
	if !strings.Contains(verbose, "code=8(registration_error)") || !strings.Contains(verbose, "cause") {
		t.Fatalf("unexpected verbose format: %s", verbose)
	}
}

func TestErrorLogValue(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("failure", "err", ecliptix.ErrCodeDecrypt.New("", errCause))

	out := buf.String()
	if !strings.Contains(out, "err.code_name=decrypt_error") || !strings.Contains(out, "err.error=cause") {
		t.Fatalf("unexpected log output: %s", out)
	}
}
