// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ecliptix is the client-side cryptographic core of the Ecliptix application.
//
// It provides two independent services:
//
//   - RSA-OAEP encryption and decryption against a keypair embedded at build time (see KeyStore and Cipher). The
//     private key is optional: public-only builds report ErrNoPrivateKey on decryption.
//
//   - An OPAQUE (RFC 9807) client on the ristretto255-SHA512 suite, bound to a pinned server public key. A Client
//     produces the RegistrationRequest and KE1 messages from a password and a single-use ClientState, and completes
//     the flows with FinalizeRegistration and GenerateKE3.
//
// Passwords are never retained: every step that needs the password takes it as an argument. A ClientState is consumed
// by exactly one flow and must be released with Destroy.
//
// The C ABI in cmd/libecliptix exposes these services to native hosts.
package ecliptix
