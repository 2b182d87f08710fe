// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ecliptix

import (
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/ecliptix/ecliptix/internal"
)

// phase tracks where a ClientState is in its single protocol flow.
type phase byte

const (
	phaseFresh phase = iota
	phaseRegistration
	phaseRegistered
	phaseLogin
	phaseFinished
	phaseAborted
	phaseDestroyed
)

func (p phase) String() string {
	switch p {
	case phaseFresh:
		return "fresh"
	case phaseRegistration:
		return "registration"
	case phaseRegistered:
		return "registered"
	case phaseLogin:
		return "login"
	case phaseFinished:
		return "finished"
	case phaseAborted:
		return "aborted"
	case phaseDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// ClientState holds the per-flow secrets of an OPAQUE client: the OPRF blind, the key exchange nonce and ephemeral
// key share, and the envelope nonce. All randomness is drawn at creation and the password is never stored.
//
// A state is consumed by exactly one flow: either CreateRegistrationRequest followed by FinalizeRegistration, or
// GenerateKE1 followed by GenerateKE3. A failed FinalizeRegistration or GenerateKE3 ends the flow, the state cannot be
// retried. It is not safe for concurrent use.
type ClientState struct {
	blind          *group.Scalar
	secretKeyShare *group.Scalar
	publicKeyShare *group.Element
	nonce          []byte
	envelopeNonce  []byte
	ke1            []byte
	sessionKey     []byte
	phase          phase
}

// NewClientState returns a fresh state with newly drawn randomness. Options may inject the random values.
func NewClientState(options ...*ClientStateOptions) (*ClientState, error) {
	conf := internal.NewConfiguration(nil, nil)

	o, err := parseClientStateOptions(conf, options)
	if err != nil {
		return nil, err
	}

	return &ClientState{
		blind:          o.blind,
		secretKeyShare: o.secretKeyShare,
		publicKeyShare: conf.Group.Base().Multiply(o.secretKeyShare),
		nonce:          o.nonce,
		envelopeNonce:  o.envelopeNonce,
		phase:          phaseFresh,
	}, nil
}

// expect checks that the state is in the required phase.
func (s *ClientState) expect(required phase) error {
	if s == nil {
		return ErrClientState.Join(internal.ErrStateDestroyed)
	}

	switch {
	case s.phase == phaseDestroyed:
		return ErrClientState.Join(internal.ErrStateDestroyed)
	case s.phase == required:
		return nil
	case required == phaseFresh, s.phase == phaseAborted:
		return ErrClientState.Join(internal.ErrStateConsumed)
	default:
		return ErrClientState.Join(fmt.Errorf("%w: state is %s, want %s", internal.ErrStateWrongPhase, s.phase, required))
	}
}

// abortOnError ends the flow if *err is set, so the state's secrets are not reused after a failed completion step.
func (s *ClientState) abortOnError(err *error) {
	if *err != nil {
		s.phase = phaseAborted
	}
}

// SessionKey returns a copy of the session key if a previous call to GenerateKE3 was successful, and nil otherwise.
func (s *ClientState) SessionKey() []byte {
	if s == nil || s.phase != phaseFinished {
		return nil
	}

	return copyBytes(s.sessionKey)
}

// Destroy attempts to zero out the state's secrets and makes it unusable. It is safe to call on a nil state and more
// than once.
func (s *ClientState) Destroy() {
	if s == nil {
		return
	}

	internal.ClearScalar(&s.blind)
	internal.ClearScalar(&s.secretKeyShare)
	internal.ClearSlice(&s.nonce)
	internal.ClearSlice(&s.envelopeNonce)
	internal.ClearSlice(&s.ke1)
	internal.ClearSlice(&s.sessionKey)
	s.publicKeyShare = nil
	s.phase = phaseDestroyed
}
