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

	"github.com/ecliptix/ecliptix/internal"
	"github.com/ecliptix/ecliptix/message"
)

var (
	errInvalidBlindedData   = errors.New("blinded data is an invalid point")
	errInvalidClientEPK     = errors.New("invalid ephemeral client public key")
	errInvalidEvaluatedData = errors.New("invalid OPRF evaluation")
	errInvalidServerEPK     = errors.New("invalid ephemeral server public key")
	errInvalidServerPK      = errors.New("invalid server public key")
)

// Deserializer exposes the message deserialization functions.
type Deserializer struct {
	conf *internal.Configuration
}

// RegistrationRequest takes a serialized RegistrationRequest message and returns a deserialized
// RegistrationRequest structure.
func (d *Deserializer) RegistrationRequest(registrationRequest []byte) (*message.RegistrationRequest, error) {
	if len(registrationRequest) != d.conf.ElementLength() {
		return nil, ErrRegistrationRequest.Join(internal.ErrInvalidMessageLength)
	}

	blindedMessage, err := d.conf.DecodeElement(registrationRequest)
	if err != nil {
		return nil, ErrRegistrationRequest.Join(errInvalidBlindedData, err)
	}

	return &message.RegistrationRequest{BlindedMessage: blindedMessage}, nil
}

// RegistrationResponse takes a serialized RegistrationResponse message and returns a deserialized
// RegistrationResponse structure.
func (d *Deserializer) RegistrationResponse(registrationResponse []byte) (*message.RegistrationResponse, error) {
	if len(registrationResponse) != d.conf.RegistrationResponseLength() {
		return nil, ErrRegistrationResponse.Join(internal.ErrInvalidMessageLength)
	}

	evaluatedMessage, err := d.conf.DecodeElement(registrationResponse[:d.conf.ElementLength()])
	if err != nil {
		return nil, ErrRegistrationResponse.Join(errInvalidEvaluatedData, err)
	}

	pks, err := d.conf.DecodeElement(registrationResponse[d.conf.ElementLength():])
	if err != nil {
		return nil, ErrRegistrationResponse.Join(errInvalidServerPK, err)
	}

	return &message.RegistrationResponse{
		EvaluatedMessage: evaluatedMessage,
		Pks:              pks,
	}, nil
}

// KE1 takes a serialized KE1 message and returns a deserialized KE1 structure.
func (d *Deserializer) KE1(ke1 []byte) (*message.KE1, error) {
	if len(ke1) != d.conf.KE1Length() {
		return nil, ErrKE1.Join(internal.ErrInvalidMessageLength)
	}

	pointLength := d.conf.ElementLength()

	blindedMessage, err := d.conf.DecodeElement(ke1[:pointLength])
	if err != nil {
		return nil, ErrKE1.Join(errInvalidBlindedData, err)
	}

	epku, err := d.conf.DecodeElement(ke1[pointLength+d.conf.NonceLen:])
	if err != nil {
		return nil, ErrKE1.Join(errInvalidClientEPK, err)
	}

	return &message.KE1{
		CredentialRequest:    &message.CredentialRequest{BlindedMessage: blindedMessage},
		ClientNonce:          ke1[pointLength : pointLength+d.conf.NonceLen],
		ClientPublicKeyshare: epku,
	}, nil
}

// KE2 takes a serialized KE2 message and returns a deserialized KE2 structure.
func (d *Deserializer) KE2(ke2 []byte) (*message.KE2, error) {
	if len(ke2) != d.conf.KE2Length() {
		return nil, ErrKE2.Join(internal.ErrInvalidMessageLength)
	}

	pointLength := d.conf.ElementLength()

	evaluatedMessage, err := d.conf.DecodeElement(ke2[:pointLength])
	if err != nil {
		return nil, ErrKE2.Join(errInvalidEvaluatedData, err)
	}

	offset := pointLength
	maskingNonce := ke2[offset : offset+d.conf.NonceLen]
	offset += d.conf.NonceLen
	maskedResponse := ke2[offset : offset+d.conf.MaskedResponseLength()]
	offset += d.conf.MaskedResponseLength()
	nonceS := ke2[offset : offset+d.conf.NonceLen]
	offset += d.conf.NonceLen

	epks, err := d.conf.DecodeElement(ke2[offset : offset+pointLength])
	if err != nil {
		return nil, ErrKE2.Join(errInvalidServerEPK, err)
	}

	offset += pointLength

	return &message.KE2{
		CredentialResponse: &message.CredentialResponse{
			EvaluatedMessage: evaluatedMessage,
			MaskingNonce:     maskingNonce,
			MaskedResponse:   maskedResponse,
		},
		ServerNonce:          nonceS,
		ServerPublicKeyshare: epks,
		ServerMac:            ke2[offset:],
	}, nil
}

// KE3 takes a serialized KE3 message and returns a deserialized KE3 structure.
func (d *Deserializer) KE3(ke3 []byte) (*message.KE3, error) {
	if len(ke3) != d.conf.MAC.Size() {
		return nil, ErrKE3.Join(internal.ErrInvalidMessageLength)
	}

	return &message.KE3{ClientMac: ke3}, nil
}
