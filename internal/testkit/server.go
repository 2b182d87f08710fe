// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package testkit provides the server half of OPAQUE registration and login, used to exercise the client's protocol
// steps end to end in tests.
package testkit

import (
	"crypto/subtle"
	"errors"

	group "github.com/bytemare/crypto"

	"github.com/ecliptix/ecliptix/internal"
	"github.com/ecliptix/ecliptix/internal/ake"
	"github.com/ecliptix/ecliptix/internal/encoding"
	"github.com/ecliptix/ecliptix/internal/masking"
	"github.com/ecliptix/ecliptix/internal/tag"
	"github.com/ecliptix/ecliptix/message"
)

var (
	// ErrClientAuthentication indicates the client's KE3 MAC did not verify.
	ErrClientAuthentication = errors.New("failed to authenticate client: invalid mac")

	// ErrInvalidRecord indicates a malformed registration record.
	ErrInvalidRecord = errors.New("invalid registration record")

	// ErrInvalidRequest indicates a malformed client message.
	ErrInvalidRequest = errors.New("invalid client message")
)

// Identities holds the optional client and server identities bound into the key exchange.
type Identities struct {
	Client []byte
	Server []byte
}

// Record is the server-side view of a registered client.
type Record struct {
	ClientPublicKey *group.Element
	MaskingKey      []byte
	Envelope        []byte
}

// Session holds the server's key exchange output until the client's KE3 is verified.
type Session struct {
	SessionKey        []byte
	expectedClientMac []byte
}

// Server is an OPAQUE server holding its long-term key pair and OPRF seed.
type Server struct {
	conf      *internal.Configuration
	secretKey *group.Scalar
	publicKey *group.Element
	oprfSeed  []byte
}

// NewServer returns a server with a fresh key pair and OPRF seed, bound to the application context.
func NewServer(context []byte) (*Server, error) {
	conf := internal.NewConfiguration(nil, context)

	sk, pk, err := ake.KeyGen(conf)
	if err != nil {
		return nil, err
	}

	return &Server{
		conf:      conf,
		secretKey: sk,
		publicKey: pk,
		oprfSeed:  internal.RandomBytes(conf.Hash.Size()),
	}, nil
}

// PublicKey returns the encoded server public key.
func (s *Server) PublicKey() []byte {
	return s.publicKey.Encode()
}

func (s *Server) oprfKey(credentialIdentifier []byte) (*group.Scalar, error) {
	seed := s.conf.KDF.Expand(s.oprfSeed, encoding.SuffixString(credentialIdentifier, tag.ExpandOPRF), internal.SeedLength)

	sk, _, err := s.conf.OPRF.DeriveKeyPair(seed, []byte(tag.DerivePrivateKey))

	return sk, err
}

func (s *Server) evaluate(blinded, credentialIdentifier []byte) (*group.Element, error) {
	element, err := s.conf.DecodeElement(blinded)
	if err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}

	key, err := s.oprfKey(credentialIdentifier)
	if err != nil {
		return nil, err
	}

	return s.conf.OPRF.Evaluate(key, element), nil
}

// RegistrationResponse evaluates the serialized registration request for the credential identifier.
func (s *Server) RegistrationResponse(request, credentialIdentifier []byte) ([]byte, error) {
	evaluated, err := s.evaluate(request, credentialIdentifier)
	if err != nil {
		return nil, err
	}

	return (&message.RegistrationResponse{
		EvaluatedMessage: evaluated,
		Pks:              s.publicKey,
	}).Serialize(), nil
}

// Register parses a serialized registration record.
func (s *Server) Register(record []byte) (*Record, error) {
	if len(record) != s.conf.RegistrationRecordLength() {
		return nil, ErrInvalidRecord
	}

	pointLength := s.conf.ElementLength()

	pk, err := s.conf.DecodeElement(record[:pointLength])
	if err != nil {
		return nil, errors.Join(ErrInvalidRecord, err)
	}

	return &Record{
		ClientPublicKey: pk,
		MaskingKey:      record[pointLength : pointLength+s.conf.Hash.Size()],
		Envelope:        record[pointLength+s.conf.Hash.Size():],
	}, nil
}

func (s *Server) parseKE1(ke1 []byte) (*message.KE1, error) {
	if len(ke1) != s.conf.KE1Length() {
		return nil, ErrInvalidRequest
	}

	pointLength := s.conf.ElementLength()

	blinded, err := s.conf.DecodeElement(ke1[:pointLength])
	if err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}

	epk, err := s.conf.DecodeElement(ke1[pointLength+s.conf.NonceLen:])
	if err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}

	return &message.KE1{
		CredentialRequest:    &message.CredentialRequest{BlindedMessage: blinded},
		ClientNonce:          ke1[pointLength : pointLength+s.conf.NonceLen],
		ClientPublicKeyshare: epk,
	}, nil
}

// KE2 responds to the serialized KE1 for a registered client, returning the serialized KE2 and the pending session.
func (s *Server) KE2(ke1, credentialIdentifier []byte, record *Record, identities *Identities) ([]byte, *Session, error) {
	request, err := s.parseKE1(ke1)
	if err != nil {
		return nil, nil, err
	}

	evaluated, err := s.evaluate(ke1[:s.conf.ElementLength()], credentialIdentifier)
	if err != nil {
		return nil, nil, err
	}

	maskingNonce, maskedResponse := masking.Mask(s.conf, nil, record.MaskingKey, s.publicKey.Encode(), record.Envelope)

	ids := &ake.Identities{}
	if identities != nil {
		ids.ClientIdentity = identities.Client
		ids.ServerIdentity = identities.Server
	}

	esk, _, err := ake.KeyGen(s.conf)
	if err != nil {
		return nil, nil, err
	}

	out := ake.ServerResponse(
		s.conf,
		ids.SetIdentities(record.ClientPublicKey, s.publicKey.Encode()),
		s.secretKey,
		esk,
		record.ClientPublicKey,
		internal.RandomBytes(s.conf.NonceLen),
		request,
		&message.CredentialResponse{
			EvaluatedMessage: evaluated,
			MaskingNonce:     maskingNonce,
			MaskedResponse:   maskedResponse,
		},
	)

	return out.KE2.Serialize(), &Session{
		SessionKey:        out.SessionSecret,
		expectedClientMac: out.ExpectedClientMac,
	}, nil
}

// Finish verifies the client's serialized KE3 against the pending session.
func (s *Server) Finish(session *Session, ke3 []byte) error {
	if subtle.ConstantTimeCompare(ke3, session.expectedClientMac) != 1 {
		return ErrClientAuthentication
	}

	return nil
}
