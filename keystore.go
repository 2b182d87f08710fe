// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ecliptix

import (
	"crypto/rsa"
	"crypto/x509"
	"embed"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
)

const (
	// MinModulusBits is the smallest accepted RSA modulus size.
	MinModulusBits = 2048

	embeddedPublicKey  = "keys/client_public.pem"
	embeddedPrivateKey = "keys/client_private.pem"
)

var (
	errPEMBlock         = errors.New("no PEM block found")
	errNotRSA           = errors.New("key is not an RSA key")
	errWeakKey          = errors.New("RSA modulus is too small")
	errKeyMismatch      = errors.New("private key does not match the public key")
	errNoPublicKey      = errors.New("no public key provided")
	errUnknownBlockType = errors.New("unsupported PEM block type")
)

//go:embed keys/*.pem
var embeddedKeys embed.FS

// KeyStore holds the RSA keypair. The public key is always present, the private key is optional.
type KeyStore struct {
	public    *rsa.PublicKey
	private   *rsa.PrivateKey
	publicDER []byte
}

// EmbeddedKeyStore loads the keypair embedded at build time. The private key file is optional.
func EmbeddedKeyStore() (*KeyStore, error) {
	public, err := embeddedKeys.ReadFile(embeddedPublicKey)
	if err != nil {
		return nil, ErrInit.Join(err)
	}

	private, err := embeddedKeys.ReadFile(embeddedPrivateKey)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, ErrInit.Join(err)
	}

	return LoadKeyStore(public, private)
}

// LoadKeyStoreFiles loads the keypair from PEM files on disk. An empty privatePath yields a public-only key store.
func LoadKeyStoreFiles(publicPath, privatePath string) (*KeyStore, error) {
	public, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, ErrInit.Join(fmt.Errorf("cannot read RSA public key %s: %w", publicPath, err))
	}

	var private []byte

	if privatePath != "" {
		private, err = os.ReadFile(privatePath)
		if err != nil {
			return nil, ErrInit.Join(fmt.Errorf("cannot read RSA private key %s: %w", privatePath, err))
		}
	}

	return LoadKeyStore(public, private)
}

// LoadKeyStore parses a PEM encoded public key, and optionally a PEM encoded private key that must match it. A nil
// or empty privatePEM yields a public-only key store.
func LoadKeyStore(publicPEM, privatePEM []byte) (*KeyStore, error) {
	if len(publicPEM) == 0 {
		return nil, ErrInit.Join(errNoPublicKey)
	}

	public, err := parsePublicKey(publicPEM)
	if err != nil {
		return nil, ErrInit.Join(err)
	}

	if public.N.BitLen() < MinModulusBits {
		return nil, ErrInit.Join(fmt.Errorf("%w: %d bits", errWeakKey, public.N.BitLen()))
	}

	der, err := x509.MarshalPKIXPublicKey(public)
	if err != nil {
		return nil, ErrInit.Join(err)
	}

	k := &KeyStore{
		public:    public,
		publicDER: der,
	}

	if len(privatePEM) == 0 {
		return k, nil
	}

	private, err := parsePrivateKey(privatePEM)
	if err != nil {
		return nil, ErrInit.Join(err)
	}

	if !private.PublicKey.Equal(public) {
		return nil, ErrInit.Join(errKeyMismatch)
	}

	k.private = private

	return k, nil
}

func decodePEM(input []byte) (*pem.Block, error) {
	block, _ := pem.Decode(input)
	if block == nil {
		return nil, errPEMBlock
	}

	return block, nil
}

func parsePublicKey(input []byte) (*rsa.PublicKey, error) {
	block, err := decodePEM(input)
	if err != nil {
		return nil, err
	}

	switch block.Type {
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("cannot parse PKIX public key: %w", err)
		}

		public, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: %T", errNotRSA, key)
		}

		return public, nil
	case "RSA PUBLIC KEY":
		public, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("cannot parse PKCS1 public key: %w", err)
		}

		return public, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBlockType, block.Type)
	}
}

func parsePrivateKey(input []byte) (*rsa.PrivateKey, error) {
	block, err := decodePEM(input)
	if err != nil {
		return nil, err
	}

	// PKCS#1 first, then PKCS#8.
	key, err1 := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err1 == nil {
		return key, nil
	}

	key8, err8 := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err8 != nil {
		return nil, fmt.Errorf("cannot parse RSA private key (tried PKCS1: %w; PKCS8: %w)", err1, err8)
	}

	private, ok := key8.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", errNotRSA, key8)
	}

	return private, nil
}

// PublicKey returns the RSA public key.
func (k *KeyStore) PublicKey() *rsa.PublicKey {
	return k.public
}

// PublicKeyDER returns a copy of the DER encoded SubjectPublicKeyInfo of the public key.
func (k *KeyStore) PublicKeyDER() []byte {
	out := make([]byte, len(k.publicDER))
	copy(out, k.publicDER)

	return out
}

// HasPrivateKey returns whether a private key is loaded.
func (k *KeyStore) HasPrivateKey() bool {
	return k.private != nil
}

// ModulusSize returns the modulus size in bytes, which is the length of every ciphertext.
func (k *KeyStore) ModulusSize() int {
	return k.public.Size()
}

// Flush attempts to zero out the private exponent, the primes, and the CRT values, then drops all references. Copies
// held inside crypto/rsa are out of reach.
func (k *KeyStore) Flush() {
	if k.private != nil {
		zeroInts(k.private.D, k.private.Precomputed.Dp, k.private.Precomputed.Dq, k.private.Precomputed.Qinv)
		zeroInts(k.private.Primes...)

		for _, v := range k.private.Precomputed.CRTValues {
			zeroInts(v.Exp, v.Coeff, v.R)
		}

		k.private = nil
	}

	k.public = nil
	k.publicDER = nil
}

func zeroInts(values ...*big.Int) {
	for _, v := range values {
		if v != nil {
			v.SetInt64(0)
		}
	}
}
