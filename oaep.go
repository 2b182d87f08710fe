// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ecliptix

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	_ "crypto/sha256" // registers SHA-224 and SHA-256
	_ "crypto/sha512" // registers the SHA-384 and SHA-512 family
	"errors"
	"fmt"
)

var (
	errPlaintextTooLong  = errors.New("plaintext exceeds the maximum OAEP payload")
	errCiphertextLength  = errors.New("ciphertext length does not match the modulus size")
	errKeyStoreNotLoaded = errors.New("key store is not loaded")
	errModulusTooSmall   = errors.New("modulus too small for the OAEP hash")
)

// Cipher performs RSA-OAEP encryption and decryption with the key store's keypair. The label is always empty.
type Cipher struct {
	keys *KeyStore
	hash crypto.Hash
}

// NewCipher returns a Cipher over keys. A nil configuration selects the default one.
func NewCipher(keys *KeyStore, c *Configuration) (*Cipher, error) {
	if c == nil {
		c = DefaultConfiguration()
	}

	if err := c.verify(); err != nil {
		return nil, err
	}

	if keys == nil || keys.public == nil {
		return nil, ErrInit.Join(errKeyStoreNotLoaded)
	}

	cipher := &Cipher{
		keys: keys,
		hash: c.OAEPHash,
	}

	if cipher.MaxPlaintextLength() < 0 {
		return nil, ErrConfiguration.Join(errModulusTooSmall)
	}

	return cipher, nil
}

// loaded reports whether the key store still holds its public key. Flush clears it.
func (c *Cipher) loaded() bool {
	return c.keys.public != nil
}

// MaxPlaintextLength returns the largest plaintext, in bytes, that Encrypt accepts. It is 0 once the key store is
// flushed.
func (c *Cipher) MaxPlaintextLength() int {
	if !c.loaded() {
		return 0
	}

	return c.keys.ModulusSize() - 2*c.hash.Size() - 2
}

// CiphertextLength returns the length of every ciphertext, which is the modulus size in bytes. It is 0 once the key
// store is flushed.
func (c *Cipher) CiphertextLength() int {
	if !c.loaded() {
		return 0
	}

	return c.keys.ModulusSize()
}

// Encrypt encrypts the plaintext with RSA-OAEP. Oversized input fails and is never truncated.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	if !c.loaded() {
		return nil, ErrInit.Join(errKeyStoreNotLoaded)
	}

	if len(plaintext) > c.MaxPlaintextLength() {
		return nil, ErrEncrypt.Join(fmt.Errorf("%w: %d > %d", errPlaintextTooLong, len(plaintext), c.MaxPlaintextLength()))
	}

	ciphertext, err := rsa.EncryptOAEP(c.hash.New(), rand.Reader, c.keys.public, plaintext, nil)
	if err != nil {
		return nil, ErrEncrypt.Join(err)
	}

	return ciphertext, nil
}

// Decrypt decrypts an RSA-OAEP ciphertext. It returns ErrNoPrivateKey when the key store is public-only.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if !c.loaded() {
		return nil, ErrInit.Join(errKeyStoreNotLoaded)
	}

	if !c.keys.HasPrivateKey() {
		return nil, ErrNoPrivateKey
	}

	if len(ciphertext) != c.CiphertextLength() {
		return nil, ErrDecrypt.Join(fmt.Errorf("%w: %d", errCiphertextLength, len(ciphertext)))
	}

	plaintext, err := rsa.DecryptOAEP(c.hash.New(), nil, c.keys.private, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt.Join(err)
	}

	return plaintext, nil
}
