// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package keystore loads and stores the ed25519 keys that sign
// transactions and oracle verdicts. Keys use the cardano-cli JSON text
// envelope.
package keystore

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/tx"
)

var (
	ErrInsecureFileMode = errors.New("insecure file permissions")
	ErrInvalidKey       = errors.New("invalid key")
	ErrUnknownKeyType   = errors.New("unknown key type")
	ErrWrongKeyType     = errors.New("wrong key type")
)

// SigningKey is an ed25519 signing key
type SigningKey struct {
	key ed25519.PrivateKey
}

// Generate creates a random signing key
func Generate() (*SigningKey, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to generate key seed: %w", err)
	}
	return FromSeed(seed)
}

// FromSeed derives a signing key from a 32-byte seed
func FromSeed(seed []byte) (*SigningKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf(
			"%w: seed expected %d bytes, got %d",
			ErrInvalidKey,
			ed25519.SeedSize,
			len(seed),
		)
	}
	return &SigningKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

func (k *SigningKey) PrivateKey() ed25519.PrivateKey {
	return k.key
}

func (k *SigningKey) VerificationKey() ed25519.PublicKey {
	// Public of an ed25519.PrivateKey is always an ed25519.PublicKey
	return k.key.Public().(ed25519.PublicKey) //nolint:forcetypeassert
}

// Address is the ledger account controlled by the key
func (k *SigningKey) Address() address.Address {
	return address.FromVerificationKey(k.VerificationKey())
}

func (k *SigningKey) Sign(message []byte) []byte {
	return ed25519.Sign(k.key, message)
}

// SignTx signs a transaction body
func (k *SigningKey) SignTx(body tx.Body) (*tx.Tx, error) {
	return tx.Sign(body, k.key)
}

// Save writes the signing key to path with owner-only permissions. It
// refuses to overwrite an existing file.
func (k *SigningKey) Save(path string) error {
	data, err := encodeKeyEnvelope(
		SigningKeyType,
		signingKeyDescription,
		k.key.Seed(),
	)
	if err != nil {
		return err
	}
	return writeKeyFile(path, data, signingKeyFileMode)
}

// SaveVerificationKey writes an ed25519 verification key to path
func SaveVerificationKey(path string, vkey ed25519.PublicKey) error {
	if len(vkey) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: verification key has %d bytes", ErrInvalidKey, len(vkey))
	}
	data, err := encodeKeyEnvelope(
		VerificationKeyType,
		verificationKeyDescription,
		vkey,
	)
	if err != nil {
		return err
	}
	return writeKeyFile(path, data, verificationKeyFileMode)
}

// LoadSigningKey reads a signing key file. Returns ErrInsecureFileMode if
// the file is accessible by anyone but its owner.
func LoadSigningKey(path string) (*SigningKey, error) {
	keyType, key, err := readKeyFile(path, true)
	if err != nil {
		return nil, err
	}
	if keyType != SigningKeyType {
		return nil, fmt.Errorf("%w: %q holds a %s", ErrWrongKeyType, path, keyType)
	}
	return FromSeed(key)
}

// LoadVerificationKey reads a verification key file. Since verification
// keys are public, file permissions are not checked. A signing key file is
// also accepted and yields its verification key.
func LoadVerificationKey(path string) (ed25519.PublicKey, error) {
	keyType, key, err := readKeyFile(path, false)
	if err != nil {
		return nil, err
	}
	switch keyType {
	case VerificationKeyType:
		return ed25519.PublicKey(key), nil
	default:
		sk, err := FromSeed(key)
		if err != nil {
			return nil, err
		}
		return sk.VerificationKey(), nil
	}
}
