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

// Package tx defines the signed transaction envelope submitted to the
// ledger and the parameters of each contract entrypoint
package tx

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

var (
	ErrInvalidSignature = errors.New("invalid transaction signature")
	ErrInvalidVKey      = errors.New("invalid verification key")
)

// Body is the signed part of a transaction
type Body struct {
	cbor.StructAsArray
	Nonce      uint64
	Contract   []byte
	Entrypoint string
	Amount     uint64
	Params     []byte
}

// Tx is a transaction body with the signer's key and signature
type Tx struct {
	cbor.StructAsArray
	Body      Body
	VKey      []byte
	Signature []byte
}

func (b *Body) Bytes() ([]byte, error) {
	return cbor.Encode(b)
}

// Hash is the BLAKE2b-256 digest of the encoded body
func (b *Body) Hash() (lcommon.Blake2b256, error) {
	data, err := b.Bytes()
	if err != nil {
		return lcommon.Blake2b256{}, err
	}
	return lcommon.Blake2b256Hash(data), nil
}

// Sign builds a transaction signed with key
func Sign(body Body, key ed25519.PrivateKey) (*Tx, error) {
	data, err := body.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode tx body: %w", err)
	}
	pub, ok := key.Public().(ed25519.PublicKey)
	if !ok {
		return nil, ErrInvalidVKey
	}
	return &Tx{
		Body:      body,
		VKey:      []byte(pub),
		Signature: ed25519.Sign(key, data),
	}, nil
}

// Verify checks the signature against the embedded verification key
func (t *Tx) Verify() error {
	if len(t.VKey) != ed25519.PublicKeySize {
		return ErrInvalidVKey
	}
	data, err := t.Body.Bytes()
	if err != nil {
		return fmt.Errorf("encode tx body: %w", err)
	}
	if !ed25519.Verify(ed25519.PublicKey(t.VKey), data, t.Signature) {
		return ErrInvalidSignature
	}
	return nil
}

// Sender is the address controlled by the signing key
func (t *Tx) Sender() address.Address {
	return address.FromVerificationKey(t.VKey)
}

// Target returns the contract the transaction is addressed to
func (t *Tx) Target() (address.Address, error) {
	return address.FromBytes(t.Body.Contract)
}

func (t *Tx) Hash() (lcommon.Blake2b256, error) {
	return t.Body.Hash()
}

func (t *Tx) Bytes() ([]byte, error) {
	return cbor.Encode(t)
}

// Hex returns the hex CBOR form accepted by the API
func (t *Tx) Hex() (string, error) {
	data, err := t.Bytes()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(data), nil
}

func Decode(data []byte) (*Tx, error) {
	var ret Tx
	if _, err := cbor.Decode(data, &ret); err != nil {
		return nil, fmt.Errorf("decode tx: %w", err)
	}
	return &ret, nil
}

func DecodeHex(s string) (*Tx, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode tx hex: %w", err)
	}
	return Decode(data)
}
