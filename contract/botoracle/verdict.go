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

package botoracle

import (
	"crypto/ed25519"
	"fmt"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/blinklabs-io/gouroboros/cbor"
)

// Verdict is the message signed by the oracle key. It encodes as the CBOR
// array [subject, requester, is_bot].
type Verdict struct {
	cbor.StructAsArray
	Subject   []byte
	Requester []byte
	IsBot     bool
}

func NewVerdict(subject, requester address.Address, isBot bool) Verdict {
	return Verdict{
		Subject:   subject.Bytes(),
		Requester: requester.Bytes(),
		IsBot:     isBot,
	}
}

func (v Verdict) Encode() ([]byte, error) {
	return cbor.Encode(&v)
}

// DecodeVerdict parses a signed verdict message
func DecodeVerdict(data []byte) (Verdict, error) {
	var v Verdict
	if _, err := cbor.Decode(data, &v); err != nil {
		return Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	if len(v.Subject) != address.Size || len(v.Requester) != address.Size {
		return Verdict{}, fmt.Errorf(
			"decode verdict: %w",
			address.ErrInvalidLength,
		)
	}
	return v, nil
}

// SignVerdict encodes a verdict and signs it, returning the message and
// its signature
func SignVerdict(
	key ed25519.PrivateKey,
	subject, requester address.Address,
	isBot bool,
) ([]byte, []byte, error) {
	msg, err := NewVerdict(subject, requester, isBot).Encode()
	if err != nil {
		return nil, nil, err
	}
	return msg, ed25519.Sign(key, msg), nil
}

// Attestation is the signed verdict kept for each answered request
type Attestation struct {
	cbor.StructAsArray
	Message   []byte
	Signature []byte
}
