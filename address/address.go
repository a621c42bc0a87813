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

// Package address implements the 28-byte account identifiers used on the
// ledger, for both key-controlled accounts and contracts.
package address

import (
	"encoding/hex"
	"errors"
	"fmt"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

const (
	// Size is the length in bytes of an address
	Size = 28

	// Hrp is the bech32 human-readable part of a rendered address
	Hrp = "chirp"

	contractSeedPrefix = "chirp.contract."
)

var (
	ErrInvalidLength = errors.New("invalid address length")
	ErrInvalidHrp    = errors.New("invalid address prefix")
)

// Address identifies an account on the ledger
type Address lcommon.Blake2b224

// Zero is the empty address
var Zero Address

func hash224(data []byte) Address {
	h, err := blake2b.New(Size, nil)
	if err != nil {
		// Only fails for an invalid digest size
		panic(err)
	}
	h.Write(data)
	return Address(lcommon.NewBlake2b224(h.Sum(nil)))
}

// FromVerificationKey derives the address controlled by an ed25519
// verification key
func FromVerificationKey(vkey []byte) Address {
	return hash224(vkey)
}

// Contract returns the well-known address of a named contract
func Contract(name string) Address {
	return hash224([]byte(contractSeedPrefix + name))
}

// FromBytes builds an address from its raw bytes
func FromBytes(data []byte) (Address, error) {
	if len(data) != Size {
		return Zero, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidLength,
			Size,
			len(data),
		)
	}
	return Address(lcommon.NewBlake2b224(data)), nil
}

// Parse accepts either the bech32 form or the raw hex form of an address
func Parse(s string) (Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		// Fall back to hex
		raw, hexErr := hex.DecodeString(s)
		if hexErr != nil {
			return Zero, fmt.Errorf("failed to decode address %q: %w", s, err)
		}
		return FromBytes(raw)
	}
	if hrp != Hrp {
		return Zero, fmt.Errorf("%w: %s", ErrInvalidHrp, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Zero, fmt.Errorf("failed to convert address bits: %w", err)
	}
	return FromBytes(raw)
}

func (a Address) Bytes() []byte {
	ret := make([]byte, Size)
	copy(ret, a[:])
	return ret
}

func (a Address) IsZero() bool {
	return a == Zero
}

func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// String returns the bech32 encoding of the address
func (a Address) String() string {
	convData, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		return ""
	}
	encoded, err := bech32.Encode(Hrp, convData)
	if err != nil {
		return ""
	}
	return encoded
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(data []byte) error {
	tmp, err := Parse(string(data))
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}
