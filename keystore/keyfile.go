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

package keystore

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/blinklabs-io/gouroboros/cbor"
)

const (
	SigningKeyType      = "PaymentSigningKey_ed25519"
	VerificationKeyType = "PaymentVerificationKey_ed25519"

	signingKeyDescription      = "Payment Signing Key"
	verificationKeyDescription = "Payment Verification Key"

	// Valid key files are well under this size
	maxKeyFileSize = 1 << 20

	signingKeyFileMode      os.FileMode = 0o600
	verificationKeyFileMode os.FileMode = 0o644

	// Set to true to skip ACL checks on signing key files on Windows. Only
	// meant for machines where the ACLs were verified by hand.
	envAllowInsecureKeyPerms = "CHIRP_ALLOW_INSECURE_KEY_PERMS"
)

// keyFileEnvelope is the JSON text envelope shared with cardano-cli
type keyFileEnvelope struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CborHex     string `json:"cborHex"`
}

func encodeKeyEnvelope(keyType, description string, key []byte) ([]byte, error) {
	cborData, err := cbor.Encode(key)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key CBOR: %w", err)
	}
	data, err := json.MarshalIndent(
		keyFileEnvelope{
			Type:        keyType,
			Description: description,
			CborHex:     hex.EncodeToString(cborData),
		},
		"",
		"    ",
	)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// parseKeyEnvelope returns the key type and the raw key bytes of a key file
func parseKeyEnvelope(fileBytes []byte) (string, []byte, error) {
	var env keyFileEnvelope
	if err := json.Unmarshal(fileBytes, &env); err != nil {
		return "", nil, fmt.Errorf("could not parse key file envelope: %w", err)
	}
	cborData, err := hex.DecodeString(env.CborHex)
	if err != nil {
		return "", nil, fmt.Errorf("could not decode key from hex: %w", err)
	}
	var keyBytes []byte
	if _, err := cbor.Decode(cborData, &keyBytes); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal key CBOR: %w", err)
	}
	switch env.Type {
	case SigningKeyType:
		// Some tools append the verification key to the seed
		switch len(keyBytes) {
		case ed25519.SeedSize, ed25519.PrivateKeySize:
			return env.Type, keyBytes[:ed25519.SeedSize], nil
		}
		return "", nil, fmt.Errorf(
			"%w: signing key expected %d or %d bytes, got %d",
			ErrInvalidKey,
			ed25519.SeedSize,
			ed25519.PrivateKeySize,
			len(keyBytes),
		)
	case VerificationKeyType:
		if len(keyBytes) != ed25519.PublicKeySize {
			return "", nil, fmt.Errorf(
				"%w: verification key expected %d bytes, got %d",
				ErrInvalidKey,
				ed25519.PublicKeySize,
				len(keyBytes),
			)
		}
		return env.Type, keyBytes, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownKeyType, env.Type)
	}
}

// readKeyFile reads a key file. Signing keys are checked for group or other
// access on the open handle, so the check and the read see the same file.
func readKeyFile(path string, secret bool) (string, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open key file %q: %w", path, err)
	}
	defer f.Close()
	if secret {
		if err := checkOpenFilePermissions(f); err != nil {
			return "", nil, err
		}
	}
	data, err := io.ReadAll(io.LimitReader(f, maxKeyFileSize))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read key file %q: %w", path, err)
	}
	keyType, key, err := parseKeyEnvelope(data)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse key file %q: %w", path, err)
	}
	return keyType, key, nil
}

func writeKeyFile(path string, data []byte, mode os.FileMode) error {
	// O_EXCL keeps an existing key from being clobbered
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("failed to create key file %q: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write key file %q: %w", path, err)
	}
	return f.Close()
}
