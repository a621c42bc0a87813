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
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Signing and verification key for the all-zero seed
const (
	testSKeyJSON = `{
    "type": "PaymentSigningKey_ed25519",
    "description": "Payment Signing Key",
    "cborHex": "58200000000000000000000000000000000000000000000000000000000000000000"
}`
	testVKeyJSON = `{
    "type": "PaymentVerificationKey_ed25519",
    "description": "Payment Verification Key",
    "cborHex": "58203b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29"
}`
)

func writeTestFile(t *testing.T, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	return path
}

func TestLoadSigningKey(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Setenv(envAllowInsecureKeyPerms, "true")
	}
	sk, err := LoadSigningKey(writeTestFile(t, "test.skey", testSKeyJSON, 0o600))
	require.NoError(t, err)
	vk, err := LoadVerificationKey(writeTestFile(t, "test.vkey", testVKeyJSON, 0o644))
	require.NoError(t, err)
	assert.Equal(t, vk, sk.VerificationKey())
	assert.Equal(t, address.FromVerificationKey(vk), sk.Address())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Setenv(envAllowInsecureKeyPerms, "true")
	}
	dir := t.TempDir()
	sk, err := Generate()
	require.NoError(t, err)
	skPath := filepath.Join(dir, "key.skey")
	vkPath := filepath.Join(dir, "key.vkey")
	require.NoError(t, sk.Save(skPath))
	require.NoError(t, SaveVerificationKey(vkPath, sk.VerificationKey()))
	loaded, err := LoadSigningKey(skPath)
	require.NoError(t, err)
	assert.Equal(t, sk.PrivateKey(), loaded.PrivateKey())
	vk, err := LoadVerificationKey(vkPath)
	require.NoError(t, err)
	assert.Equal(t, sk.VerificationKey(), vk)
	// A signing key file also yields its verification key
	vk, err = LoadVerificationKey(skPath)
	require.NoError(t, err)
	assert.Equal(t, sk.VerificationKey(), vk)
	// Existing keys are never overwritten
	require.Error(t, sk.Save(skPath))
}

func TestInsecureFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}
	path := writeTestFile(t, "test.skey", testSKeyJSON, 0o600)
	require.NoError(t, os.Chmod(path, 0o644))
	_, err := LoadSigningKey(path)
	require.ErrorIs(t, err, ErrInsecureFileMode)
	// Verification keys are public
	_, err = LoadVerificationKey(path)
	require.NoError(t, err)
}

func TestParseKeyEnvelopeErrors(t *testing.T) {
	testDefs := []struct {
		name     string
		content  string
		expected error
	}{
		{
			name:     "unknown type",
			content:  `{"type": "VrfSigningKey_PraosVRF", "cborHex": "4100"}`,
			expected: ErrUnknownKeyType,
		},
		{
			name:     "short signing key",
			content:  `{"type": "PaymentSigningKey_ed25519", "cborHex": "43010203"}`,
			expected: ErrInvalidKey,
		},
		{
			name:     "short verification key",
			content:  `{"type": "PaymentVerificationKey_ed25519", "cborHex": "43010203"}`,
			expected: ErrInvalidKey,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, _, err := parseKeyEnvelope([]byte(testDef.content))
			require.ErrorIs(t, err, testDef.expected)
		})
	}
	_, _, err := parseKeyEnvelope([]byte("not json"))
	require.Error(t, err)
	_, _, err = parseKeyEnvelope([]byte(`{"type": "x", "cborHex": "zz"}`))
	require.Error(t, err)
}

func TestLoadSigningKeyWrongType(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Setenv(envAllowInsecureKeyPerms, "true")
	}
	_, err := LoadSigningKey(writeTestFile(t, "test.vkey", testVKeyJSON, 0o600))
	require.ErrorIs(t, err, ErrWrongKeyType)
}

func TestSignTx(t *testing.T) {
	sk, err := FromSeed(make([]byte, ed25519.SeedSize))
	require.NoError(t, err)
	body, err := tx.New(0, tx.NativeAddress, tx.EntrypointTransfer, 1, &tx.TransferParams{To: sk.Address().Bytes()})
	require.NoError(t, err)
	signed, err := sk.SignTx(body)
	require.NoError(t, err)
	require.NoError(t, signed.Verify())
	assert.Equal(t, sk.Address(), signed.Sender())
	_, err = FromSeed([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidKey)
}
