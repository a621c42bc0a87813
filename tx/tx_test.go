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

package tx_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	body, err := tx.New(
		3,
		tx.TweetStoreAddress,
		tx.EntrypointPostTweet,
		0,
		&tx.PostTweetParams{Content: "hello"},
	)
	require.NoError(t, err)
	signed, err := tx.Sign(body, priv)
	require.NoError(t, err)
	require.NoError(t, signed.Verify())
	assert.Equal(t, address.FromVerificationKey(pub), signed.Sender())
	target, err := signed.Target()
	require.NoError(t, err)
	assert.Equal(t, tx.TweetStoreAddress, target)

	encoded, err := signed.Hex()
	require.NoError(t, err)
	decoded, err := tx.DecodeHex(encoded)
	require.NoError(t, err)
	require.NoError(t, decoded.Verify())
	hash1, err := signed.Hash()
	require.NoError(t, err)
	hash2, err := decoded.Hash()
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)
	var params tx.PostTweetParams
	require.NoError(t, tx.DecodeParams(decoded.Body.Params, &params))
	assert.Equal(t, "hello", params.Content)
}

func TestVerifyRejectsTampering(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	body, err := tx.New(0, tx.NativeAddress, tx.EntrypointTransfer, 10, &tx.TransferParams{
		To: address.Contract("someone").Bytes(),
	})
	require.NoError(t, err)
	signed, err := tx.Sign(body, priv)
	require.NoError(t, err)
	signed.Body.Amount = 1000
	require.ErrorIs(t, signed.Verify(), tx.ErrInvalidSignature)
	signed.VKey = []byte{1}
	require.ErrorIs(t, signed.Verify(), tx.ErrInvalidVKey)
}

func TestNilParams(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	body, err := tx.New(0, tx.RegistryAddress, tx.EntrypointDeleteUser, 0, nil)
	require.NoError(t, err)
	assert.Nil(t, body.Params)
	signed, err := tx.Sign(body, priv)
	require.NoError(t, err)
	data, err := signed.Bytes()
	require.NoError(t, err)
	decoded, err := tx.Decode(data)
	require.NoError(t, err)
	require.NoError(t, decoded.Verify())
}

func TestDecodeGarbage(t *testing.T) {
	_, err := tx.DecodeHex("zz")
	require.Error(t, err)
	_, err = tx.Decode([]byte{0x01, 0x02})
	require.Error(t, err)
}
