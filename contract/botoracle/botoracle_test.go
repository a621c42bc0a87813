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

package botoracle_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract"
	"github.com/FlorianSegard/blockchainProject/contract/botoracle"
	"github.com/FlorianSegard/blockchainProject/contract/registry"
	"github.com/FlorianSegard/blockchainProject/internal/test/contracttest"
	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const start int64 = 1_700_000_000

func receive(
	h *contracttest.Harness,
	sender, subject, requester address.Address,
	msg, sig []byte,
) error {
	_, err := h.Invoke(sender, botoracle.Address, 0, start+10, func(call *contract.Call) error {
		return h.Oracle.ReceiveResult(call, subject, requester, msg, sig)
	})
	return err
}

func TestVerdictEncoding(t *testing.T) {
	subject := address.FromVerificationKey([]byte("subject"))
	msg, err := botoracle.NewVerdict(subject, registry.Address, true).Encode()
	require.NoError(t, err)
	// A three element CBOR array
	assert.Equal(t, byte(0x83), msg[0])
	verdict, err := botoracle.DecodeVerdict(msg)
	require.NoError(t, err)
	assert.Equal(t, subject.Bytes(), verdict.Subject)
	assert.True(t, verdict.IsBot)
	_, err = botoracle.DecodeVerdict([]byte{0x01})
	require.Error(t, err)
	short, err := cbor.Encode(&botoracle.Verdict{Subject: []byte{1}, Requester: []byte{2}})
	require.NoError(t, err)
	_, err = botoracle.DecodeVerdict(short)
	require.ErrorIs(t, err, address.ErrInvalidLength)
}

func TestNewRejectsBadKey(t *testing.T) {
	h := contracttest.New(t)
	_, err := botoracle.New(botoracle.Config{DB: h.DB, PublicKey: []byte{1, 2}})
	require.ErrorIs(t, err, botoracle.ErrInvalidPublicKey)
}

func TestRequestAlreadyExists(t *testing.T) {
	h := contracttest.New(t)
	subject := h.Account(t, "subject", 0)
	request := func() error {
		_, err := h.Invoke(registry.Address, botoracle.Address, 0, start, func(call *contract.Call) error {
			return h.Oracle.RequestBotChecking(call, subject)
		})
		return err
	}
	require.NoError(t, request())
	require.ErrorIs(t, request(), contract.ErrRequestAlreadyExists)
	// Another requester gets its own request
	_, err := h.Invoke(otherRequester(), botoracle.Address, 0, start, func(call *contract.Call) error {
		return h.Oracle.RequestBotChecking(call, subject)
	})
	require.NoError(t, err)
	pending, err := h.Oracle.PendingRequests(nil)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

// otherRequester stands in for a second contract asking for checks
func otherRequester() address.Address {
	return address.Contract("other")
}

func TestReceiveResultAnswersOnce(t *testing.T) {
	h := contracttest.New(t)
	subject := h.Account(t, "subject", 10*contracttest.DepositAmount)
	relay := h.Account(t, "relay", 0)
	_, err := h.Register(subject, "subject", "", start)
	require.NoError(t, err)
	_, ok, err := h.Oracle.GetIsBotting(nil, subject, registry.Address)
	require.NoError(t, err)
	assert.False(t, ok)
	msg, sig, err := botoracle.SignVerdict(h.OracleKey, subject, registry.Address, true)
	require.NoError(t, err)
	require.NoError(t, receive(h, relay, subject, registry.Address, msg, sig))
	isBot, ok, err := h.Oracle.GetIsBotting(nil, subject, registry.Address)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, isBot)
	attestation, err := h.Oracle.GetAttestation(nil, subject, registry.Address)
	require.NoError(t, err)
	require.NotNil(t, attestation)
	assert.Equal(t, msg, attestation.Message)
	assert.True(t, ed25519.Verify(h.Oracle.PublicKey(), attestation.Message, attestation.Signature))
	// A second valid answer is rejected
	msg, sig, err = botoracle.SignVerdict(h.OracleKey, subject, registry.Address, false)
	require.NoError(t, err)
	err = receive(h, relay, subject, registry.Address, msg, sig)
	require.ErrorIs(t, err, contract.ErrResultAlreadySet)
	isBot, _, err = h.Oracle.GetIsBotting(nil, subject, registry.Address)
	require.NoError(t, err)
	assert.True(t, isBot)
	pending, err := h.Oracle.PendingRequests(nil)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReceiveResultRejections(t *testing.T) {
	h := contracttest.New(t)
	subject := h.Account(t, "subject", 10*contracttest.DepositAmount)
	other := h.Account(t, "other", 0)
	relay := h.Account(t, "relay", 0)
	_, err := h.Register(subject, "subject", "", start)
	require.NoError(t, err)
	_, wrongKey, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	msg, sig, err := botoracle.SignVerdict(h.OracleKey, subject, registry.Address, true)
	require.NoError(t, err)
	badMsg, badSig, err := botoracle.SignVerdict(wrongKey, subject, registry.Address, true)
	require.NoError(t, err)
	otherMsg, otherSig, err := botoracle.SignVerdict(h.OracleKey, other, registry.Address, true)
	require.NoError(t, err)
	garbage := []byte("not cbor")
	testDefs := []struct {
		name     string
		subject  address.Address
		msg      []byte
		sig      []byte
		expected contract.Reason
	}{
		{"unsigned", subject, msg, nil, contract.ErrInvalidSignature},
		{"wrong key", subject, badMsg, badSig, contract.ErrInvalidSignature},
		{"tampered", subject, otherMsg, sig, contract.ErrInvalidSignature},
		{"malformed", subject, garbage, ed25519.Sign(h.OracleKey, garbage), contract.ErrMalformedMessage},
		{"mismatch", subject, otherMsg, otherSig, contract.ErrMessageMismatch},
		{"no request", other, otherMsg, otherSig, contract.ErrNoPendingRequest},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			err := receive(h, relay, testDef.subject, registry.Address, testDef.msg, testDef.sig)
			require.ErrorIs(t, err, testDef.expected)
		})
	}
	_, ok, err := h.Oracle.GetIsBotting(nil, subject, registry.Address)
	require.NoError(t, err)
	assert.False(t, ok)
	attestation, err := h.Oracle.GetAttestation(nil, subject, registry.Address)
	require.NoError(t, err)
	assert.Nil(t, attestation)
}
