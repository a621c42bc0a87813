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

package client_test

import (
	"crypto/sha256"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/api"
	"github.com/FlorianSegard/blockchainProject/client"
	"github.com/FlorianSegard/blockchainProject/contract"
	"github.com/FlorianSegard/blockchainProject/keystore"
	"github.com/FlorianSegard/blockchainProject/ledger"
	"github.com/FlorianSegard/blockchainProject/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDeposit uint64 = 100

func testKey(t *testing.T, name string) *keystore.SigningKey {
	t.Helper()
	seed := sha256.Sum256([]byte(name))
	key, err := keystore.FromSeed(seed[:])
	require.NoError(t, err)
	return key
}

func newTestClient(t *testing.T, funded ...*keystore.SigningKey) (*client.Client, *ledger.ManualClock) {
	t.Helper()
	clock := ledger.NewManualClock(time.Unix(1_700_000_000, 0))
	genesis := make(map[address.Address]uint64)
	for _, key := range funded {
		genesis[key.Address()] = 10 * testDeposit
	}
	ls, err := ledger.NewLedgerState(ledger.LedgerStateConfig{
		Clock:           clock,
		OraclePublicKey: testKey(t, "oracle").VerificationKey(),
		DepositAmount:   testDeposit,
		Genesis:         genesis,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ls.Close() })
	server := httptest.NewServer(api.New(api.APIConfig{}, ls, nil).Handler())
	t.Cleanup(server.Close)
	return client.NewClient(server.URL+"/", client.WithHTTPClient(server.Client())), clock
}

func TestClientRoundTrip(t *testing.T) {
	alice := testKey(t, "alice")
	c, clock := newTestClient(t, alice)
	ctx := t.Context()
	params, err := c.Params(ctx)
	require.NoError(t, err)
	assert.Equal(t, testDeposit, params.DepositAmount)
	resp, err := c.Call(
		ctx,
		alice,
		tx.RegistryAddress,
		tx.EntrypointRegister,
		params.DepositAmount,
		&tx.RegisterParams{Username: "alice"},
	)
	require.NoError(t, err)
	require.NotNil(t, resp.ID)
	assert.Equal(t, uint64(0), *resp.ID)
	clock.Advance(time.Minute)
	resp, err = c.Call(ctx, alice, tx.TweetStoreAddress, tx.EntrypointPostTweet, 0, &tx.PostTweetParams{Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.Seq)
	tweets, err := c.Tweets(ctx)
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	assert.Equal(t, "hi", tweets[0].Content)
	profile, err := c.Profile(ctx, alice.Address())
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, testDeposit, profile.Deposit)
	acct, err := c.Account(ctx, alice.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), acct.Nonce)
	pending, err := c.PendingOracleRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), health.Seq)
}

func TestClientRejectionUnwrapsToReason(t *testing.T) {
	bob := testKey(t, "bob")
	c, _ := newTestClient(t, bob)
	_, err := c.Call(
		t.Context(),
		bob,
		tx.RegistryAddress,
		tx.EntrypointRegister,
		testDeposit,
		&tx.RegisterParams{Username: "bob"},
	)
	require.NoError(t, err)
	_, err = c.Call(
		t.Context(),
		bob,
		tx.TweetStoreAddress,
		tx.EntrypointPostTweet,
		0,
		&tx.PostTweetParams{Content: strings.Repeat("a", 281)},
	)
	require.ErrorIs(t, err, contract.ErrTweetTooLong)
	var apiErr *client.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestClientProfileNotFound(t *testing.T) {
	c, _ := newTestClient(t)
	profile, err := c.Profile(t.Context(), testKey(t, "nobody").Address())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestClientNonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()
	_, err := client.NewClient(server.URL).Health(t.Context())
	var apiErr *client.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
	assert.NoError(t, apiErr.Unwrap())
}
