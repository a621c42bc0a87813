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

package sqlite

import (
	"testing"

	"github.com/FlorianSegard/blockchainProject/database/models"
	"github.com/FlorianSegard/blockchainProject/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *MetadataStoreSqlite {
	t.Helper()
	store, err := New("", nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInMemoryStoresAreIsolated(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)
	require.NoError(t, a.SetCounter("tweetstore", "next_id", 7, nil))
	val, err := b.GetCounter("tweetstore", "next_id", nil)
	require.NoError(t, err)
	assert.Zero(t, val)
	val, err = a.GetCounter("tweetstore", "next_id", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), val)
}

func TestAccountUpsert(t *testing.T) {
	store := newTestStore(t)
	addr := make([]byte, 28)
	addr[0] = 1
	acct, err := store.GetAccount(addr, nil)
	require.NoError(t, err)
	assert.Nil(t, acct)
	require.NoError(t, store.SetAccount(
		&models.Account{Address: addr, Balance: 100},
		nil,
	))
	require.NoError(t, store.SetAccount(
		&models.Account{Address: addr, Balance: 40, Nonce: 3},
		nil,
	))
	acct, err = store.GetAccount(addr, nil)
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, types.Uint64(40), acct.Balance)
	assert.Equal(t, uint64(3), acct.Nonce)
}

func TestTransactionRollback(t *testing.T) {
	store := newTestStore(t)
	account := make([]byte, 28)
	txn := store.Transaction()
	require.NoError(t, store.SetProfile(
		&models.Profile{Account: account, Username: "alice"},
		txn,
	))
	require.NoError(t, txn.Rollback())
	profile, err := store.GetProfile(account, nil)
	require.NoError(t, err)
	assert.Nil(t, profile)
	// A finished transaction cannot be reused
	err = store.SetProfile(&models.Profile{Account: account}, txn)
	require.ErrorIs(t, err, types.ErrTxnFinished)
}

func TestProfileOverwrite(t *testing.T) {
	store := newTestStore(t)
	account := make([]byte, 28)
	txn := store.Transaction()
	profile := &models.Profile{Account: account, Username: "alice"}
	require.NoError(t, store.SetProfile(profile, txn))
	require.NoError(t, txn.Commit())
	loaded, err := store.GetProfile(account, nil)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	loaded.Deleted = true
	loaded.ProfileID = 1
	require.NoError(t, store.SetProfile(loaded, nil))
	reloaded, err := store.GetProfile(account, nil)
	require.NoError(t, err)
	assert.True(t, reloaded.Deleted)
	assert.Equal(t, uint64(1), reloaded.ProfileID)
	assert.Equal(t, loaded.ID, reloaded.ID)
}

func TestTweetsOrderedById(t *testing.T) {
	store := newTestStore(t)
	author := make([]byte, 28)
	for _, id := range []uint64{2, 0, 1} {
		require.NoError(t, store.SetTweet(
			&models.Tweet{Author: author, TweetID: id, Content: "hi"},
			nil,
		))
	}
	tweets, err := store.GetTweets(nil)
	require.NoError(t, err)
	require.Len(t, tweets, 3)
	for i, tweet := range tweets {
		assert.Equal(t, uint64(i), tweet.TweetID)
	}
	tweet, err := store.GetTweet(0, nil)
	require.NoError(t, err)
	require.NotNil(t, tweet)
	missing, err := store.GetTweet(9, nil)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPendingOracleRequests(t *testing.T) {
	store := newTestStore(t)
	subjectA := make([]byte, 28)
	subjectB := make([]byte, 28)
	subjectB[0] = 0xff
	requester := make([]byte, 28)
	requester[27] = 0x01
	require.NoError(t, store.SetOracleRequest(
		&models.OracleRequest{Subject: subjectA, Requester: requester},
		nil,
	))
	require.NoError(t, store.SetOracleRequest(
		&models.OracleRequest{Subject: subjectB, Requester: requester},
		nil,
	))
	req, err := store.GetOracleRequest(subjectA, requester, nil)
	require.NoError(t, err)
	require.NotNil(t, req)
	verdict := true
	req.Result = &verdict
	require.NoError(t, store.SetOracleRequest(req, nil))
	pending, err := store.GetPendingOracleRequests(nil)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, subjectB, pending[0].Subject)
}

func TestCommitTimestamp(t *testing.T) {
	store := newTestStore(t)
	ts, err := store.GetCommitTimestamp()
	require.NoError(t, err)
	assert.Zero(t, ts)
	txn := store.Transaction()
	require.NoError(t, store.SetCommitTimestamp(1234, txn))
	require.NoError(t, txn.Commit())
	ts, err = store.GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), ts)
}

func TestDBStatsMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	store, err := New("", nil, reg)
	require.NoError(t, err)
	defer store.Close()
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestOnDiskStore(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, nil, nil)
	require.NoError(t, err)
	require.NoError(t, store.SetCounter("registry", "next_id", 3, nil))
	require.NoError(t, store.Close())
	store, err = New(dir, nil, nil)
	require.NoError(t, err)
	defer store.Close()
	val, err := store.GetCounter("registry", "next_id", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), val)
}
