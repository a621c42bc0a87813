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

package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/api"
	"github.com/FlorianSegard/blockchainProject/keystore"
	"github.com/FlorianSegard/blockchainProject/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Keep a developer's own config out of the way
	t.Setenv("HOME", t.TempDir())
	configFile = ""
	cmd := rootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "chirp "))
}

func TestListCommand(t *testing.T) {
	out, err := runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "badger")
	assert.Contains(t, out, "sqlite")
}

func TestKeygenCommand(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "alice")
	out, err := runCommand(t, "keygen", "--out", prefix)
	require.NoError(t, err)
	key, err := keystore.LoadSigningKey(prefix + ".skey")
	require.NoError(t, err)
	vkey, err := keystore.LoadVerificationKey(prefix + ".vkey")
	require.NoError(t, err)
	assert.True(t, key.VerificationKey().Equal(vkey))
	assert.Equal(t, key.Address().String(), strings.TrimSpace(out))
	// Existing key files are never overwritten
	_, err = runCommand(t, "keygen", "--out", prefix)
	require.Error(t, err)
}

func TestClientCommands(t *testing.T) {
	dir := t.TempDir()
	alice, err := keystore.Generate()
	require.NoError(t, err)
	keyFile := filepath.Join(dir, "alice.skey")
	require.NoError(t, alice.Save(keyFile))
	oracleKey, err := keystore.Generate()
	require.NoError(t, err)
	oracleKeyFile := filepath.Join(dir, "oracle.skey")
	require.NoError(t, oracleKey.Save(oracleKeyFile))
	ls, err := ledger.NewLedgerState(ledger.LedgerStateConfig{
		OraclePublicKey: oracleKey.VerificationKey(),
		DepositAmount:   100,
		Genesis:         map[address.Address]uint64{alice.Address(): 1000},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ls.Close() })
	server := httptest.NewServer(api.New(api.APIConfig{}, ls, nil).Handler())
	t.Cleanup(server.Close)

	out, err := runCommand(t, "register", "--key", keyFile, "--api", server.URL, "--username", "alice")
	require.NoError(t, err)
	var submitResp api.SubmitTxResponse
	require.NoError(t, json.Unmarshal([]byte(out), &submitResp))
	require.NotNil(t, submitResp.ID)
	assert.Equal(t, uint64(0), *submitResp.ID)

	_, err = runCommand(t, "post", "--key", keyFile, "--api", server.URL, "hello chirp")
	require.NoError(t, err)
	// Rejections come back with their reason
	_, err = runCommand(t, "post", "--key", keyFile, "--api", server.URL, "too soon")
	require.ErrorContains(t, err, "TOO_MANY_TWEETS_TOO_FAST")

	out, err = runCommand(t, "tweets", "--api", server.URL)
	require.NoError(t, err)
	var tweets []api.TweetResponse
	require.NoError(t, json.Unmarshal([]byte(out), &tweets))
	require.Len(t, tweets, 1)
	assert.Equal(t, "hello chirp", tweets[0].Content)

	out, err = runCommand(t, "account", "--key", keyFile, "--api", server.URL)
	require.NoError(t, err)
	var acct api.AccountResponse
	require.NoError(t, json.Unmarshal([]byte(out), &acct))
	assert.Equal(t, uint64(900), acct.Balance)
	assert.Equal(t, uint64(2), acct.Nonce)

	out, err = runCommand(t, "oracle", "pending", "--api", server.URL)
	require.NoError(t, err)
	var pending []api.OracleRequestResponse
	require.NoError(t, json.Unmarshal([]byte(out), &pending))
	require.Len(t, pending, 1)

	_, err = runCommand(t, "oracle", "answer", "--key", oracleKeyFile, "--api", server.URL, "--subject", alice.Address().String(), "--bot")
	require.NoError(t, err)
	isBot, answered, err := ls.IsBotting(alice.Address(), addressOf(t, pending[0].Requester))
	require.NoError(t, err)
	assert.True(t, answered)
	assert.True(t, isBot)

	_, err = runCommand(t, "delete-user", "--key", keyFile, "--api", server.URL)
	require.NoError(t, err)
	out, err = runCommand(t, "profile", "--api", server.URL, alice.Address().String())
	require.NoError(t, err)
	var profile api.ProfileResponse
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.True(t, profile.Deleted)
	assert.Equal(t, uint64(0), profile.Deposit)
}

func addressOf(t *testing.T, s string) address.Address {
	t.Helper()
	addr, err := address.Parse(s)
	require.NoError(t, err)
	return addr
}
