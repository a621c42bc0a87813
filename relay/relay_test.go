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

package relay_test

import (
	"context"
	"crypto/sha256"
	"strings"
	"testing"
	"time"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/event"
	"github.com/FlorianSegard/blockchainProject/internal/test/testutil"
	"github.com/FlorianSegard/blockchainProject/keystore"
	"github.com/FlorianSegard/blockchainProject/ledger"
	"github.com/FlorianSegard/blockchainProject/relay"
	"github.com/FlorianSegard/blockchainProject/tx"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testDeposit uint64 = 100

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(
		m,
		goleak.IgnoreAnyFunction("database/sql.(*DB).connectionOpener"),
	)
}

type fixture struct {
	ls    *ledger.LedgerState
	bus   *event.EventBus
	key   *keystore.SigningKey
	reg   *prometheus.Registry
	users map[string]*keystore.SigningKey
}

func testKey(t *testing.T, name string) *keystore.SigningKey {
	t.Helper()
	seed := sha256.Sum256([]byte(name))
	key, err := keystore.FromSeed(seed[:])
	require.NoError(t, err)
	return key
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	f := &fixture{
		bus:   event.NewEventBus(nil, nil),
		key:   testKey(t, "oracle"),
		reg:   prometheus.NewRegistry(),
		users: make(map[string]*keystore.SigningKey),
	}
	genesis := make(map[address.Address]uint64)
	for _, name := range names {
		f.users[name] = testKey(t, name)
		genesis[f.users[name].Address()] = 10 * testDeposit
	}
	ls, err := ledger.NewLedgerState(ledger.LedgerStateConfig{
		EventBus:        f.bus,
		OraclePublicKey: f.key.VerificationKey(),
		DepositAmount:   testDeposit,
		Genesis:         genesis,
	})
	require.NoError(t, err)
	f.ls = ls
	t.Cleanup(func() {
		f.bus.Stop()
		_ = ls.Close()
	})
	return f
}

func (f *fixture) register(t *testing.T, name, username, bio string) {
	t.Helper()
	key := f.users[name]
	nonce, err := f.ls.Nonce(key.Address())
	require.NoError(t, err)
	body, err := tx.New(
		nonce,
		tx.RegistryAddress,
		tx.EntrypointRegister,
		testDeposit,
		&tx.RegisterParams{Username: username, Bio: bio},
	)
	require.NoError(t, err)
	signed, err := key.SignTx(body)
	require.NoError(t, err)
	_, err = f.ls.Submit(context.Background(), signed)
	require.NoError(t, err)
}

func (f *fixture) startRelay(t *testing.T) *relay.Relay {
	t.Helper()
	r, err := relay.NewRelay(relay.RelayConfig{
		EventBus:     f.bus,
		PromRegistry: f.reg,
		Ledger:       f.ls,
		Key:          f.key,
	})
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(r.Stop)
	return r
}

func (f *fixture) waitForVerdict(t *testing.T, name string) bool {
	t.Helper()
	var isBot bool
	testutil.WaitForCondition(
		t,
		func() bool {
			var answered bool
			var err error
			isBot, answered, err = f.ls.IsBotting(f.users[name].Address(), tx.RegistryAddress)
			return err == nil && answered
		},
		5*time.Second,
		"verdict for "+name,
	)
	return isBot
}

func TestRelayAnswersNewRequests(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	_, resultCh := f.bus.Subscribe(event.OracleResultEventType)
	r := f.startRelay(t)
	f.register(t, "alice", "alice", "likes long walks")
	f.register(t, "bob", "bot12345", "")
	assert.False(t, f.waitForVerdict(t, "alice"))
	assert.True(t, f.waitForVerdict(t, "bob"))
	for range 2 {
		evt := testutil.RequireReceive(t, resultCh, time.Second, "oracle result event")
		_, ok := evt.Data.(event.OracleResultEvent)
		assert.True(t, ok)
	}
	nonce, err := f.ls.Nonce(r.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), nonce)
	pending, err := f.ls.PendingOracleRequests()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRelayAnswersBacklog(t *testing.T) {
	f := newFixture(t, "carol")
	f.register(t, "carol", "carol", "free crypto giveaway")
	pending, err := f.ls.PendingOracleRequests()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	f.startRelay(t)
	// Spam alone stays under the threshold
	assert.False(t, f.waitForVerdict(t, "carol"))
	pending, err = f.ls.PendingOracleRequests()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRelayMetrics(t *testing.T) {
	f := newFixture(t, "dave")
	f.startRelay(t)
	f.register(t, "dave", "dave0000", "")
	assert.True(t, f.waitForVerdict(t, "dave"))
	expected := `
# HELP chirp_relay_answers_total bot check verdicts submitted by verdict
# TYPE chirp_relay_answers_total counter
chirp_relay_answers_total{verdict="bot"} 1
`
	testutil.WaitForCondition(
		t,
		func() bool {
			return promtestutil.GatherAndCompare(
				f.reg,
				strings.NewReader(expected),
				"chirp_relay_answers_total",
			) == nil
		},
		time.Second,
		"relay metrics",
	)
}

func TestNewRelayRejectsWrongKey(t *testing.T) {
	f := newFixture(t)
	_, err := relay.NewRelay(relay.RelayConfig{
		EventBus: f.bus,
		Ledger:   f.ls,
		Key:      testKey(t, "impostor"),
	})
	require.ErrorIs(t, err, relay.ErrKeyMismatch)
}

func TestRelayStartTwice(t *testing.T) {
	f := newFixture(t)
	r := f.startRelay(t)
	require.ErrorIs(t, r.Start(context.Background()), relay.ErrAlreadyRunning)
}

func TestScore(t *testing.T) {
	testDefs := []struct {
		username string
		bio      string
		isBot    bool
	}{
		{username: "alice", bio: "photographer", isBot: false},
		{username: "alice", bio: "", isBot: false},
		{username: "user2024", bio: "", isBot: true},
		{username: "user2024", bio: "hello", isBot: false},
		{username: "bob", bio: "", isBot: false},
		{username: "deals", bio: " ", isBot: false},
		{username: "deals", bio: "Click HERE", isBot: false},
		{username: "freeStuff", bio: "", isBot: true},
		{username: "win1234", bio: "giveaway!", isBot: true},
	}
	for _, testDef := range testDefs {
		score := relay.Score(testDef.username, testDef.bio)
		assert.Equal(
			t,
			testDef.isBot,
			score >= relay.DefaultThreshold,
			"username %q bio %q scored %f",
			testDef.username,
			testDef.bio,
			score,
		)
	}
	assert.InDelta(t, 1.0, relay.Score("free1234", ""), 1e-9)
}
