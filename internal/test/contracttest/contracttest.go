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

// Package contracttest wires the three contracts over an in-memory
// database for contract-level tests
package contracttest

import (
	"context"
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract"
	"github.com/FlorianSegard/blockchainProject/contract/botoracle"
	"github.com/FlorianSegard/blockchainProject/contract/registry"
	"github.com/FlorianSegard/blockchainProject/contract/tweetstore"
	"github.com/FlorianSegard/blockchainProject/database"
	"github.com/FlorianSegard/blockchainProject/database/types"
	"github.com/FlorianSegard/blockchainProject/event"
	"github.com/stretchr/testify/require"
)

// DepositAmount is the registration stake used by the harness
const DepositAmount uint64 = 1000

var ErrInsufficientFunds = errors.New("insufficient funds")

// Host moves balances between accounts in the database
type Host struct {
	DB *database.Database
}

func (h *Host) Transfer(
	txn *database.Txn,
	from, to address.Address,
	amount uint64,
) error {
	src, err := h.DB.GetAccount(from.Bytes(), txn)
	if err != nil {
		return err
	}
	if uint64(src.Balance) < amount {
		return ErrInsufficientFunds
	}
	dst, err := h.DB.GetAccount(to.Bytes(), txn)
	if err != nil {
		return err
	}
	src.Balance -= types.Uint64(amount)
	if err := h.DB.SetAccount(src, txn); err != nil {
		return err
	}
	dst.Balance += types.Uint64(amount)
	return h.DB.SetAccount(dst, txn)
}

type Harness struct {
	DB         *database.Database
	Host       *Host
	Oracle     *botoracle.BotOracle
	Registry   *registry.Registry
	TweetStore *tweetstore.TweetStore
	OracleKey  ed25519.PrivateKey
}

func New(t *testing.T) *Harness {
	t.Helper()
	db, err := database.New(&database.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	oracle, err := botoracle.New(botoracle.Config{DB: db, PublicKey: pub})
	require.NoError(t, err)
	reg, err := registry.New(registry.Config{
		DB:            db,
		Oracle:        oracle,
		DepositAmount: DepositAmount,
	})
	require.NoError(t, err)
	store, err := tweetstore.New(db, reg)
	require.NoError(t, err)
	return &Harness{
		DB:         db,
		Host:       &Host{DB: db},
		Oracle:     oracle,
		Registry:   reg,
		TweetStore: store,
		OracleKey:  priv,
	}
}

// Account returns a fresh funded account
func (h *Harness) Account(t *testing.T, seed string, balance uint64) address.Address {
	t.Helper()
	addr := address.FromVerificationKey([]byte(seed))
	txn := h.DB.Transaction(true)
	acct, err := h.DB.GetAccount(addr.Bytes(), txn)
	require.NoError(t, err)
	acct.Balance = types.Uint64(balance)
	require.NoError(t, h.DB.SetAccount(acct, txn))
	require.NoError(t, txn.Commit())
	return addr
}

// Balance returns the balance of an account
func (h *Harness) Balance(t *testing.T, addr address.Address) uint64 {
	t.Helper()
	acct, err := h.DB.GetAccount(addr.Bytes(), nil)
	require.NoError(t, err)
	return uint64(acct.Balance)
}

// Invoke runs fn as one atomic call from sender to target with amount
// attached, and returns the events it emitted if it committed
func (h *Harness) Invoke(
	sender, target address.Address,
	amount uint64,
	now int64,
	fn func(*contract.Call) error,
) ([]event.Event, error) {
	var events []event.Event
	txn := h.DB.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		if amount > 0 {
			if err := h.Host.Transfer(txn, sender, target, amount); err != nil {
				return err
			}
		}
		call := contract.NewCall(
			context.Background(),
			txn,
			h.Host,
			sender,
			amount,
			now,
		)
		if err := fn(call); err != nil {
			return err
		}
		events = call.Events()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Register registers sender with the harness deposit
func (h *Harness) Register(
	sender address.Address,
	username, bio string,
	now int64,
) (uint64, error) {
	var id uint64
	_, err := h.Invoke(
		sender,
		registry.Address,
		DepositAmount,
		now,
		func(call *contract.Call) error {
			var err error
			id, err = h.Registry.Register(call, username, bio)
			return err
		},
	)
	return id, err
}

// Post posts a tweet as sender
func (h *Harness) Post(
	sender address.Address,
	content string,
	now int64,
) (uint64, error) {
	var id uint64
	_, err := h.Invoke(
		sender,
		tweetstore.Address,
		0,
		now,
		func(call *contract.Call) error {
			var err error
			id, err = h.TweetStore.PostTweet(call, content)
			return err
		},
	)
	return id, err
}

// Answer submits a signed verdict for a registry request on subject
func (h *Harness) Answer(
	sender, subject address.Address,
	isBot bool,
	now int64,
) error {
	msg, sig, err := botoracle.SignVerdict(
		h.OracleKey,
		subject,
		registry.Address,
		isBot,
	)
	if err != nil {
		return err
	}
	_, err = h.Invoke(
		sender,
		botoracle.Address,
		0,
		now,
		func(call *contract.Call) error {
			return h.Oracle.ReceiveResult(
				call,
				subject,
				registry.Address,
				msg,
				sig,
			)
		},
	)
	return err
}
