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

package ledger

import (
	"crypto/ed25519"
	"fmt"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract/botoracle"
	"github.com/FlorianSegard/blockchainProject/database"
	"github.com/FlorianSegard/blockchainProject/database/models"
	"github.com/blinklabs-io/gouroboros/cbor"
)

// view runs fn in a read-only transaction while holding the read lock
func (ls *LedgerState) view(fn func(txn *database.Txn) error) error {
	ls.RLock()
	defer ls.RUnlock()
	txn := ls.db.Transaction(false)
	defer txn.Release()
	return fn(txn)
}

// DepositAmount is the stake required to register
func (ls *LedgerState) DepositAmount() uint64 {
	return ls.registry.DepositAmount()
}

// OraclePublicKey is the key verdicts must be signed with
func (ls *LedgerState) OraclePublicKey() ed25519.PublicKey {
	return ls.oracle.PublicKey()
}

// Account returns the balance and nonce of an address. Unknown addresses
// have a zero account.
func (ls *LedgerState) Account(addr address.Address) (*models.Account, error) {
	var ret *models.Account
	err := ls.view(func(txn *database.Txn) error {
		var err error
		ret, err = ls.db.GetAccount(addr.Bytes(), txn)
		return err
	})
	return ret, err
}

// Nonce returns the nonce the next transaction from addr must carry
func (ls *LedgerState) Nonce(addr address.Address) (uint64, error) {
	acct, err := ls.Account(addr)
	if err != nil {
		return 0, err
	}
	return acct.Nonce, nil
}

// Profile returns the registry profile of an account, or nil
func (ls *LedgerState) Profile(account address.Address) (*models.Profile, error) {
	var ret *models.Profile
	err := ls.view(func(txn *database.Txn) error {
		var err error
		ret, err = ls.registry.Profile(txn, account)
		return err
	})
	return ret, err
}

// Deposit returns the deposit the registry holds for an account
func (ls *LedgerState) Deposit(account address.Address) (uint64, error) {
	var ret uint64
	err := ls.view(func(txn *database.Txn) error {
		var err error
		ret, err = ls.registry.Deposit(txn, account)
		return err
	})
	return ret, err
}

// ListTweets returns every stored tweet in id order, deleted ones included
func (ls *LedgerState) ListTweets() ([]models.Tweet, error) {
	var ret []models.Tweet
	err := ls.view(func(txn *database.Txn) error {
		var err error
		ret, err = ls.tweetStore.ListTweets(txn)
		return err
	})
	return ret, err
}

// IsBotting returns the verdict for a request and whether one exists
func (ls *LedgerState) IsBotting(
	subject, requester address.Address,
) (bool, bool, error) {
	var isBot, answered bool
	err := ls.view(func(txn *database.Txn) error {
		var err error
		isBot, answered, err = ls.oracle.GetIsBotting(txn, subject, requester)
		return err
	})
	return isBot, answered, err
}

// PendingOracleRequests returns the bot checks still waiting for a verdict
func (ls *LedgerState) PendingOracleRequests() ([]models.OracleRequest, error) {
	var ret []models.OracleRequest
	err := ls.view(func(txn *database.Txn) error {
		var err error
		ret, err = ls.oracle.PendingRequests(txn)
		return err
	})
	return ret, err
}

// Attestation returns the signed verdict stored for a request, or nil
func (ls *LedgerState) Attestation(
	subject, requester address.Address,
) (*botoracle.Attestation, error) {
	var ret *botoracle.Attestation
	err := ls.view(func(txn *database.Txn) error {
		var err error
		ret, err = ls.oracle.GetAttestation(txn, subject, requester)
		return err
	})
	return ret, err
}

// Seq returns the number of applied transactions
func (ls *LedgerState) Seq() (uint64, error) {
	var ret uint64
	err := ls.view(func(txn *database.Txn) error {
		var err error
		ret, err = ls.db.JournalLength(txn)
		return err
	})
	return ret, err
}

// JournalEntries returns up to limit applied transactions starting at seq
// from. A limit of zero returns all of them.
func (ls *LedgerState) JournalEntries(from uint64, limit int) ([]JournalEntry, error) {
	var ret []JournalEntry
	err := ls.view(func(txn *database.Txn) error {
		records, err := ls.db.JournalEntries(from, limit, txn)
		if err != nil {
			return err
		}
		ret = make([]JournalEntry, 0, len(records))
		for _, record := range records {
			var entry JournalEntry
			if _, err := cbor.Decode(record.Data, &entry); err != nil {
				return fmt.Errorf("decode journal entry %d: %w", record.Seq, err)
			}
			ret = append(ret, entry)
		}
		return nil
	})
	return ret, err
}
