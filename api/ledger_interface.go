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

package api

import (
	"context"
	"crypto/ed25519"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/database/models"
	"github.com/FlorianSegard/blockchainProject/ledger"
	"github.com/FlorianSegard/blockchainProject/tx"
)

// Ledger is what the API server needs from the ledger. It is satisfied by
// *ledger.LedgerState.
type Ledger interface {
	Submit(ctx context.Context, t *tx.Tx) (*ledger.Receipt, error)
	Seq() (uint64, error)
	Nonce(addr address.Address) (uint64, error)
	Account(addr address.Address) (*models.Account, error)
	Profile(account address.Address) (*models.Profile, error)
	Deposit(account address.Address) (uint64, error)
	ListTweets() ([]models.Tweet, error)
	PendingOracleRequests() ([]models.OracleRequest, error)
	DepositAmount() uint64
	OraclePublicKey() ed25519.PublicKey
}
