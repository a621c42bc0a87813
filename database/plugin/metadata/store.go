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

package metadata

import (
	"fmt"

	"github.com/FlorianSegard/blockchainProject/database/models"
	"github.com/FlorianSegard/blockchainProject/database/plugin"
	"github.com/FlorianSegard/blockchainProject/database/types"
	"gorm.io/gorm"
)

// MetadataStore is the relational side of the database. All getters return
// nil without an error when the record does not exist. A nil txn runs the
// call outside of any transaction.
type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
	Transaction() types.Txn

	// Accounts
	GetAccount([]byte, types.Txn) (*models.Account, error)
	SetAccount(*models.Account, types.Txn) error

	// Counters
	GetCounter(string, string, types.Txn) (uint64, error)
	SetCounter(string, string, uint64, types.Txn) error

	// User registry
	GetProfile([]byte, types.Txn) (*models.Profile, error)
	SetProfile(*models.Profile, types.Txn) error
	GetDeposit([]byte, types.Txn) (*models.Deposit, error)
	SetDeposit(*models.Deposit, types.Txn) error

	// Tweet store
	GetTweet(uint64, types.Txn) (*models.Tweet, error)
	GetTweets(types.Txn) ([]models.Tweet, error)
	SetTweet(*models.Tweet, types.Txn) error
	GetLastTweet([]byte, types.Txn) (*models.LastTweet, error)
	SetLastTweet(*models.LastTweet, types.Txn) error

	// Bot oracle
	GetOracleRequest([]byte, []byte, types.Txn) (*models.OracleRequest, error)
	GetPendingOracleRequests(types.Txn) ([]models.OracleRequest, error)
	SetOracleRequest(*models.OracleRequest, types.Txn) error
}

// New starts the named metadata store plugin
func New(pluginName string, opts plugin.Options) (MetadataStore, error) {
	p, err := plugin.StartPlugin(plugin.PluginTypeMetadata, pluginName, opts)
	if err != nil {
		return nil, err
	}
	metadataStore, ok := p.(MetadataStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement MetadataStore interface",
			pluginName,
		)
	}
	return metadataStore, nil
}
