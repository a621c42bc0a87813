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

package database

import (
	"github.com/FlorianSegard/blockchainProject/database/models"
)

func (d *Database) GetTweet(tweetID uint64, txn *Txn) (*models.Tweet, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	return d.metadata.GetTweet(tweetID, txn.Metadata())
}

// GetTweets returns all tweets ordered by id
func (d *Database) GetTweets(txn *Txn) ([]models.Tweet, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	return d.metadata.GetTweets(txn.Metadata())
}

func (d *Database) SetTweet(tweet *models.Tweet, txn *Txn) error {
	if txn == nil {
		return ErrReadWriteTxnRequired
	}
	return d.metadata.SetTweet(tweet, txn.Metadata())
}

func (d *Database) GetLastTweet(
	author []byte,
	txn *Txn,
) (*models.LastTweet, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	return d.metadata.GetLastTweet(author, txn.Metadata())
}

func (d *Database) SetLastTweet(lastTweet *models.LastTweet, txn *Txn) error {
	if txn == nil {
		return ErrReadWriteTxnRequired
	}
	return d.metadata.SetLastTweet(lastTweet, txn.Metadata())
}
