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
	"errors"
	"fmt"

	"github.com/FlorianSegard/blockchainProject/database/models"
	"github.com/FlorianSegard/blockchainProject/database/types"
	"gorm.io/gorm"
)

func (d *MetadataStoreSqlite) GetTweet(
	tweetID uint64,
	txn types.Txn,
) (*models.Tweet, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Tweet{}
	result := db.Where("tweet_id = ?", tweetID).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetTweets returns every tweet, deleted ones included, ordered by id
func (d *MetadataStoreSqlite) GetTweets(
	txn types.Txn,
) ([]models.Tweet, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Tweet
	if result := db.Order("tweet_id ASC").Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

func (d *MetadataStoreSqlite) SetTweet(
	tweet *models.Tweet,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Save(tweet); result.Error != nil {
		return fmt.Errorf("failed to save tweet: %w", result.Error)
	}
	return nil
}

func (d *MetadataStoreSqlite) GetLastTweet(
	author []byte,
	txn types.Txn,
) (*models.LastTweet, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.LastTweet{}
	result := db.Where("author = ?", author).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

func (d *MetadataStoreSqlite) SetLastTweet(
	lastTweet *models.LastTweet,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Save(lastTweet); result.Error != nil {
		return fmt.Errorf("failed to save last tweet marker: %w", result.Error)
	}
	return nil
}
