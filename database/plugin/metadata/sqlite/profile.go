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

func (d *MetadataStoreSqlite) GetProfile(
	account []byte,
	txn types.Txn,
) (*models.Profile, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Profile{}
	result := db.Where("account = ?", account).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// SetProfile inserts a new profile or overwrites an existing one, matched
// by row id
func (d *MetadataStoreSqlite) SetProfile(
	profile *models.Profile,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Save(profile); result.Error != nil {
		return fmt.Errorf("failed to save profile: %w", result.Error)
	}
	return nil
}

func (d *MetadataStoreSqlite) GetDeposit(
	account []byte,
	txn types.Txn,
) (*models.Deposit, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Deposit{}
	result := db.Where("account = ?", account).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

func (d *MetadataStoreSqlite) SetDeposit(
	deposit *models.Deposit,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Save(deposit); result.Error != nil {
		return fmt.Errorf("failed to save deposit: %w", result.Error)
	}
	return nil
}
