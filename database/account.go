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

// GetAccount returns the account for an address. A missing account is
// returned as a zero-balance account that has not been saved yet.
func (d *Database) GetAccount(
	addr []byte,
	txn *Txn,
) (*models.Account, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	account, err := d.metadata.GetAccount(addr, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if account == nil {
		return &models.Account{Address: addr}, nil
	}
	return account, nil
}

func (d *Database) SetAccount(account *models.Account, txn *Txn) error {
	if txn == nil {
		return d.metadata.SetAccount(account, nil)
	}
	return d.metadata.SetAccount(account, txn.Metadata())
}
