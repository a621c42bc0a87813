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

// GetProfile returns the registry profile of an account, or nil
func (d *Database) GetProfile(
	account []byte,
	txn *Txn,
) (*models.Profile, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	return d.metadata.GetProfile(account, txn.Metadata())
}

func (d *Database) SetProfile(profile *models.Profile, txn *Txn) error {
	if txn == nil {
		return ErrReadWriteTxnRequired
	}
	return d.metadata.SetProfile(profile, txn.Metadata())
}

// GetDeposit returns the deposit held for an account, or nil
func (d *Database) GetDeposit(
	account []byte,
	txn *Txn,
) (*models.Deposit, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	return d.metadata.GetDeposit(account, txn.Metadata())
}

func (d *Database) SetDeposit(deposit *models.Deposit, txn *Txn) error {
	if txn == nil {
		return ErrReadWriteTxnRequired
	}
	return d.metadata.SetDeposit(deposit, txn.Metadata())
}
