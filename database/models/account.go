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

package models

import (
	"errors"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/database/types"
)

var ErrAccountNotFound = errors.New("account not found")

// Account holds the native currency balance and the transaction nonce of an
// address. Contracts own accounts too.
type Account struct {
	Address []byte       `gorm:"uniqueIndex;size:28"`
	ID      uint         `gorm:"primarykey"`
	Balance types.Uint64 `gorm:"not null;default:'0'"`
	Nonce   uint64
}

func (a *Account) TableName() string {
	return "account"
}

func (a *Account) String() (string, error) {
	addr, err := address.FromBytes(a.Address)
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}
