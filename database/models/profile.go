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

import "github.com/FlorianSegard/blockchainProject/database/types"

// Profile is the registry entry for an account. ProfileID is the registry
// assigned id and changes on every re-registration, so it is kept apart
// from the row id.
type Profile struct {
	Account           []byte `gorm:"uniqueIndex;size:28"`
	Username          string `gorm:"size:64"`
	Bio               string `gorm:"size:600"`
	ID                uint   `gorm:"primarykey"`
	ProfileID         uint64 `gorm:"index"`
	RegisteredAt      int64
	UsernameChangedAt int64
	BioChangedAt      int64
	Deleted           bool
	Banned            bool
}

func (Profile) TableName() string {
	return "profile"
}

// Live reports whether the profile can still be mutated by its owner
func (p *Profile) Live() bool {
	return !p.Deleted
}

// Deposit is the refundable stake held by the registry for an account
type Deposit struct {
	Account []byte       `gorm:"uniqueIndex;size:28"`
	ID      uint         `gorm:"primarykey"`
	Amount  types.Uint64 `gorm:"not null;default:'0'"`
}

func (Deposit) TableName() string {
	return "deposit"
}
