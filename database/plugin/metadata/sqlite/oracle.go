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

func (d *MetadataStoreSqlite) GetOracleRequest(
	subject, requester []byte,
	txn types.Txn,
) (*models.OracleRequest, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.OracleRequest{}
	result := db.Where("subject = ? AND requester = ?", subject, requester).
		First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetPendingOracleRequests returns unanswered requests in the order they
// were made
func (d *MetadataStoreSqlite) GetPendingOracleRequests(
	txn types.Txn,
) ([]models.OracleRequest, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.OracleRequest
	result := db.Where("result IS NULL").Order("id ASC").Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

func (d *MetadataStoreSqlite) SetOracleRequest(
	req *models.OracleRequest,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Save(req); result.Error != nil {
		return fmt.Errorf("failed to save oracle request: %w", result.Error)
	}
	return nil
}
