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
	"errors"

	"github.com/FlorianSegard/blockchainProject/database/models"
	"github.com/FlorianSegard/blockchainProject/database/types"
)

func (d *Database) GetOracleRequest(
	subject, requester []byte,
	txn *Txn,
) (*models.OracleRequest, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	return d.metadata.GetOracleRequest(subject, requester, txn.Metadata())
}

// GetPendingOracleRequests returns the requests still waiting for a verdict
func (d *Database) GetPendingOracleRequests(
	txn *Txn,
) ([]models.OracleRequest, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	return d.metadata.GetPendingOracleRequests(txn.Metadata())
}

func (d *Database) SetOracleRequest(req *models.OracleRequest, txn *Txn) error {
	if txn == nil {
		return ErrReadWriteTxnRequired
	}
	return d.metadata.SetOracleRequest(req, txn.Metadata())
}

// SetAttestation stores the signed verdict message for a request
func (d *Database) SetAttestation(
	subject, requester, data []byte,
	txn *Txn,
) error {
	if txn == nil {
		return ErrReadWriteTxnRequired
	}
	return d.blob.Set(
		txn.Blob(),
		types.AttestationBlobKey(subject, requester),
		data,
	)
}

// GetAttestation returns the signed verdict message for a request, or nil
// if the request has not been answered
func (d *Database) GetAttestation(
	subject, requester []byte,
	txn *Txn,
) ([]byte, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	data, err := d.blob.Get(
		txn.Blob(),
		types.AttestationBlobKey(subject, requester),
	)
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}
