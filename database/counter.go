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

// NextCounter returns the current value of a counter and stores the value
// after it
func (d *Database) NextCounter(owner, name string, txn *Txn) (uint64, error) {
	if txn == nil {
		return 0, ErrReadWriteTxnRequired
	}
	val, err := d.metadata.GetCounter(owner, name, txn.Metadata())
	if err != nil {
		return 0, err
	}
	if err := d.metadata.SetCounter(owner, name, val+1, txn.Metadata()); err != nil {
		return 0, err
	}
	return val, nil
}

// GetCounter returns the current value of a counter without advancing it
func (d *Database) GetCounter(owner, name string, txn *Txn) (uint64, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	return d.metadata.GetCounter(owner, name, txn.Metadata())
}
