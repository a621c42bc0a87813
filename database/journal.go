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
	"encoding/binary"
	"fmt"

	"github.com/FlorianSegard/blockchainProject/database/types"
)

const journalOwner = "ledger"

// JournalRecord is a raw journal entry with its sequence number
type JournalRecord struct {
	Data []byte
	Seq  uint64
}

// AppendJournal stores an entry under the next ledger sequence number and
// returns that number
func (d *Database) AppendJournal(data []byte, txn *Txn) (uint64, error) {
	if txn == nil {
		return 0, ErrReadWriteTxnRequired
	}
	seq, err := d.NextCounter(journalOwner, "seq", txn)
	if err != nil {
		return 0, err
	}
	if err := d.blob.Set(txn.Blob(), types.JournalBlobKey(seq), data); err != nil {
		return 0, fmt.Errorf("failed to write journal entry %d: %w", seq, err)
	}
	return seq, nil
}

// JournalLength returns the number of journal entries
func (d *Database) JournalLength(txn *Txn) (uint64, error) {
	return d.GetCounter(journalOwner, "seq", txn)
}

// JournalEntries returns up to limit entries starting at sequence number
// from. A limit of zero returns every remaining entry.
func (d *Database) JournalEntries(
	from uint64,
	limit int,
	txn *Txn,
) ([]JournalRecord, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	prefix := []byte(types.JournalBlobKeyPrefix)
	iter := d.blob.NewIterator(
		txn.Blob(),
		types.BlobIteratorOptions{Prefix: prefix},
	)
	defer iter.Close()
	var ret []JournalRecord
	for iter.Seek(types.JournalBlobKey(from)); iter.ValidForPrefix(prefix); iter.Next() {
		item := iter.Item()
		key := item.Key()
		if len(key) != len(prefix)+8 {
			continue
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		ret = append(ret, JournalRecord{
			Seq:  binary.BigEndian.Uint64(key[len(prefix):]),
			Data: val,
		})
		if limit > 0 && len(ret) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

// DeleteJournalEntry removes the journal entry for a sequence number
func (d *Database) DeleteJournalEntry(seq uint64, txn *Txn) error {
	if txn == nil {
		return ErrReadWriteTxnRequired
	}
	return d.blob.Delete(txn.Blob(), types.JournalBlobKey(seq))
}
