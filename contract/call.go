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

package contract

import (
	"context"
	"unicode/utf8"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/database"
	"github.com/FlorianSegard/blockchainProject/event"
)

// Host is the part of the ledger that contracts can reach
type Host interface {
	// Transfer moves native currency between two accounts
	Transfer(txn *database.Txn, from, to address.Address, amount uint64) error
}

// Call is the context of one contract invocation. All calls in a chain
// share the same transaction, clock reading and event buffer.
type Call struct {
	Ctx    context.Context
	Txn    *database.Txn
	Host   Host
	events *[]event.Event
	// Sender is the immediate caller: the signer for a top-level call, or
	// the calling contract for a nested one
	Sender address.Address
	// Amount is the native currency attached to the call. It has already
	// been moved to the called contract.
	Amount uint64
	// Now is the ledger time in Unix seconds
	Now int64
}

func NewCall(
	ctx context.Context,
	txn *database.Txn,
	host Host,
	sender address.Address,
	amount uint64,
	now int64,
) *Call {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Call{
		Ctx:    ctx,
		Txn:    txn,
		Host:   host,
		Sender: sender,
		Amount: amount,
		Now:    now,
		events: &[]event.Event{},
	}
}

// From returns the context for a nested call made by contract caller. No
// currency is attached to nested calls.
func (c *Call) From(caller address.Address) *Call {
	return &Call{
		Ctx:    c.Ctx,
		Txn:    c.Txn,
		Host:   c.Host,
		Sender: caller,
		Now:    c.Now,
		events: c.events,
	}
}

// Emit buffers an event. Buffered events are published only if the whole
// call chain commits.
func (c *Call) Emit(eventType event.EventType, data any) {
	*c.events = append(*c.events, event.NewEvent(eventType, data))
}

// Events returns the events buffered so far by the call chain
func (c *Call) Events() []event.Event {
	return *c.events
}

// Length counts the code points of s
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
