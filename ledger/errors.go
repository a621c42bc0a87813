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

package ledger

import (
	"errors"
	"fmt"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

var (
	ErrInvalidTx         = errors.New("invalid transaction")
	ErrUnknownContract   = errors.New("unknown contract")
	ErrUnknownEntrypoint = errors.New("unknown entrypoint")
	ErrNotPayable        = errors.New("entrypoint does not accept an amount")
	ErrInvalidParams     = errors.New("invalid entrypoint parameters")
)

// RejectedError is returned when a contract rejects a transaction. It
// unwraps to the contract.Reason.
type RejectedError struct {
	Entrypoint string
	Reason     contract.Reason
	TxHash     lcommon.Blake2b256
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf(
		"transaction %s rejected by %s: %s",
		e.TxHash.String(),
		e.Entrypoint,
		string(e.Reason),
	)
}

func (e *RejectedError) Unwrap() error {
	return e.Reason
}

type NonceMismatchError struct {
	Address  address.Address
	Expected uint64
	Got      uint64
}

func (e *NonceMismatchError) Error() string {
	return fmt.Sprintf(
		"nonce mismatch for %s: expected %d, got %d",
		e.Address.String(),
		e.Expected,
		e.Got,
	)
}

type InsufficientBalanceError struct {
	Address address.Address
	Balance uint64
	Amount  uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient balance for %s: have %d, need %d",
		e.Address.String(),
		e.Balance,
		e.Amount,
	)
}

// ReasonLabel returns the metric label for a submission error
func ReasonLabel(err error) string {
	var reason contract.Reason
	var nonceErr *NonceMismatchError
	var balanceErr *InsufficientBalanceError
	switch {
	case errors.As(err, &reason):
		return string(reason)
	case errors.As(err, &nonceErr):
		return "nonce_mismatch"
	case errors.As(err, &balanceErr):
		return "insufficient_balance"
	case errors.Is(err, ErrInvalidTx):
		return "invalid_tx"
	case errors.Is(err, ErrUnknownContract):
		return "unknown_contract"
	case errors.Is(err, ErrUnknownEntrypoint):
		return "unknown_entrypoint"
	case errors.Is(err, ErrNotPayable):
		return "not_payable"
	case errors.Is(err, ErrInvalidParams):
		return "invalid_params"
	default:
		return "internal"
	}
}
