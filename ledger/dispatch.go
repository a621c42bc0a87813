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
	"fmt"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract"
	"github.com/FlorianSegard/blockchainProject/tx"
)

type entrypointFunc func(call *contract.Call, params []byte) (*uint64, error)

type entrypoint struct {
	fn      entrypointFunc
	payable bool
}

func (ls *LedgerState) buildEntrypoints() map[address.Address]map[string]entrypoint {
	return map[address.Address]map[string]entrypoint{
		tx.NativeAddress: {
			tx.EntrypointTransfer: {fn: ls.nativeTransfer, payable: true},
		},
		tx.RegistryAddress: {
			tx.EntrypointRegister:       {fn: ls.register, payable: true},
			tx.EntrypointChangeUsername: {fn: ls.changeUsername},
			tx.EntrypointChangeBio:      {fn: ls.changeBio},
			tx.EntrypointDeleteUser:     {fn: ls.deleteUser},
			tx.EntrypointVerified:       {fn: ls.verified},
		},
		tx.TweetStoreAddress: {
			tx.EntrypointPostTweet:   {fn: ls.postTweet},
			tx.EntrypointDeleteTweet: {fn: ls.deleteTweet},
		},
		tx.BotOracleAddress: {
			tx.EntrypointRequestBotChecking: {fn: ls.requestBotChecking},
			tx.EntrypointReceiveResult:      {fn: ls.receiveResult},
		},
	}
}

func (ls *LedgerState) lookupEntrypoint(
	target address.Address,
	name string,
) (entrypoint, error) {
	eps, ok := ls.entrypoints[target]
	if !ok {
		return entrypoint{}, fmt.Errorf("%w: %s", ErrUnknownContract, target.String())
	}
	ep, ok := eps[name]
	if !ok {
		return entrypoint{}, fmt.Errorf("%w: %s", ErrUnknownEntrypoint, name)
	}
	return ep, nil
}

func decodeParams(data []byte, dest any) error {
	if err := tx.DecodeParams(data, dest); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}

func decodeAddress(data []byte) (address.Address, error) {
	addr, err := address.FromBytes(data)
	if err != nil {
		return address.Zero, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return addr, nil
}

func (ls *LedgerState) nativeTransfer(call *contract.Call, params []byte) (*uint64, error) {
	var p tx.TransferParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	to, err := decodeAddress(p.To)
	if err != nil {
		return nil, err
	}
	return nil, ls.Transfer(call.Txn, call.Sender, to, call.Amount)
}

func (ls *LedgerState) register(call *contract.Call, params []byte) (*uint64, error) {
	var p tx.RegisterParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	id, err := ls.registry.Register(call, p.Username, p.Bio)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (ls *LedgerState) changeUsername(call *contract.Call, params []byte) (*uint64, error) {
	var p tx.ChangeUsernameParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return nil, ls.registry.ChangeUsername(call, p.Username)
}

func (ls *LedgerState) changeBio(call *contract.Call, params []byte) (*uint64, error) {
	var p tx.ChangeBioParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return nil, ls.registry.ChangeBio(call, p.Bio)
}

func (ls *LedgerState) deleteUser(call *contract.Call, _ []byte) (*uint64, error) {
	return nil, ls.registry.Delete(call)
}

func (ls *LedgerState) verified(call *contract.Call, params []byte) (*uint64, error) {
	var p tx.VerifiedParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	account, err := decodeAddress(p.Account)
	if err != nil {
		return nil, err
	}
	return nil, ls.registry.Verified(call, account)
}

func (ls *LedgerState) postTweet(call *contract.Call, params []byte) (*uint64, error) {
	var p tx.PostTweetParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	id, err := ls.tweetStore.PostTweet(call, p.Content)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (ls *LedgerState) deleteTweet(call *contract.Call, params []byte) (*uint64, error) {
	var p tx.DeleteTweetParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return nil, ls.tweetStore.DeleteTweet(call, p.TweetID)
}

func (ls *LedgerState) requestBotChecking(call *contract.Call, params []byte) (*uint64, error) {
	var p tx.RequestBotCheckingParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	subject, err := decodeAddress(p.Subject)
	if err != nil {
		return nil, err
	}
	return nil, ls.oracle.RequestBotChecking(call, subject)
}

func (ls *LedgerState) receiveResult(call *contract.Call, params []byte) (*uint64, error) {
	var p tx.ReceiveResultParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	subject, err := decodeAddress(p.Subject)
	if err != nil {
		return nil, err
	}
	requester, err := decodeAddress(p.Requester)
	if err != nil {
		return nil, err
	}
	return nil, ls.oracle.ReceiveResult(call, subject, requester, p.Message, p.Signature)
}
