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

package tx

import (
	"fmt"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/blinklabs-io/gouroboros/cbor"
)

// Names of the well-known ledger accounts
const (
	NativeName     = "native"
	RegistryName   = "registry"
	TweetStoreName = "tweetstore"
	BotOracleName  = "botoracle"
)

// Entrypoints
const (
	EntrypointTransfer = "transfer"

	EntrypointRegister       = "register"
	EntrypointChangeUsername = "change_username"
	EntrypointChangeBio      = "change_bio"
	EntrypointDeleteUser     = "delete_user"
	EntrypointVerified       = "verified"

	EntrypointPostTweet   = "post_tweet"
	EntrypointDeleteTweet = "delete_tweet"

	EntrypointRequestBotChecking = "request_bot_checking"
	EntrypointReceiveResult      = "receive_result"
)

var (
	// NativeAddress receives transactions handled by the ledger itself
	NativeAddress     = address.Contract(NativeName)
	RegistryAddress   = address.Contract(RegistryName)
	TweetStoreAddress = address.Contract(TweetStoreName)
	BotOracleAddress  = address.Contract(BotOracleName)
)

type TransferParams struct {
	cbor.StructAsArray
	To []byte
}

type RegisterParams struct {
	cbor.StructAsArray
	Username string
	Bio      string
}

type ChangeUsernameParams struct {
	cbor.StructAsArray
	Username string
}

type ChangeBioParams struct {
	cbor.StructAsArray
	Bio string
}

type VerifiedParams struct {
	cbor.StructAsArray
	Account []byte
}

type PostTweetParams struct {
	cbor.StructAsArray
	Content string
}

type DeleteTweetParams struct {
	cbor.StructAsArray
	TweetID uint64
}

type RequestBotCheckingParams struct {
	cbor.StructAsArray
	Subject []byte
}

type ReceiveResultParams struct {
	cbor.StructAsArray
	Subject   []byte
	Requester []byte
	Message   []byte
	Signature []byte
}

// EncodeParams encodes entrypoint parameters. A nil value encodes as no
// parameters.
func EncodeParams(params any) ([]byte, error) {
	if params == nil {
		return nil, nil
	}
	data, err := cbor.Encode(params)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	return data, nil
}

// DecodeParams decodes entrypoint parameters into dest
func DecodeParams(data []byte, dest any) error {
	if _, err := cbor.Decode(data, dest); err != nil {
		return fmt.Errorf("decode params: %w", err)
	}
	return nil
}

// New builds an unsigned body calling entrypoint on target
func New(
	nonce uint64,
	target address.Address,
	entrypoint string,
	amount uint64,
	params any,
) (Body, error) {
	data, err := EncodeParams(params)
	if err != nil {
		return Body{}, err
	}
	return Body{
		Nonce:      nonce,
		Contract:   target.Bytes(),
		Entrypoint: entrypoint,
		Amount:     amount,
		Params:     data,
	}, nil
}
