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

package event

import "github.com/FlorianSegard/blockchainProject/address"

const (
	TxAppliedEventType      EventType = "ledger.tx_applied"
	UserRegisteredEventType EventType = "registry.user_registered"
	UserDeletedEventType    EventType = "registry.user_deleted"
	UserBannedEventType     EventType = "registry.user_banned"
	TweetPostedEventType    EventType = "tweetstore.tweet_posted"
	TweetDeletedEventType   EventType = "tweetstore.tweet_deleted"
	OracleRequestEventType  EventType = "botoracle.request"
	OracleResultEventType   EventType = "botoracle.result"
)

// TxAppliedEvent is published once a transaction has been committed
type TxAppliedEvent struct {
	TxHash     []byte
	Sender     address.Address
	Contract   address.Address
	Entrypoint string
	Amount     uint64
	Seq        uint64
	Nonce      uint64
}

type UserRegisteredEvent struct {
	Account   address.Address
	Username  string
	ProfileID uint64
	Deposit   uint64
}

type UserDeletedEvent struct {
	Account address.Address
	Refund  uint64
}

// UserBannedEvent is published when a positive oracle verdict is applied
type UserBannedEvent struct {
	Account address.Address
}

type TweetPostedEvent struct {
	Author  address.Address
	TweetID uint64
}

type TweetDeletedEvent struct {
	Author  address.Address
	TweetID uint64
}

// OracleRequestEvent asks the off-chain signer for a verdict
type OracleRequestEvent struct {
	Subject   address.Address
	Requester address.Address
}

type OracleResultEvent struct {
	Subject   address.Address
	Requester address.Address
	IsBot     bool
}
