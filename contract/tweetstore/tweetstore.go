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

// Package tweetstore implements the tweet store contract
package tweetstore

import (
	"bytes"
	"errors"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract"
	"github.com/FlorianSegard/blockchainProject/database"
	"github.com/FlorianSegard/blockchainProject/database/models"
	"github.com/FlorianSegard/blockchainProject/event"
)

const (
	Name = "tweetstore"

	ContentMaxLength = 280

	// RateLimit is the number of seconds that must pass between two posts
	// by the same author. The elapsed time must be strictly greater.
	RateLimit = 60

	counterNextID = "next_id"
)

var Address = address.Contract(Name)

// Verifier authorizes an author before each post
type Verifier interface {
	Verified(call *contract.Call, account address.Address) error
}

type TweetStore struct {
	db       *database.Database
	verifier Verifier
}

func New(db *database.Database, verifier Verifier) (*TweetStore, error) {
	if db == nil {
		return nil, errors.New("tweetstore: database is required")
	}
	if verifier == nil {
		return nil, errors.New("tweetstore: verifier is required")
	}
	return &TweetStore{db: db, verifier: verifier}, nil
}

// PostTweet appends a tweet by the caller and returns its id
func (s *TweetStore) PostTweet(call *contract.Call, content string) (uint64, error) {
	if contract.Length(content) > ContentMaxLength {
		return 0, contract.ErrTweetTooLong
	}
	author := call.Sender.Bytes()
	lastTweet, err := s.db.GetLastTweet(author, call.Txn)
	if err != nil {
		return 0, err
	}
	if lastTweet != nil && call.Now-lastTweet.PostedAt <= RateLimit {
		return 0, contract.ErrTooManyTweetsTooFast
	}
	// A ban applied here does not block this post
	if err := s.verifier.Verified(call.From(Address), call.Sender); err != nil {
		return 0, err
	}
	id, err := s.db.NextCounter(Name, counterNextID, call.Txn)
	if err != nil {
		return 0, err
	}
	tweet := &models.Tweet{
		TweetID:  id,
		Author:   author,
		Content:  content,
		PostedAt: call.Now,
	}
	if err := s.db.SetTweet(tweet, call.Txn); err != nil {
		return 0, err
	}
	if lastTweet == nil {
		lastTweet = &models.LastTweet{Author: author}
	}
	lastTweet.PostedAt = call.Now
	if err := s.db.SetLastTweet(lastTweet, call.Txn); err != nil {
		return 0, err
	}
	call.Emit(
		event.TweetPostedEventType,
		event.TweetPostedEvent{Author: call.Sender, TweetID: id},
	)
	return id, nil
}

// DeleteTweet soft-deletes one of the caller's tweets
func (s *TweetStore) DeleteTweet(call *contract.Call, tweetID uint64) error {
	tweet, err := s.db.GetTweet(tweetID, call.Txn)
	if err != nil {
		return err
	}
	if tweet == nil || tweet.Deleted {
		return contract.ErrNoTweetToDelete
	}
	if !bytes.Equal(tweet.Author, call.Sender.Bytes()) {
		return contract.ErrNotRightPerson
	}
	tweet.Deleted = true
	if err := s.db.SetTweet(tweet, call.Txn); err != nil {
		return err
	}
	call.Emit(
		event.TweetDeletedEventType,
		event.TweetDeletedEvent{Author: call.Sender, TweetID: tweetID},
	)
	return nil
}

// ListTweets returns every tweet ordered by id, deleted ones included
func (s *TweetStore) ListTweets(txn *database.Txn) ([]models.Tweet, error) {
	return s.db.GetTweets(txn)
}

// NextID returns the id the next tweet will get
func (s *TweetStore) NextID(txn *database.Txn) (uint64, error) {
	return s.db.GetCounter(Name, counterNextID, txn)
}
