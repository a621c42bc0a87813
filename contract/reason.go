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

// Package contract holds what the on-ledger contracts share: the call
// context they run in and the rejection reasons they fail with.
package contract

// Reason is the named cause of a rejected contract call. The string value
// is surfaced to users verbatim.
type Reason string

func (r Reason) Error() string {
	return string(r)
}

const (
	// Length limits
	ErrUsernameTooLong Reason = "USERNAME_TOO_LONG"
	ErrBioTooLong      Reason = "BIO_TOO_LONG"
	ErrTweetTooLong    Reason = "ERROR_TWEET_TOO_LONG"

	// Profile and tweet state
	ErrAlreadyCreatedUser Reason = "ALREADY_CREATED_USER"
	ErrNoUserToDelete     Reason = "NO_USER_TO_DELETE"
	ErrUserAlreadyDeleted Reason = "USER_ALREADY_DELETED"
	ErrUnknownUser        Reason = "UNKNOWN_USER"
	ErrDeletedUser        Reason = "DELETED_USER"
	ErrNoTweetToDelete    Reason = "NO_TWEET_TO_DELETE"
	ErrUserDoesNotExist   Reason = "USER_DOES_NOT_EXIST"

	// Authorization
	ErrNotRightPerson Reason = "NOT_RIGHT_PERSON"
	ErrUserIsBanned   Reason = "USER_IS_BANNED"

	ErrInsufficientDeposit Reason = "INSUFFICIENT_DEPOSIT"

	// Rate limits
	ErrUsernameChangeTooFrequent Reason = "USERNAME_CHANGE_TOO_FREQUENT"
	ErrBioChangeTooFrequent      Reason = "BIO_CHANGE_TOO_FREQUENT"
	ErrTooManyTweetsTooFast      Reason = "TOO_MANY_TWEETS_TOO_FAST"

	// Oracle integrity
	ErrInvalidSignature     Reason = "INVALID_SIGNATURE"
	ErrRequestAlreadyExists Reason = "REQUEST_ALREADY_EXISTS"
	ErrResultAlreadySet     Reason = "RESULT_ALREADY_SET"
	ErrNoPendingRequest     Reason = "NO_PENDING_REQUEST"
	ErrMalformedMessage     Reason = "MALFORMED_MESSAGE"
	ErrMessageMismatch      Reason = "MESSAGE_MISMATCH"
)

// Reasons lists every rejection reason
var Reasons = []Reason{
	ErrUsernameTooLong,
	ErrBioTooLong,
	ErrTweetTooLong,
	ErrAlreadyCreatedUser,
	ErrNoUserToDelete,
	ErrUserAlreadyDeleted,
	ErrUnknownUser,
	ErrDeletedUser,
	ErrNoTweetToDelete,
	ErrUserDoesNotExist,
	ErrNotRightPerson,
	ErrUserIsBanned,
	ErrInsufficientDeposit,
	ErrUsernameChangeTooFrequent,
	ErrBioChangeTooFrequent,
	ErrTooManyTweetsTooFast,
	ErrInvalidSignature,
	ErrRequestAlreadyExists,
	ErrResultAlreadySet,
	ErrNoPendingRequest,
	ErrMalformedMessage,
	ErrMessageMismatch,
}
