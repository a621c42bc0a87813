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

// Package registry implements the user registry contract: profiles,
// refundable registration deposits, profile change cooldowns and bans.
package registry

import (
	"errors"
	"io"
	"log/slog"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract"
	"github.com/FlorianSegard/blockchainProject/database"
	"github.com/FlorianSegard/blockchainProject/database/models"
	"github.com/FlorianSegard/blockchainProject/database/types"
	"github.com/FlorianSegard/blockchainProject/event"
)

const (
	Name = "registry"

	UsernameMaxLength = 15
	BioMaxLength      = 150

	// Cooldowns in seconds. The elapsed time must be strictly greater.
	UsernameCooldown = 24 * 60 * 60
	BioCooldown      = 4 * 60 * 60

	DefaultDepositAmount uint64 = 1_000_000

	counterNextID = "next_id"
)

// Address is the account of the registry contract. It holds the deposits.
var Address = address.Contract(Name)

// BotChecker is the oracle surface used by the registry
type BotChecker interface {
	RequestBotChecking(call *contract.Call, subject address.Address) error
	GetIsBotting(
		txn *database.Txn,
		subject, requester address.Address,
	) (bool, bool, error)
}

type Config struct {
	DB            *database.Database
	Oracle        BotChecker
	Logger        *slog.Logger
	DepositAmount uint64
}

type Registry struct {
	db            *database.Database
	oracle        BotChecker
	logger        *slog.Logger
	depositAmount uint64
}

func New(cfg Config) (*Registry, error) {
	if cfg.DB == nil {
		return nil, errors.New("registry: database is required")
	}
	if cfg.Oracle == nil {
		return nil, errors.New("registry: oracle is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.DepositAmount == 0 {
		cfg.DepositAmount = DefaultDepositAmount
	}
	return &Registry{
		db:            cfg.DB,
		oracle:        cfg.Oracle,
		logger:        cfg.Logger.With("component", "registry"),
		depositAmount: cfg.DepositAmount,
	}, nil
}

// DepositAmount returns the stake required to register
func (r *Registry) DepositAmount() uint64 {
	return r.depositAmount
}

// Register creates a profile for the caller, or revives a deleted one, and
// locks the attached amount as its deposit. It returns the new profile id.
func (r *Registry) Register(
	call *contract.Call,
	username, bio string,
) (uint64, error) {
	if contract.Length(username) > UsernameMaxLength {
		return 0, contract.ErrUsernameTooLong
	}
	if contract.Length(bio) > BioMaxLength {
		return 0, contract.ErrBioTooLong
	}
	account := call.Sender.Bytes()
	profile, err := r.db.GetProfile(account, call.Txn)
	if err != nil {
		return 0, err
	}
	if profile != nil {
		if profile.Banned {
			return 0, contract.ErrUserIsBanned
		}
		if profile.Live() {
			return 0, contract.ErrAlreadyCreatedUser
		}
	}
	if call.Amount < r.depositAmount {
		return 0, contract.ErrInsufficientDeposit
	}
	if profile == nil {
		// Only the first registration of an account is checked
		if err := r.oracle.RequestBotChecking(
			call.From(Address),
			call.Sender,
		); err != nil {
			return 0, err
		}
		profile = &models.Profile{Account: account}
	}
	id, err := r.db.NextCounter(Name, counterNextID, call.Txn)
	if err != nil {
		return 0, err
	}
	profile.ProfileID = id
	profile.Username = username
	profile.Bio = bio
	profile.RegisteredAt = call.Now
	profile.UsernameChangedAt = call.Now
	profile.BioChangedAt = call.Now
	profile.Deleted = false
	profile.Banned = false
	if err := r.db.SetProfile(profile, call.Txn); err != nil {
		return 0, err
	}
	deposit, err := r.db.GetDeposit(account, call.Txn)
	if err != nil {
		return 0, err
	}
	if deposit == nil {
		deposit = &models.Deposit{Account: account}
	}
	deposit.Amount = types.Uint64(call.Amount)
	if err := r.db.SetDeposit(deposit, call.Txn); err != nil {
		return 0, err
	}
	call.Emit(
		event.UserRegisteredEventType,
		event.UserRegisteredEvent{
			Account:   call.Sender,
			Username:  username,
			ProfileID: id,
			Deposit:   call.Amount,
		},
	)
	return id, nil
}

// liveProfile loads the caller's profile for a mutation
func (r *Registry) liveProfile(call *contract.Call) (*models.Profile, error) {
	profile, err := r.db.GetProfile(call.Sender.Bytes(), call.Txn)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, contract.ErrUnknownUser
	}
	if !profile.Live() {
		return nil, contract.ErrDeletedUser
	}
	return profile, nil
}

func (r *Registry) ChangeUsername(call *contract.Call, username string) error {
	profile, err := r.liveProfile(call)
	if err != nil {
		return err
	}
	if call.Now-profile.UsernameChangedAt <= UsernameCooldown {
		return contract.ErrUsernameChangeTooFrequent
	}
	if contract.Length(username) > UsernameMaxLength {
		return contract.ErrUsernameTooLong
	}
	profile.Username = username
	profile.UsernameChangedAt = call.Now
	return r.db.SetProfile(profile, call.Txn)
}

func (r *Registry) ChangeBio(call *contract.Call, bio string) error {
	profile, err := r.liveProfile(call)
	if err != nil {
		return err
	}
	if call.Now-profile.BioChangedAt <= BioCooldown {
		return contract.ErrBioChangeTooFrequent
	}
	if contract.Length(bio) > BioMaxLength {
		return contract.ErrBioTooLong
	}
	profile.Bio = bio
	profile.BioChangedAt = call.Now
	return r.db.SetProfile(profile, call.Txn)
}

// Delete soft-deletes the caller's profile and refunds the deposit
func (r *Registry) Delete(call *contract.Call) error {
	account := call.Sender.Bytes()
	profile, err := r.db.GetProfile(account, call.Txn)
	if err != nil {
		return err
	}
	if profile == nil {
		return contract.ErrNoUserToDelete
	}
	if !profile.Live() {
		return contract.ErrUserAlreadyDeleted
	}
	profile.Deleted = true
	if err := r.db.SetProfile(profile, call.Txn); err != nil {
		return err
	}
	deposit, err := r.db.GetDeposit(account, call.Txn)
	if err != nil {
		return err
	}
	var refund uint64
	if deposit != nil {
		refund = uint64(deposit.Amount)
		if refund > 0 {
			if err := call.Host.Transfer(
				call.Txn,
				Address,
				call.Sender,
				refund,
			); err != nil {
				return err
			}
		}
		deposit.Amount = 0
		if err := r.db.SetDeposit(deposit, call.Txn); err != nil {
			return err
		}
	}
	call.Emit(
		event.UserDeletedEventType,
		event.UserDeletedEvent{Account: call.Sender, Refund: refund},
	)
	return nil
}

// Verified fails unless account has a live profile. A positive bot verdict
// for the account bans it, but the call itself still succeeds.
func (r *Registry) Verified(call *contract.Call, account address.Address) error {
	profile, err := r.db.GetProfile(account.Bytes(), call.Txn)
	if err != nil {
		return err
	}
	if profile == nil || !profile.Live() {
		return contract.ErrUserDoesNotExist
	}
	isBot, ok, err := r.oracle.GetIsBotting(call.Txn, account, Address)
	if err != nil {
		return err
	}
	if !ok || !isBot {
		return nil
	}
	profile.Banned = true
	profile.Deleted = true
	if err := r.db.SetProfile(profile, call.Txn); err != nil {
		return err
	}
	r.logger.Debug(
		"oracle verdict marks account as bot",
		"account", account.String(),
	)
	call.Emit(
		event.UserBannedEventType,
		event.UserBannedEvent{Account: account},
	)
	return nil
}

// Profile returns the stored profile of an account, or nil
func (r *Registry) Profile(
	txn *database.Txn,
	account address.Address,
) (*models.Profile, error) {
	return r.db.GetProfile(account.Bytes(), txn)
}

// Deposit returns the deposit currently held for an account
func (r *Registry) Deposit(
	txn *database.Txn,
	account address.Address,
) (uint64, error) {
	deposit, err := r.db.GetDeposit(account.Bytes(), txn)
	if err != nil {
		return 0, err
	}
	if deposit == nil {
		return 0, nil
	}
	return uint64(deposit.Amount), nil
}
