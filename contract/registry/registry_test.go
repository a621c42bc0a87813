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

package registry_test

import (
	"strings"
	"testing"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract"
	"github.com/FlorianSegard/blockchainProject/contract/registry"
	"github.com/FlorianSegard/blockchainProject/event"
	"github.com/FlorianSegard/blockchainProject/internal/test/contracttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	start   int64 = 1_700_000_000
	balance       = 10 * contracttest.DepositAmount
)

func changeUsername(
	h *contracttest.Harness,
	sender address.Address,
	username string,
	now int64,
) error {
	_, err := h.Invoke(sender, registry.Address, 0, now, func(call *contract.Call) error {
		return h.Registry.ChangeUsername(call, username)
	})
	return err
}

func changeBio(
	h *contracttest.Harness,
	sender address.Address,
	bio string,
	now int64,
) error {
	_, err := h.Invoke(sender, registry.Address, 0, now, func(call *contract.Call) error {
		return h.Registry.ChangeBio(call, bio)
	})
	return err
}

func deleteUser(h *contracttest.Harness, sender address.Address, now int64) error {
	_, err := h.Invoke(sender, registry.Address, 0, now, func(call *contract.Call) error {
		return h.Registry.Delete(call)
	})
	return err
}

func TestRegisterCreatesProfile(t *testing.T) {
	h := contracttest.New(t)
	alice := h.Account(t, "alice", balance)
	var id uint64
	events, err := h.Invoke(
		alice,
		registry.Address,
		contracttest.DepositAmount,
		start,
		func(call *contract.Call) error {
			var err error
			id, err = h.Registry.Register(call, "alice", strings.Repeat("b", 150))
			return err
		},
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
	profile, err := h.Registry.Profile(nil, alice)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, start, profile.RegisteredAt)
	assert.False(t, profile.Deleted)
	assert.False(t, profile.Banned)
	deposit, err := h.Registry.Deposit(nil, alice)
	require.NoError(t, err)
	assert.Equal(t, contracttest.DepositAmount, deposit)
	assert.Equal(t, contracttest.DepositAmount, h.Balance(t, registry.Address))
	// The first registration asks the oracle for a check
	require.Len(t, events, 2)
	assert.Equal(t, event.OracleRequestEventType, events[0].Type)
	assert.Equal(t, event.UserRegisteredEventType, events[1].Type)
	pending, err := h.Oracle.PendingRequests(nil)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice.Bytes(), pending[0].Subject)
	assert.Equal(t, registry.Address.Bytes(), pending[0].Requester)
}

func TestRegisterValidation(t *testing.T) {
	h := contracttest.New(t)
	alice := h.Account(t, "alice", balance)
	testDefs := []struct {
		name     string
		username string
		bio      string
		amount   uint64
		expected contract.Reason
	}{
		{
			name:     "username too long",
			username: strings.Repeat("u", 16),
			amount:   contracttest.DepositAmount,
			expected: contract.ErrUsernameTooLong,
		},
		{
			name:     "bio too long",
			username: "alice",
			bio:      strings.Repeat("b", 151),
			amount:   contracttest.DepositAmount,
			expected: contract.ErrBioTooLong,
		},
		{
			name:     "length checked before deposit",
			username: strings.Repeat("u", 16),
			amount:   1,
			expected: contract.ErrUsernameTooLong,
		},
		{
			name:     "insufficient deposit",
			username: "alice",
			amount:   contracttest.DepositAmount - 1,
			expected: contract.ErrInsufficientDeposit,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := h.Invoke(
				alice,
				registry.Address,
				testDef.amount,
				start,
				func(call *contract.Call) error {
					_, err := h.Registry.Register(call, testDef.username, testDef.bio)
					return err
				},
			)
			require.ErrorIs(t, err, testDef.expected)
		})
	}
	// Nothing was kept from the failed attempts
	assert.Equal(t, balance, h.Balance(t, alice))
	profile, err := h.Registry.Profile(nil, alice)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestUsernameLengthCountsCodePoints(t *testing.T) {
	h := contracttest.New(t)
	alice := h.Account(t, "alice", balance)
	_, err := h.Register(alice, strings.Repeat("é", 15), "", start)
	require.NoError(t, err)
}

func TestRegisterTwiceFails(t *testing.T) {
	h := contracttest.New(t)
	alice := h.Account(t, "alice", balance)
	_, err := h.Register(alice, "alice", "", start)
	require.NoError(t, err)
	_, err = h.Register(alice, "alice2", "", start+10)
	require.ErrorIs(t, err, contract.ErrAlreadyCreatedUser)
	// The failed attempt did not take a second deposit
	assert.Equal(t, balance-contracttest.DepositAmount, h.Balance(t, alice))
}

func TestIdsStrictlyIncreaseAcrossReRegistration(t *testing.T) {
	h := contracttest.New(t)
	alice := h.Account(t, "alice", balance)
	bob := h.Account(t, "bob", balance)
	var ids []uint64
	id, err := h.Register(alice, "alice", "", start)
	require.NoError(t, err)
	ids = append(ids, id)
	id, err = h.Register(bob, "bob", "", start+1)
	require.NoError(t, err)
	ids = append(ids, id)
	require.NoError(t, deleteUser(h, alice, start+2))
	// A rejected registration does not consume an id
	_, err = h.Register(bob, "bob", "", start+3)
	require.ErrorIs(t, err, contract.ErrAlreadyCreatedUser)
	id, err = h.Register(alice, "alice", "", start+4)
	require.NoError(t, err)
	ids = append(ids, id)
	assert.Equal(t, []uint64{0, 1, 2}, ids)
	// Re-registration does not request a second check
	pending, err := h.Oracle.PendingRequests(nil)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestDeleteRefundsOnce(t *testing.T) {
	h := contracttest.New(t)
	alice := h.Account(t, "alice", balance)
	_, err := h.Invoke(
		alice,
		registry.Address,
		contracttest.DepositAmount+500,
		start,
		func(call *contract.Call) error {
			_, err := h.Registry.Register(call, "alice", "")
			return err
		},
	)
	require.NoError(t, err)
	assert.Equal(t, balance-contracttest.DepositAmount-500, h.Balance(t, alice))
	require.NoError(t, deleteUser(h, alice, start+1))
	// The whole attached stake comes back
	assert.Equal(t, balance, h.Balance(t, alice))
	deposit, err := h.Registry.Deposit(nil, alice)
	require.NoError(t, err)
	assert.Zero(t, deposit)
	err = deleteUser(h, alice, start+2)
	require.ErrorIs(t, err, contract.ErrUserAlreadyDeleted)
	assert.Equal(t, balance, h.Balance(t, alice))
	assert.Zero(t, h.Balance(t, registry.Address))
}

func TestDeleteUnknownUser(t *testing.T) {
	h := contracttest.New(t)
	carol := h.Account(t, "carol", balance)
	require.ErrorIs(t, deleteUser(h, carol, start), contract.ErrNoUserToDelete)
}

func TestChangeUsernameCooldown(t *testing.T) {
	h := contracttest.New(t)
	alice := h.Account(t, "alice", balance)
	_, err := h.Register(alice, "alice", "", start)
	require.NoError(t, err)
	err = changeUsername(h, alice, "alicia", start+registry.UsernameCooldown-1)
	require.ErrorIs(t, err, contract.ErrUsernameChangeTooFrequent)
	// The boundary itself is still inside the window
	err = changeUsername(h, alice, "alicia", start+registry.UsernameCooldown)
	require.ErrorIs(t, err, contract.ErrUsernameChangeTooFrequent)
	// The cooldown is checked before the length
	err = changeUsername(h, alice, strings.Repeat("u", 16), start+10)
	require.ErrorIs(t, err, contract.ErrUsernameChangeTooFrequent)
	err = changeUsername(h, alice, strings.Repeat("u", 16), start+registry.UsernameCooldown+1)
	require.ErrorIs(t, err, contract.ErrUsernameTooLong)
	require.NoError(t, changeUsername(h, alice, "alicia", start+registry.UsernameCooldown+1))
	profile, err := h.Registry.Profile(nil, alice)
	require.NoError(t, err)
	assert.Equal(t, "alicia", profile.Username)
	assert.Equal(t, start+registry.UsernameCooldown+1, profile.UsernameChangedAt)
	// The bio timer is independent
	assert.Equal(t, start, profile.BioChangedAt)
}

func TestChangeBioCooldown(t *testing.T) {
	h := contracttest.New(t)
	alice := h.Account(t, "alice", balance)
	_, err := h.Register(alice, "alice", "", start)
	require.NoError(t, err)
	err = changeBio(h, alice, "hello", start+registry.BioCooldown)
	require.ErrorIs(t, err, contract.ErrBioChangeTooFrequent)
	err = changeBio(h, alice, strings.Repeat("b", 151), start+registry.BioCooldown+1)
	require.ErrorIs(t, err, contract.ErrBioTooLong)
	require.NoError(t, changeBio(h, alice, "hello", start+registry.BioCooldown+1))
	err = changeBio(h, alice, "again", start+registry.BioCooldown+2)
	require.ErrorIs(t, err, contract.ErrBioChangeTooFrequent)
}

func TestChangeRequiresLiveProfile(t *testing.T) {
	h := contracttest.New(t)
	alice := h.Account(t, "alice", balance)
	later := start + registry.UsernameCooldown + 1
	require.ErrorIs(t, changeUsername(h, alice, "x", later), contract.ErrUnknownUser)
	require.ErrorIs(t, changeBio(h, alice, "x", later), contract.ErrUnknownUser)
	_, err := h.Register(alice, "alice", "", start)
	require.NoError(t, err)
	require.NoError(t, deleteUser(h, alice, start+1))
	require.ErrorIs(t, changeUsername(h, alice, "x", later), contract.ErrDeletedUser)
	require.ErrorIs(t, changeBio(h, alice, "x", later), contract.ErrDeletedUser)
}

func TestVerifiedBansOnPositiveVerdict(t *testing.T) {
	h := contracttest.New(t)
	bob := h.Account(t, "bob", balance)
	relay := h.Account(t, "relay", 0)
	_, err := h.Register(bob, "bob", "", start)
	require.NoError(t, err)
	verify := func(now int64) ([]event.Event, error) {
		return h.Invoke(bob, registry.Address, 0, now, func(call *contract.Call) error {
			return h.Registry.Verified(call, bob)
		})
	}
	// No verdict yet
	events, err := verify(start + 1)
	require.NoError(t, err)
	assert.Empty(t, events)
	require.NoError(t, h.Answer(relay, bob, true, start+2))
	events, err = verify(start + 3)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.UserBannedEventType, events[0].Type)
	profile, err := h.Registry.Profile(nil, bob)
	require.NoError(t, err)
	assert.True(t, profile.Banned)
	assert.True(t, profile.Deleted)
	// Banned accounts look deleted to every other operation
	_, err = verify(start + 4)
	require.ErrorIs(t, err, contract.ErrUserDoesNotExist)
	require.ErrorIs(t, deleteUser(h, bob, start+5), contract.ErrUserAlreadyDeleted)
	_, err = h.Register(bob, "bob", "", start+6)
	require.ErrorIs(t, err, contract.ErrUserIsBanned)
}

func TestVerifiedNegativeVerdict(t *testing.T) {
	h := contracttest.New(t)
	alice := h.Account(t, "alice", balance)
	relay := h.Account(t, "relay", 0)
	_, err := h.Register(alice, "alice", "", start)
	require.NoError(t, err)
	require.NoError(t, h.Answer(relay, alice, false, start+1))
	_, err = h.Invoke(alice, registry.Address, 0, start+2, func(call *contract.Call) error {
		return h.Registry.Verified(call, alice)
	})
	require.NoError(t, err)
	profile, err := h.Registry.Profile(nil, alice)
	require.NoError(t, err)
	assert.False(t, profile.Banned)
	assert.False(t, profile.Deleted)
}

func TestVerifiedUnknownAccount(t *testing.T) {
	h := contracttest.New(t)
	alice := h.Account(t, "alice", balance)
	_, err := h.Invoke(alice, registry.Address, 0, start, func(call *contract.Call) error {
		return h.Registry.Verified(call, alice)
	})
	require.ErrorIs(t, err, contract.ErrUserDoesNotExist)
}
