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

// Package ledger applies signed transactions to the contract state. It
// serializes submissions and runs each one as a single atomic database
// transaction.
package ledger

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract"
	"github.com/FlorianSegard/blockchainProject/contract/botoracle"
	"github.com/FlorianSegard/blockchainProject/contract/registry"
	"github.com/FlorianSegard/blockchainProject/contract/tweetstore"
	"github.com/FlorianSegard/blockchainProject/database"
	"github.com/FlorianSegard/blockchainProject/database/types"
	"github.com/FlorianSegard/blockchainProject/event"
	"github.com/FlorianSegard/blockchainProject/tx"
	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/FlorianSegard/blockchainProject/ledger"

	counterOwner   = "ledger"
	counterGenesis = "genesis"
)

type LedgerStateConfig struct {
	Logger         *slog.Logger
	EventBus       *event.EventBus
	PromRegistry   prometheus.Registerer
	Clock          Clock
	DataDir        string
	BlobPlugin     string
	MetadataPlugin string
	// OraclePublicKey verifies bot check verdicts
	OraclePublicKey ed25519.PublicKey
	DepositAmount   uint64
	// Genesis balances are credited once, when the database is new
	Genesis map[address.Address]uint64
}

type LedgerState struct {
	sync.RWMutex
	config      LedgerStateConfig
	db          *database.Database
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     stateMetrics
	oracle      *botoracle.BotOracle
	registry    *registry.Registry
	tweetStore  *tweetstore.TweetStore
	entrypoints map[address.Address]map[string]entrypoint
}

// Receipt describes an applied transaction
type Receipt struct {
	// ID is the profile id assigned by register or the tweet id assigned by
	// post_tweet
	ID     *uint64
	TxHash []byte
	Seq    uint64
}

// JournalEntry is the record kept for every applied transaction
type JournalEntry struct {
	cbor.StructAsArray
	TxHash    []byte
	Tx        []byte
	Timestamp int64
	Seq       uint64
}

func NewLedgerState(cfg LedgerStateConfig) (*LedgerState, error) {
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}
	ls := &LedgerState{
		config: cfg,
		logger: cfg.Logger.With("component", "ledger"),
		tracer: otel.Tracer(tracerName),
	}
	ls.metrics.init(cfg.PromRegistry)
	// Load database
	needsRecovery := false
	db, err := database.New(&database.Config{
		Logger:         cfg.Logger,
		PromRegistry:   cfg.PromRegistry,
		DataDir:        cfg.DataDir,
		BlobPlugin:     cfg.BlobPlugin,
		MetadataPlugin: cfg.MetadataPlugin,
	})
	if db == nil {
		if err == nil {
			err = errors.New("empty database returned")
		}
		return nil, err
	}
	ls.db = db
	if err != nil {
		var dbErr database.CommitTimestampError
		if !errors.As(err, &dbErr) {
			_ = db.Close()
			return nil, err
		}
		ls.logger.Warn(
			"database initialization error, needs recovery",
			"error", err,
		)
		needsRecovery = true
	}
	if err := ls.initContracts(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if needsRecovery {
		if err := ls.recoverCommitTimestampConflict(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to recover database: %w", err)
		}
	}
	if err := ls.applyGenesis(); err != nil {
		_ = db.Close()
		return nil, err
	}
	seq, err := ls.db.JournalLength(nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	ls.metrics.seq.Set(float64(seq))
	return ls, nil
}

func (ls *LedgerState) initContracts() error {
	oracle, err := botoracle.New(botoracle.Config{
		DB:        ls.db,
		Logger:    ls.config.Logger,
		PublicKey: ls.config.OraclePublicKey,
	})
	if err != nil {
		return err
	}
	reg, err := registry.New(registry.Config{
		DB:            ls.db,
		Oracle:        oracle,
		Logger:        ls.config.Logger,
		DepositAmount: ls.config.DepositAmount,
	})
	if err != nil {
		return err
	}
	store, err := tweetstore.New(ls.db, reg)
	if err != nil {
		return err
	}
	ls.oracle = oracle
	ls.registry = reg
	ls.tweetStore = store
	ls.entrypoints = ls.buildEntrypoints()
	return nil
}

// recoverCommitTimestampConflict drops journal entries written by a blob
// commit whose metadata commit never landed. Committing the cleanup brings
// both commit timestamps back in line.
func (ls *LedgerState) recoverCommitTimestampConflict() error {
	txn := ls.db.Transaction(true)
	return txn.Do(func(txn *database.Txn) error {
		length, err := ls.db.JournalLength(txn)
		if err != nil {
			return err
		}
		stale, err := ls.db.JournalEntries(length, 0, txn)
		if err != nil {
			return err
		}
		for _, record := range stale {
			ls.logger.Warn(
				"dropping uncommitted journal entry",
				"seq", record.Seq,
			)
			if err := ls.db.DeleteJournalEntry(record.Seq, txn); err != nil {
				return err
			}
		}
		return nil
	})
}

func (ls *LedgerState) applyGenesis() error {
	txn := ls.db.Transaction(true)
	return txn.Do(func(txn *database.Txn) error {
		applied, err := ls.db.GetCounter(counterOwner, counterGenesis, txn)
		if err != nil {
			return err
		}
		if applied > 0 {
			return nil
		}
		for addr, amount := range ls.config.Genesis {
			acct, err := ls.db.GetAccount(addr.Bytes(), txn)
			if err != nil {
				return err
			}
			acct.Balance += types.Uint64(amount)
			if err := ls.db.SetAccount(acct, txn); err != nil {
				return err
			}
			ls.logger.Debug(
				"credited genesis balance",
				"address", addr.String(),
				"amount", amount,
			)
		}
		_, err = ls.db.NextCounter(counterOwner, counterGenesis, txn)
		return err
	})
}

// Close closes the database
func (ls *LedgerState) Close() error {
	ls.Lock()
	defer ls.Unlock()
	return ls.db.Close()
}

// Transfer moves native currency between two accounts within txn
func (ls *LedgerState) Transfer(
	txn *database.Txn,
	from, to address.Address,
	amount uint64,
) error {
	if amount == 0 || from == to {
		return nil
	}
	src, err := ls.db.GetAccount(from.Bytes(), txn)
	if err != nil {
		return err
	}
	if uint64(src.Balance) < amount {
		return &InsufficientBalanceError{
			Address: from,
			Balance: uint64(src.Balance),
			Amount:  amount,
		}
	}
	dst, err := ls.db.GetAccount(to.Bytes(), txn)
	if err != nil {
		return err
	}
	src.Balance -= types.Uint64(amount)
	if err := ls.db.SetAccount(src, txn); err != nil {
		return err
	}
	dst.Balance += types.Uint64(amount)
	return ls.db.SetAccount(dst, txn)
}

// Submit verifies and applies a signed transaction. A failed transaction
// leaves no trace: its nonce is not consumed and no events are published.
func (ls *LedgerState) Submit(ctx context.Context, t *tx.Tx) (*Receipt, error) {
	ctx, span := ls.tracer.Start(
		ctx,
		"ledger.Submit",
		trace.WithAttributes(
			attribute.String("chirp.entrypoint", t.Body.Entrypoint),
			attribute.Int64("chirp.amount", int64(t.Body.Amount)), //nolint:gosec
		),
	)
	defer span.End()
	start := time.Now()
	receipt, events, err := ls.apply(ctx, t)
	ls.metrics.txDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		label := ReasonLabel(err)
		ls.metrics.txRejected.WithLabelValues(t.Body.Entrypoint, label).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, label)
		ls.logger.Debug(
			"transaction rejected",
			"entrypoint", t.Body.Entrypoint,
			"reason", label,
			"error", err,
		)
		return nil, err
	}
	ls.metrics.txApplied.WithLabelValues(t.Body.Entrypoint).Inc()
	ls.metrics.seq.Set(float64(receipt.Seq + 1))
	span.SetAttributes(attribute.Int64("chirp.seq", int64(receipt.Seq))) //nolint:gosec
	ls.logger.Debug(
		"transaction applied",
		"entrypoint", t.Body.Entrypoint,
		"seq", receipt.Seq,
	)
	if ls.config.EventBus != nil {
		for _, evt := range events {
			ls.config.EventBus.Publish(evt.Type, evt)
		}
	}
	return receipt, nil
}

func (ls *LedgerState) apply(
	ctx context.Context,
	t *tx.Tx,
) (*Receipt, []event.Event, error) {
	if err := t.Verify(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidTx, err)
	}
	txHash, err := t.Hash()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidTx, err)
	}
	txBytes, err := t.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidTx, err)
	}
	target, err := t.Target()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnknownContract, err)
	}
	ep, err := ls.lookupEntrypoint(target, t.Body.Entrypoint)
	if err != nil {
		return nil, nil, err
	}
	if t.Body.Amount > 0 && !ep.payable {
		return nil, nil, ErrNotPayable
	}
	sender := t.Sender()
	ls.Lock()
	defer ls.Unlock()
	now := ls.config.Clock.Now().Unix()
	receipt := &Receipt{TxHash: txHash.Bytes()}
	var events []event.Event
	txn := ls.db.Transaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		acct, err := ls.db.GetAccount(sender.Bytes(), txn)
		if err != nil {
			return err
		}
		if acct.Nonce != t.Body.Nonce {
			return &NonceMismatchError{
				Address:  sender,
				Expected: acct.Nonce,
				Got:      t.Body.Nonce,
			}
		}
		// The ledger's own entrypoints move funds themselves
		if target != tx.NativeAddress {
			if err := ls.Transfer(txn, sender, target, t.Body.Amount); err != nil {
				return err
			}
		}
		call := contract.NewCall(ctx, txn, ls, sender, t.Body.Amount, now)
		id, err := ep.fn(call, t.Body.Params)
		if err != nil {
			var reason contract.Reason
			if errors.As(err, &reason) {
				return &RejectedError{
					TxHash:     txHash,
					Entrypoint: t.Body.Entrypoint,
					Reason:     reason,
				}
			}
			return err
		}
		receipt.ID = id
		// Reload, since the call may have moved funds
		acct, err = ls.db.GetAccount(sender.Bytes(), txn)
		if err != nil {
			return err
		}
		acct.Nonce++
		if err := ls.db.SetAccount(acct, txn); err != nil {
			return err
		}
		seq, err := ls.db.JournalLength(txn)
		if err != nil {
			return err
		}
		entry, err := cbor.Encode(&JournalEntry{
			Seq:       seq,
			TxHash:    txHash.Bytes(),
			Tx:        txBytes,
			Timestamp: now,
		})
		if err != nil {
			return err
		}
		if _, err := ls.db.AppendJournal(entry, txn); err != nil {
			return err
		}
		receipt.Seq = seq
		call.Emit(
			event.TxAppliedEventType,
			event.TxAppliedEvent{
				TxHash:     txHash.Bytes(),
				Sender:     sender,
				Contract:   target,
				Entrypoint: t.Body.Entrypoint,
				Amount:     t.Body.Amount,
				Seq:        seq,
				Nonce:      t.Body.Nonce,
			},
		)
		events = call.Events()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return receipt, events, nil
}
