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

// Package relay is the off-ledger signer that answers bot check requests.
// It scores each subject's profile, signs the verdict with the oracle key
// and submits it back to the ledger.
package relay

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract"
	"github.com/FlorianSegard/blockchainProject/contract/botoracle"
	"github.com/FlorianSegard/blockchainProject/database/models"
	"github.com/FlorianSegard/blockchainProject/event"
	"github.com/FlorianSegard/blockchainProject/keystore"
	"github.com/FlorianSegard/blockchainProject/ledger"
	"github.com/FlorianSegard/blockchainProject/tx"
	"github.com/prometheus/client_golang/prometheus"
)

const requestQueueSize = 1000

var (
	ErrAlreadyRunning = errors.New("relay already running")
	ErrKeyMismatch    = errors.New("relay key does not match the oracle public key")
)

// Ledger is the part of the ledger the relay reads and submits to
type Ledger interface {
	Submit(ctx context.Context, t *tx.Tx) (*ledger.Receipt, error)
	Nonce(addr address.Address) (uint64, error)
	Profile(account address.Address) (*models.Profile, error)
	IsBotting(subject, requester address.Address) (bool, bool, error)
	PendingOracleRequests() ([]models.OracleRequest, error)
	OraclePublicKey() ed25519.PublicKey
}

type RelayConfig struct {
	Logger       *slog.Logger
	EventBus     *event.EventBus
	PromRegistry prometheus.Registerer
	Ledger       Ledger
	Key          *keystore.SigningKey
	// Threshold is the score at or above which a subject is judged a bot
	Threshold float64
}

type request struct {
	subject   address.Address
	requester address.Address
}

type Relay struct {
	config  RelayConfig
	logger  *slog.Logger
	metrics relayMetrics
	queue   chan request
	subId   event.EventSubscriberId
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

func NewRelay(cfg RelayConfig) (*Relay, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.Ledger == nil {
		return nil, errors.New("relay: ledger is required")
	}
	if cfg.EventBus == nil {
		return nil, errors.New("relay: event bus is required")
	}
	if cfg.Key == nil {
		return nil, errors.New("relay: signing key is required")
	}
	if !cfg.Key.VerificationKey().Equal(cfg.Ledger.OraclePublicKey()) {
		return nil, ErrKeyMismatch
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	r := &Relay{
		config: cfg,
		logger: cfg.Logger.With("component", "relay"),
	}
	r.metrics.init(cfg.PromRegistry)
	return r, nil
}

// Address is the account the relay submits verdicts from
func (r *Relay) Address() address.Address {
	return r.config.Key.Address()
}

// Start subscribes to new requests, queues the ones already pending and
// starts answering them
func (r *Relay) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.queue = make(chan request, requestQueueSize)
	// Subscribe before reading the backlog so no request falls in between
	r.subId = r.config.EventBus.SubscribeFunc(
		event.OracleRequestEventType,
		func(evt event.Event) {
			req, ok := evt.Data.(event.OracleRequestEvent)
			if !ok {
				return
			}
			r.enqueue(ctx, request{subject: req.Subject, requester: req.Requester})
		},
	)
	pending, err := r.config.Ledger.PendingOracleRequests()
	if err != nil {
		r.config.EventBus.Unsubscribe(event.OracleRequestEventType, r.subId)
		cancel()
		return fmt.Errorf("failed to load pending requests: %w", err)
	}
	r.wg.Add(1)
	go r.run(ctx)
	for _, req := range pending {
		subject, err := address.FromBytes(req.Subject)
		if err != nil {
			continue
		}
		requester, err := address.FromBytes(req.Requester)
		if err != nil {
			continue
		}
		r.enqueue(ctx, request{subject: subject, requester: requester})
	}
	r.running = true
	r.logger.Info(
		"relay started",
		"address", r.Address().String(),
		"pending", len(pending),
	)
	return nil
}

// Stop ends the subscription and waits for the request in flight
func (r *Relay) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.config.EventBus.Unsubscribe(event.OracleRequestEventType, r.subId)
	r.cancel()
	r.wg.Wait()
	r.running = false
}

func (r *Relay) enqueue(ctx context.Context, req request) {
	select {
	case r.queue <- req:
	case <-ctx.Done():
	}
}

func (r *Relay) run(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-r.queue:
			if err := r.answer(ctx, req); err != nil {
				r.metrics.errors.Inc()
				r.logger.Error(
					"failed to answer bot check",
					"subject", req.subject.String(),
					"requester", req.requester.String(),
					"error", err,
				)
			}
		}
	}
}

func (r *Relay) answer(ctx context.Context, req request) error {
	_, answered, err := r.config.Ledger.IsBotting(req.subject, req.requester)
	if err != nil {
		return err
	}
	if answered {
		return nil
	}
	var username, bio string
	profile, err := r.config.Ledger.Profile(req.subject)
	if err != nil {
		return err
	}
	if profile != nil {
		username, bio = profile.Username, profile.Bio
	}
	score := Score(username, bio)
	isBot := score >= r.config.Threshold
	msg, sig, err := botoracle.SignVerdict(
		r.config.Key.PrivateKey(),
		req.subject,
		req.requester,
		isBot,
	)
	if err != nil {
		return err
	}
	nonce, err := r.config.Ledger.Nonce(r.Address())
	if err != nil {
		return err
	}
	body, err := tx.New(
		nonce,
		tx.BotOracleAddress,
		tx.EntrypointReceiveResult,
		0,
		&tx.ReceiveResultParams{
			Subject:   req.subject.Bytes(),
			Requester: req.requester.Bytes(),
			Message:   msg,
			Signature: sig,
		},
	)
	if err != nil {
		return err
	}
	signed, err := r.config.Key.SignTx(body)
	if err != nil {
		return err
	}
	if _, err := r.config.Ledger.Submit(ctx, signed); err != nil {
		// Someone else got there first
		if errors.Is(err, contract.ErrResultAlreadySet) {
			return nil
		}
		return fmt.Errorf("submit verdict: %w", err)
	}
	verdict := "human"
	if isBot {
		verdict = "bot"
	}
	r.metrics.answers.WithLabelValues(verdict).Inc()
	r.metrics.score.Observe(score)
	r.logger.Info(
		"answered bot check",
		"subject", req.subject.String(),
		"requester", req.requester.String(),
		"score", score,
		"verdict", verdict,
	)
	return nil
}
