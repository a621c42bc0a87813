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

// Package botoracle implements the bot check oracle contract. Verdicts are
// accepted only when signed by the configured ed25519 key.
package botoracle

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract"
	"github.com/FlorianSegard/blockchainProject/database"
	"github.com/FlorianSegard/blockchainProject/database/models"
	"github.com/FlorianSegard/blockchainProject/event"
	"github.com/blinklabs-io/gouroboros/cbor"
)

const Name = "botoracle"

var Address = address.Contract(Name)

var ErrInvalidPublicKey = errors.New("botoracle: invalid public key")

type Config struct {
	DB        *database.Database
	Logger    *slog.Logger
	PublicKey ed25519.PublicKey
}

type BotOracle struct {
	db        *database.Database
	logger    *slog.Logger
	publicKey ed25519.PublicKey
}

func New(cfg Config) (*BotOracle, error) {
	if cfg.DB == nil {
		return nil, errors.New("botoracle: database is required")
	}
	if len(cfg.PublicKey) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &BotOracle{
		db:        cfg.DB,
		logger:    cfg.Logger.With("component", "botoracle"),
		publicKey: cfg.PublicKey,
	}, nil
}

// PublicKey returns the key verdicts must be signed with
func (o *BotOracle) PublicKey() ed25519.PublicKey {
	return o.publicKey
}

// RequestBotChecking opens a request for a verdict on subject. The calling
// contract is the requester.
func (o *BotOracle) RequestBotChecking(
	call *contract.Call,
	subject address.Address,
) error {
	existing, err := o.db.GetOracleRequest(
		subject.Bytes(),
		call.Sender.Bytes(),
		call.Txn,
	)
	if err != nil {
		return err
	}
	if existing != nil {
		return contract.ErrRequestAlreadyExists
	}
	req := &models.OracleRequest{
		Subject:     subject.Bytes(),
		Requester:   call.Sender.Bytes(),
		RequestedAt: call.Now,
	}
	if err := o.db.SetOracleRequest(req, call.Txn); err != nil {
		return err
	}
	call.Emit(
		event.OracleRequestEventType,
		event.OracleRequestEvent{Subject: subject, Requester: call.Sender},
	)
	return nil
}

// ReceiveResult records a signed verdict for a pending request
func (o *BotOracle) ReceiveResult(
	call *contract.Call,
	subject, requester address.Address,
	message, signature []byte,
) error {
	if !ed25519.Verify(o.publicKey, message, signature) {
		return contract.ErrInvalidSignature
	}
	verdict, err := DecodeVerdict(message)
	if err != nil {
		o.logger.Debug("rejecting verdict", "error", err)
		return contract.ErrMalformedMessage
	}
	if !bytes.Equal(verdict.Subject, subject.Bytes()) ||
		!bytes.Equal(verdict.Requester, requester.Bytes()) {
		return contract.ErrMessageMismatch
	}
	req, err := o.db.GetOracleRequest(
		subject.Bytes(),
		requester.Bytes(),
		call.Txn,
	)
	if err != nil {
		return err
	}
	if req == nil {
		return contract.ErrNoPendingRequest
	}
	if req.Answered() {
		return contract.ErrResultAlreadySet
	}
	isBot := verdict.IsBot
	req.Result = &isBot
	req.AnsweredAt = call.Now
	if err := o.db.SetOracleRequest(req, call.Txn); err != nil {
		return err
	}
	attestation, err := cbor.Encode(&Attestation{
		Message:   message,
		Signature: signature,
	})
	if err != nil {
		return fmt.Errorf("encode attestation: %w", err)
	}
	if err := o.db.SetAttestation(
		subject.Bytes(),
		requester.Bytes(),
		attestation,
		call.Txn,
	); err != nil {
		return err
	}
	call.Emit(
		event.OracleResultEventType,
		event.OracleResultEvent{
			Subject:   subject,
			Requester: requester,
			IsBot:     isBot,
		},
	)
	return nil
}

// GetIsBotting returns the verdict for a request and whether one has been
// received
func (o *BotOracle) GetIsBotting(
	txn *database.Txn,
	subject, requester address.Address,
) (bool, bool, error) {
	req, err := o.db.GetOracleRequest(subject.Bytes(), requester.Bytes(), txn)
	if err != nil {
		return false, false, err
	}
	if req == nil || !req.Answered() {
		return false, false, nil
	}
	return *req.Result, true, nil
}

// PendingRequests returns the requests still waiting for a verdict
func (o *BotOracle) PendingRequests(
	txn *database.Txn,
) ([]models.OracleRequest, error) {
	return o.db.GetPendingOracleRequests(txn)
}

// GetAttestation returns the signed verdict stored for a request, or nil
func (o *BotOracle) GetAttestation(
	txn *database.Txn,
	subject, requester address.Address,
) (*Attestation, error) {
	data, err := o.db.GetAttestation(subject.Bytes(), requester.Bytes(), txn)
	if err != nil || data == nil {
		return nil, err
	}
	var ret Attestation
	if _, err := cbor.Decode(data, &ret); err != nil {
		return nil, fmt.Errorf("decode attestation: %w", err)
	}
	return &ret, nil
}
