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

package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/database/models"
	"github.com/FlorianSegard/blockchainProject/ledger"
	"github.com/FlorianSegard/blockchainProject/tx"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

func writeError(
	w http.ResponseWriter,
	status int,
	errStr string,
	reason string,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      errStr,
		Reason:     reason,
		Message:    message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "Bad Request", "", message)
}

func (a *API) writeInternalError(w http.ResponseWriter, msg string, err error) {
	a.logger.Error(msg, "error", err)
	writeError(
		w,
		http.StatusInternalServerError,
		"Internal Server Error",
		"",
		msg,
	)
}

// writeSubmitError maps a submission failure to a response. Contract
// rejections carry their reason verbatim.
func (a *API) writeSubmitError(w http.ResponseWriter, err error) {
	var rejected *ledger.RejectedError
	var nonceErr *ledger.NonceMismatchError
	var balanceErr *ledger.InsufficientBalanceError
	switch {
	case errors.As(err, &rejected):
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			string(rejected.Reason),
			err.Error(),
		)
	case errors.As(err, &nonceErr):
		writeError(
			w,
			http.StatusConflict,
			"Conflict",
			ledger.ReasonLabel(err),
			err.Error(),
		)
	case errors.As(err, &balanceErr),
		errors.Is(err, ledger.ErrInvalidTx),
		errors.Is(err, ledger.ErrUnknownContract),
		errors.Is(err, ledger.ErrUnknownEntrypoint),
		errors.Is(err, ledger.ErrNotPayable),
		errors.Is(err, ledger.ErrInvalidParams):
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			ledger.ReasonLabel(err),
			err.Error(),
		)
	default:
		a.writeInternalError(w, "failed to apply transaction", err)
	}
}

func pathAddress(w http.ResponseWriter, r *http.Request) (address.Address, bool) {
	addr, err := address.Parse(r.PathValue("address"))
	if err != nil {
		writeBadRequest(w, "invalid address")
		return address.Zero, false
	}
	return addr, true
}

func tweetResponses(tweets []models.Tweet) []TweetResponse {
	ret := make([]TweetResponse, 0, len(tweets))
	for _, tweet := range tweets {
		author, err := address.FromBytes(tweet.Author)
		if err != nil {
			continue
		}
		ret = append(ret, TweetResponse{
			ID:        tweet.TweetID,
			Author:    author.String(),
			Content:   tweet.Content,
			Timestamp: tweet.PostedAt,
			Deleted:   tweet.Deleted,
		})
	}
	return ret
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	seq, err := a.ledger.Seq()
	if err != nil {
		a.logger.Error("failed to read ledger sequence", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{IsHealthy: true, Seq: seq})
}

func (a *API) handleParams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ParamsResponse{
		DepositAmount:   a.ledger.DepositAmount(),
		OraclePublicKey: hex.EncodeToString(a.ledger.OraclePublicKey()),
	})
}

// readTx accepts either raw CBOR (application/cbor) or a JSON body with
// the hex encoded transaction
func readTx(r *http.Request) (*tx.Tx, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/cbor" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		return tx.Decode(data)
	}
	var req SubmitTxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return tx.DecodeHex(req.Tx)
}

func (a *API) handleSubmitTx(w http.ResponseWriter, r *http.Request) {
	t, err := readTx(r)
	if err != nil {
		writeBadRequest(w, "invalid transaction: "+err.Error())
		return
	}
	receipt, err := a.ledger.Submit(r.Context(), t)
	if err != nil {
		a.writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SubmitTxResponse{
		ID:     receipt.ID,
		TxHash: hex.EncodeToString(receipt.TxHash),
		Seq:    receipt.Seq,
	})
}

func (a *API) handleTweets(w http.ResponseWriter, r *http.Request) {
	params, err := ParsePagination(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	tweets, err := a.ledger.ListTweets()
	if err != nil {
		a.writeInternalError(w, "failed to retrieve tweets", err)
		return
	}
	all := tweetResponses(tweets)
	SetPaginationHeaders(w, len(all), params)
	writeJSON(w, http.StatusOK, paginate(all, params))
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathAddress(w, r)
	if !ok {
		return
	}
	profile, err := a.ledger.Profile(addr)
	if err != nil {
		a.writeInternalError(w, "failed to retrieve profile", err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "Not Found", "", "profile not found")
		return
	}
	deposit, err := a.ledger.Deposit(addr)
	if err != nil {
		a.writeInternalError(w, "failed to retrieve deposit", err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{
		Address:           addr.String(),
		ProfileID:         profile.ProfileID,
		Username:          profile.Username,
		Bio:               profile.Bio,
		RegisteredAt:      profile.RegisteredAt,
		UsernameChangedAt: profile.UsernameChangedAt,
		BioChangedAt:      profile.BioChangedAt,
		Deposit:           deposit,
		Deleted:           profile.Deleted,
		Banned:            profile.Banned,
	})
}

func (a *API) handleAccount(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathAddress(w, r)
	if !ok {
		return
	}
	acct, err := a.ledger.Account(addr)
	if err != nil {
		a.writeInternalError(w, "failed to retrieve account", err)
		return
	}
	writeJSON(w, http.StatusOK, AccountResponse{
		Address: addr.String(),
		Balance: uint64(acct.Balance),
		Nonce:   acct.Nonce,
	})
}

func (a *API) handleOraclePending(w http.ResponseWriter, _ *http.Request) {
	pending, err := a.ledger.PendingOracleRequests()
	if err != nil {
		a.writeInternalError(w, "failed to retrieve pending requests", err)
		return
	}
	ret := make([]OracleRequestResponse, 0, len(pending))
	for _, req := range pending {
		subject, err := address.FromBytes(req.Subject)
		if err != nil {
			continue
		}
		requester, err := address.FromBytes(req.Requester)
		if err != nil {
			continue
		}
		ret = append(ret, OracleRequestResponse{
			Subject:     subject.String(),
			Requester:   requester.String(),
			RequestedAt: req.RequestedAt,
		})
	}
	writeJSON(w, http.StatusOK, ret)
}

// submitFacade signs and submits a call with the façade key
func (a *API) submitFacade(
	ctx context.Context,
	target address.Address,
	entrypoint string,
	amount uint64,
	params any,
) (*ledger.Receipt, error) {
	a.facadeMu.Lock()
	defer a.facadeMu.Unlock()
	key := a.config.FacadeKey
	nonce, err := a.ledger.Nonce(key.Address())
	if err != nil {
		return nil, err
	}
	body, err := tx.New(nonce, target, entrypoint, amount, params)
	if err != nil {
		return nil, err
	}
	signed, err := key.SignTx(body)
	if err != nil {
		return nil, err
	}
	return a.ledger.Submit(ctx, signed)
}

func (a *API) facadeEnabled(w http.ResponseWriter) bool {
	if a.config.FacadeKey == nil {
		writeError(
			w,
			http.StatusServiceUnavailable,
			"Service Unavailable",
			"",
			"no facade key configured",
		)
		return false
	}
	return true
}

func (a *API) writeFacade(
	w http.ResponseWriter,
	message string,
	receipt *ledger.Receipt,
) {
	writeJSON(w, http.StatusOK, FacadeResponse{
		Message:       message,
		OperationHash: hex.EncodeToString(receipt.TxHash),
		ID:            receipt.ID,
	})
}

func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if !a.facadeEnabled(w) {
		return
	}
	query := r.URL.Query()
	receipt, err := a.submitFacade(
		r.Context(),
		tx.RegistryAddress,
		tx.EntrypointRegister,
		a.ledger.DepositAmount(),
		&tx.RegisterParams{
			Username: query.Get("username"),
			Bio:      query.Get("bio"),
		},
	)
	if err != nil {
		a.writeSubmitError(w, err)
		return
	}
	a.writeFacade(w, "User created", receipt)
}

func (a *API) handlePostTweet(w http.ResponseWriter, r *http.Request) {
	if !a.facadeEnabled(w) {
		return
	}
	receipt, err := a.submitFacade(
		r.Context(),
		tx.TweetStoreAddress,
		tx.EntrypointPostTweet,
		0,
		&tx.PostTweetParams{Content: r.URL.Query().Get("content")},
	)
	if err != nil {
		a.writeSubmitError(w, err)
		return
	}
	a.writeFacade(w, "Tweet posted", receipt)
}

func (a *API) handleGetTweets(w http.ResponseWriter, _ *http.Request) {
	tweets, err := a.ledger.ListTweets()
	if err != nil {
		a.writeInternalError(w, "failed to retrieve tweets", err)
		return
	}
	writeJSON(w, http.StatusOK, TweetsResponse{Tweets: tweetResponses(tweets)})
}

func (a *API) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	if !a.facadeEnabled(w) {
		return
	}
	tweetID, err := strconv.ParseUint(r.URL.Query().Get("tweet_id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid tweet_id")
		return
	}
	receipt, err := a.submitFacade(
		r.Context(),
		tx.TweetStoreAddress,
		tx.EntrypointDeleteTweet,
		0,
		&tx.DeleteTweetParams{TweetID: tweetID},
	)
	if err != nil {
		a.writeSubmitError(w, err)
		return
	}
	a.writeFacade(w, "Tweet deleted", receipt)
}
