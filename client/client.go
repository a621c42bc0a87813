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

// Package client talks to the chirp HTTP API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/api"
	"github.com/FlorianSegard/blockchainProject/contract"
	"github.com/FlorianSegard/blockchainProject/keystore"
	"github.com/FlorianSegard/blockchainProject/tx"
)

const DefaultAPIURL = "http://localhost:8080"

// Error is a failed API request. Rejections unwrap to their
// contract.Reason, so errors.Is works against the reason constants.
type Error struct {
	StatusCode int
	Status     string
	Reason     string
	Message    string
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%d): %s", e.Reason, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Status, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Reason == "" {
		return nil
	}
	return contract.Reason(e.Reason)
}

type Client struct {
	apiURL     string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(apiURL string, opts ...ClientOption) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	c := &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	reqBody any,
	respBody any,
) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr api.ErrorResponse
		// Limit error response reads to 1 MiB
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err := json.Unmarshal(data, &apiErr); err != nil {
			return &Error{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Message:    strings.TrimSpace(string(data)),
			}
		}
		return &Error{
			StatusCode: resp.StatusCode,
			Status:     apiErr.Error,
			Reason:     apiErr.Reason,
			Message:    apiErr.Message,
		}
	}
	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var ret api.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (c *Client) Params(ctx context.Context) (*api.ParamsResponse, error) {
	var ret api.ParamsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/params", nil, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (c *Client) Account(
	ctx context.Context,
	addr address.Address,
) (*api.AccountResponse, error) {
	var ret api.AccountResponse
	path := "/api/v1/accounts/" + url.PathEscape(addr.String())
	if err := c.do(ctx, http.MethodGet, path, nil, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Profile returns the profile of an account, or nil if it never registered
func (c *Client) Profile(
	ctx context.Context,
	addr address.Address,
) (*api.ProfileResponse, error) {
	var ret api.ProfileResponse
	path := "/api/v1/profiles/" + url.PathEscape(addr.String())
	if err := c.do(ctx, http.MethodGet, path, nil, &ret); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

// Tweets returns every tweet in id order, deleted ones included
func (c *Client) Tweets(ctx context.Context) ([]api.TweetResponse, error) {
	var ret api.TweetsResponse
	if err := c.do(ctx, http.MethodGet, "/get_tweets", nil, &ret); err != nil {
		return nil, err
	}
	return ret.Tweets, nil
}

func (c *Client) PendingOracleRequests(
	ctx context.Context,
) ([]api.OracleRequestResponse, error) {
	var ret []api.OracleRequestResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/oracle/pending", nil, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// SubmitTx submits a signed transaction
func (c *Client) SubmitTx(
	ctx context.Context,
	t *tx.Tx,
) (*api.SubmitTxResponse, error) {
	txHex, err := t.Hex()
	if err != nil {
		return nil, err
	}
	var ret api.SubmitTxResponse
	if err := c.do(
		ctx,
		http.MethodPost,
		"/api/v1/tx",
		api.SubmitTxRequest{Tx: txHex},
		&ret,
	); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Call signs a call to entrypoint on target with the account's current
// nonce and submits it
func (c *Client) Call(
	ctx context.Context,
	key *keystore.SigningKey,
	target address.Address,
	entrypoint string,
	amount uint64,
	params any,
) (*api.SubmitTxResponse, error) {
	acct, err := c.Account(ctx, key.Address())
	if err != nil {
		return nil, fmt.Errorf("fetching nonce: %w", err)
	}
	body, err := tx.New(acct.Nonce, target, entrypoint, amount, params)
	if err != nil {
		return nil, err
	}
	signed, err := key.SignTx(body)
	if err != nil {
		return nil, err
	}
	return c.SubmitTx(ctx, signed)
}
