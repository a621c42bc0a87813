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

// Package api serves the ledger over HTTP: signed transaction submission,
// read-only queries and the server-signed façade routes.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/FlorianSegard/blockchainProject/keystore"
	"golang.org/x/time/rate"
)

const (
	DefaultListenAddress = ":8080"
	DefaultRateLimit     = 10
	DefaultRateBurst     = 20

	// Signed transactions are a few hundred bytes
	maxRequestBodySize = 64 << 10
)

type APIConfig struct {
	ListenAddress string
	// FacadeKey signs the façade routes. They answer 503 without one.
	FacadeKey *keystore.SigningKey
	// RateLimit is the sustained number of state-changing requests per
	// second accepted from all clients together
	RateLimit float64
	RateBurst int
}

type API struct {
	config     APIConfig
	logger     *slog.Logger
	ledger     Ledger
	limiter    *rate.Limiter
	httpServer *http.Server
	listenAddr net.Addr
	mu         sync.Mutex
	// Façade submissions share one account nonce
	facadeMu sync.Mutex
}

func New(cfg APIConfig, ledger Ledger, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}
	return &API{
		config:  cfg,
		logger:  logger.With("component", "api"),
		ledger:  ledger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
}

// Handler returns the routes served by the API
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /api/v1/params", a.handleParams)
	mux.HandleFunc("POST /api/v1/tx", a.limit(a.handleSubmitTx))
	mux.HandleFunc("GET /api/v1/tweets", a.handleTweets)
	mux.HandleFunc("GET /api/v1/profiles/{address}", a.handleProfile)
	mux.HandleFunc("GET /api/v1/accounts/{address}", a.handleAccount)
	mux.HandleFunc("GET /api/v1/oracle/pending", a.handleOraclePending)
	// Façade
	mux.HandleFunc("POST /create_user", a.limit(a.handleCreateUser))
	mux.HandleFunc("POST /post_tweet", a.limit(a.handlePostTweet))
	mux.HandleFunc("GET /get_tweets", a.handleGetTweets)
	mux.HandleFunc("POST /delete_tweet", a.limit(a.handleDeleteTweet))
	return mux
}

// limit rejects requests beyond the configured rate with 429
func (a *API) limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.limiter.Allow() {
			writeError(
				w,
				http.StatusTooManyRequests,
				"Too Many Requests",
				"",
				"request rate limit exceeded",
			)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		next(w, r)
	}
}

// Start binds the listener and serves in a background goroutine until ctx
// is done or Stop is called
func (a *API) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}
	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		a.mu.Unlock()
		return fmt.Errorf("failed to listen for API server: %w", err)
	}
	a.httpServer = server
	a.listenAddr = ln.Addr()
	a.mu.Unlock()
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("API server error", "error", err)
		}
	}()
	a.logger.Info("API listener started on " + ln.Addr().String())
	go func() {
		<-ctx.Done()
		//nolint:contextcheck
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			30*time.Second,
		)
		defer cancel()
		//nolint:contextcheck
		if err := a.Stop(shutdownCtx); err != nil {
			a.logger.Error(
				"failed to shutdown API server on context cancellation",
				"error", err,
			)
		}
	}()
	return nil
}

// Addr returns the bound listen address, or nil when not started
func (a *API) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.httpServer == nil {
		return nil
	}
	return a.listenAddr
}

// Stop gracefully shuts down the HTTP server
func (a *API) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()
	if srv == nil {
		return nil
	}
	a.logger.Debug("shutting down API server")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown API server: %w", err)
	}
	return nil
}
