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

// Package node wires the ledger, the oracle relay and the HTTP servers
// into one running process.
package node

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/FlorianSegard/blockchainProject/api"
	"github.com/FlorianSegard/blockchainProject/event"
	"github.com/FlorianSegard/blockchainProject/internal/config"
	"github.com/FlorianSegard/blockchainProject/keystore"
	"github.com/FlorianSegard/blockchainProject/ledger"
	"github.com/FlorianSegard/blockchainProject/relay"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var ErrNoOracleKey = errors.New("oracleKeyFile or oracleVKeyFile is required")

type Node struct {
	config          *config.Config
	baseLogger      *slog.Logger
	logger          *slog.Logger
	promRegistry    *prometheus.Registry
	oraclePublicKey ed25519.PublicKey
	oracleKey       *keystore.SigningKey
	facadeKey       *keystore.SigningKey
	shutdownTimeout time.Duration
	eventBus        *event.EventBus
	ledgerState     *ledger.LedgerState
	relay           *relay.Relay
	api             *api.API
	metricsServer   *http.Server
	metricsAddr     net.Addr
	shutdownFuncs   []func(context.Context) error
	shutdownOnce    sync.Once
}

// New validates cfg and loads the configured keys. Nothing is opened until
// Start.
func New(cfg *config.Config, logger *slog.Logger) (*Node, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	shutdownTimeout, err := cfg.ShutdownDuration()
	if err != nil {
		return nil, err
	}
	n := &Node{
		config:          cfg,
		baseLogger:      logger,
		logger:          logger.With("component", "node"),
		promRegistry:    prometheus.NewRegistry(),
		shutdownTimeout: shutdownTimeout,
	}
	switch {
	case cfg.OracleKeyFile != "":
		key, err := keystore.LoadSigningKey(cfg.OracleKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load oracle key: %w", err)
		}
		n.oracleKey = key
		n.oraclePublicKey = key.VerificationKey()
	case cfg.OracleVKeyFile != "":
		vkey, err := keystore.LoadVerificationKey(cfg.OracleVKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load oracle verification key: %w", err)
		}
		n.oraclePublicKey = vkey
	default:
		return nil, ErrNoOracleKey
	}
	if cfg.FacadeKeyFile != "" {
		key, err := keystore.LoadSigningKey(cfg.FacadeKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load facade key: %w", err)
		}
		n.facadeKey = key
	}
	n.promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return n, nil
}

// Start opens the ledger and starts the relay and the listeners. A failed
// start releases whatever was already opened.
func (n *Node) Start(ctx context.Context) error {
	if err := n.start(ctx); err != nil {
		stopCtx, cancel := context.WithTimeout(
			context.Background(),
			n.shutdownTimeout,
		)
		defer cancel()
		return errors.Join(err, n.Stop(stopCtx)) //nolint:contextcheck
	}
	return nil
}

func (n *Node) start(ctx context.Context) error {
	if n.config.Tracing {
		shutdown, err := setupTracing(ctx, n.config.TracingStdout)
		if err != nil {
			return err
		}
		n.shutdownFuncs = append(n.shutdownFuncs, shutdown)
	}
	genesis, err := n.config.GenesisBalances()
	if err != nil {
		return err
	}
	n.eventBus = event.NewEventBus(n.promRegistry, n.baseLogger)
	ls, err := ledger.NewLedgerState(ledger.LedgerStateConfig{
		Logger:          n.baseLogger,
		EventBus:        n.eventBus,
		PromRegistry:    n.promRegistry,
		DataDir:         n.config.DatabasePath,
		BlobPlugin:      n.config.BlobPlugin,
		MetadataPlugin:  n.config.MetadataPlugin,
		OraclePublicKey: n.oraclePublicKey,
		DepositAmount:   n.config.DepositAmount,
		Genesis:         genesis,
	})
	if err != nil {
		return fmt.Errorf("failed to load ledger state: %w", err)
	}
	n.ledgerState = ls
	if n.config.RelayEnabled {
		r, err := relay.NewRelay(relay.RelayConfig{
			Logger:       n.baseLogger,
			EventBus:     n.eventBus,
			PromRegistry: n.promRegistry,
			Ledger:       ls,
			Key:          n.oracleKey,
			Threshold:    n.config.RelayThreshold,
		})
		if err != nil {
			return err
		}
		if err := r.Start(ctx); err != nil {
			return fmt.Errorf("failed to start relay: %w", err)
		}
		n.relay = r
	}
	n.api = api.New(
		api.APIConfig{
			ListenAddress: net.JoinHostPort(
				n.config.BindAddr,
				fmt.Sprintf("%d", n.config.ApiPort),
			),
			FacadeKey: n.facadeKey,
			RateLimit: n.config.ApiRateLimit,
			RateBurst: n.config.ApiRateBurst,
		},
		ls,
		n.baseLogger,
	)
	if err := n.api.Start(ctx); err != nil {
		return fmt.Errorf("failed to start API: %w", err)
	}
	if n.config.MetricsPort > 0 {
		if err := n.startMetrics(); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) startMetrics() error {
	listenAddr := net.JoinHostPort(
		n.config.BindAddr,
		fmt.Sprintf("%d", n.config.MetricsPort),
	)
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("failed to start metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle(
		"/metrics",
		promhttp.HandlerFor(n.promRegistry, promhttp.HandlerOpts{}),
	)
	n.metricsServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	n.metricsAddr = listener.Addr()
	n.logger.Info(
		"serving prometheus metrics on " + listener.Addr().String(),
	)
	server := n.metricsServer
	go func() {
		if err := server.Serve(listener); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			n.logger.Error("metrics listener failed", "error", err)
		}
	}()
	return nil
}

// APIAddr returns the address the API is bound to
func (n *Node) APIAddr() net.Addr {
	if n.api == nil {
		return nil
	}
	return n.api.Addr()
}

// MetricsAddr returns the address the metrics server is bound to, or nil
// when it is disabled
func (n *Node) MetricsAddr() net.Addr {
	return n.metricsAddr
}

func (n *Node) LedgerState() *ledger.LedgerState {
	return n.ledgerState
}

// Stop shuts everything down in reverse start order. Only the first call
// does any work.
func (n *Node) Stop(ctx context.Context) error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown(ctx)
	})
	return err
}

func (n *Node) shutdown(ctx context.Context) error {
	var err error
	n.logger.Debug("starting graceful shutdown")
	// Stop accepting new work
	if n.metricsServer != nil {
		if stopErr := n.metricsServer.Shutdown(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("metrics server shutdown: %w", stopErr))
		}
	}
	if n.api != nil {
		if stopErr := n.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("API shutdown: %w", stopErr))
		}
	}
	if n.relay != nil {
		n.relay.Stop()
	}
	// Flush state
	if n.ledgerState != nil {
		if closeErr := n.ledgerState.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("ledger state close: %w", closeErr))
		}
	}
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil
	if n.eventBus != nil {
		n.eventBus.Stop()
	}
	n.logger.Debug("graceful shutdown complete")
	return err
}

// Run starts a node and blocks until SIGINT or SIGTERM, then shuts it down
// within the configured timeout
func Run(cfg *config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	n, err := New(cfg, logger)
	if err != nil {
		return err
	}
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()
	if err := n.Start(signalCtx); err != nil {
		return err
	}
	logger.Info(
		"node started",
		"component", "node",
		"api", n.APIAddr(),
	)
	<-signalCtx.Done()
	logger.Info("signal received, initiating graceful shutdown", "component", "node")
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		n.shutdownTimeout,
	)
	defer cancel()
	if err := n.Stop(shutdownCtx); err != nil { //nolint:contextcheck
		logger.Error("shutdown errors occurred", "error", err, "component", "node")
		return err
	}
	logger.Info("shutdown complete", "component", "node")
	return nil
}
