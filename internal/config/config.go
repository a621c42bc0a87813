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

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "chirp.config"

const (
	DefaultBlobPlugin      = "badger"
	DefaultMetadataPlugin  = "sqlite"
	DefaultShutdownTimeout = "30s"
	DefaultDepositAmount   = 100
	DefaultRelayThreshold  = 0.7
)

// Environment variables use this prefix, e.g. CHIRP_API_PORT
const envPrefix = "chirp"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type Config struct {
	DatabasePath    string `yaml:"databasePath"    split_words:"true"`
	BlobPlugin      string `yaml:"blobPlugin"      split_words:"true"`
	MetadataPlugin  string `yaml:"metadataPlugin"  split_words:"true"`
	BindAddr        string `yaml:"bindAddr"        split_words:"true"`
	ShutdownTimeout string `yaml:"shutdownTimeout" split_words:"true"`
	ApiPort         uint   `yaml:"apiPort"         split_words:"true"`
	MetricsPort     uint   `yaml:"metricsPort"     split_words:"true"`
	DepositAmount   uint64 `yaml:"depositAmount"   split_words:"true"`
	// OracleKeyFile is the relay's signing key. The ledger verifies
	// verdicts against its verification key, which can be given on its
	// own as OracleVKeyFile when the relay runs elsewhere.
	OracleKeyFile  string  `yaml:"oracleKeyFile"  split_words:"true"`
	OracleVKeyFile string  `yaml:"oracleVKeyFile" envconfig:"ORACLE_VKEY_FILE"`
	RelayEnabled   bool    `yaml:"relayEnabled"   split_words:"true"`
	RelayThreshold float64 `yaml:"relayThreshold" split_words:"true"`
	// FacadeKeyFile signs the server-side façade routes. They are
	// disabled when unset.
	FacadeKeyFile string  `yaml:"facadeKeyFile" split_words:"true"`
	ApiRateLimit  float64 `yaml:"apiRateLimit"  split_words:"true"`
	ApiRateBurst  int     `yaml:"apiRateBurst"  split_words:"true"`
	Tracing       bool    `yaml:"tracing"`
	TracingStdout bool    `yaml:"tracingStdout" split_words:"true"`
	// Genesis maps bech32 addresses to their initial balance
	Genesis map[string]uint64 `yaml:"genesis"`
}

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() *Config {
	return &Config{
		DatabasePath:    ".chirp",
		BlobPlugin:      DefaultBlobPlugin,
		MetadataPlugin:  DefaultMetadataPlugin,
		BindAddr:        "0.0.0.0",
		ShutdownTimeout: DefaultShutdownTimeout,
		ApiPort:         8080,
		MetricsPort:     12798,
		DepositAmount:   DefaultDepositAmount,
		RelayThreshold:  DefaultRelayThreshold,
		ApiRateLimit:    10,
		ApiRateBurst:    20,
	}
}

// LoadConfig reads configFile, or the first of ~/.chirp/chirp.yaml and
// /etc/chirp/chirp.yaml that exists, then applies CHIRP_* environment
// overrides and validates the result
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	if configFile == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".chirp", "chirp.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}
		if configFile == "" {
			systemPath := "/etc/chirp/chirp.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("databasePath must not be empty"))
	}
	if _, err := c.ShutdownDuration(); err != nil {
		errs = append(errs, err)
	}
	if c.DepositAmount == 0 {
		errs = append(errs, errors.New("depositAmount must be positive"))
	}
	if c.RelayThreshold <= 0 || c.RelayThreshold > 1 {
		errs = append(
			errs,
			fmt.Errorf("relayThreshold %v must be in (0, 1]", c.RelayThreshold),
		)
	}
	if c.RelayEnabled && c.OracleKeyFile == "" {
		errs = append(errs, errors.New("relayEnabled requires oracleKeyFile"))
	}
	if c.ApiRateLimit < 0 || c.ApiRateBurst < 0 {
		errs = append(errs, errors.New("apiRateLimit and apiRateBurst must not be negative"))
	}
	for _, port := range []uint{c.ApiPort, c.MetricsPort} {
		if port > 65535 {
			errs = append(errs, fmt.Errorf("port %d out of range", port))
		}
	}
	if _, err := c.GenesisBalances(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) ShutdownDuration() (time.Duration, error) {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdownTimeout %q: %w", c.ShutdownTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("shutdownTimeout %q must be positive", c.ShutdownTimeout)
	}
	return d, nil
}

// GenesisBalances decodes the genesis addresses
func (c *Config) GenesisBalances() (map[address.Address]uint64, error) {
	ret := make(map[address.Address]uint64, len(c.Genesis))
	for k, v := range c.Genesis {
		addr, err := address.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("genesis address %q: %w", k, err)
		}
		ret[addr] += v
	}
	return ret, nil
}
