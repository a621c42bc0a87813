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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	alice := address.Contract("alice")
	path := writeConfig(t, t.TempDir(), "chirp.yaml", `
databasePath: /var/lib/chirp
bindAddr: 127.0.0.1
apiPort: 9000
metricsPort: 9001
shutdownTimeout: 5s
depositAmount: 250
oracleKeyFile: oracle.skey
relayEnabled: true
relayThreshold: 0.5
facadeKeyFile: facade.skey
apiRateLimit: 2.5
apiRateBurst: 4
tracing: true
tracingStdout: true
genesis:
  `+alice.String()+`: 1000
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	expected := DefaultConfig()
	expected.DatabasePath = "/var/lib/chirp"
	expected.BindAddr = "127.0.0.1"
	expected.ApiPort = 9000
	expected.MetricsPort = 9001
	expected.ShutdownTimeout = "5s"
	expected.DepositAmount = 250
	expected.OracleKeyFile = "oracle.skey"
	expected.RelayEnabled = true
	expected.RelayThreshold = 0.5
	expected.FacadeKeyFile = "facade.skey"
	expected.ApiRateLimit = 2.5
	expected.ApiRateBurst = 4
	expected.Tracing = true
	expected.TracingStdout = true
	expected.Genesis = map[string]uint64{alice.String(): 1000}
	assert.Equal(t, expected, cfg)
	timeout, err := cfg.ShutdownDuration()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)
	genesis, err := cfg.GenesisBalances()
	require.NoError(t, err)
	assert.Equal(t, map[address.Address]uint64{alice: 1000}, genesis)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "chirp.yaml", "apiPort: 9000\n")
	t.Setenv("CHIRP_API_PORT", "9100")
	t.Setenv("CHIRP_DATABASE_PATH", "/tmp/chirp-env")
	t.Setenv("CHIRP_ORACLE_VKEY_FILE", "oracle.vkey")
	t.Setenv("CHIRP_RELAY_THRESHOLD", "0.9")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint(9100), cfg.ApiPort)
	assert.Equal(t, "/tmp/chirp-env", cfg.DatabasePath)
	assert.Equal(t, "oracle.vkey", cfg.OracleVKeyFile)
	assert.InDelta(t, 0.9, cfg.RelayThreshold, 1e-9)
}

func TestLoadConfigSearchesHomeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, filepath.Join(".chirp", "chirp.yaml"), "metricsPort: 7000\n")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, uint(7000), cfg.MetricsPort)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "error reading config file")
}

func TestLoadConfigInvalid(t *testing.T) {
	testDefs := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "bad yaml",
			content: "apiPort: [",
			errMsg:  "error parsing config file",
		},
		{
			name:    "relay without key",
			content: "relayEnabled: true\n",
			errMsg:  "relayEnabled requires oracleKeyFile",
		},
		{
			name:    "threshold out of range",
			content: "relayThreshold: 1.5\n",
			errMsg:  "relayThreshold",
		},
		{
			name:    "zero deposit",
			content: "depositAmount: 0\n",
			errMsg:  "depositAmount must be positive",
		},
		{
			name:    "bad shutdown timeout",
			content: "shutdownTimeout: soon\n",
			errMsg:  "invalid shutdownTimeout",
		},
		{
			name:    "bad genesis address",
			content: "genesis:\n  nope: 10\n",
			errMsg:  "genesis address",
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "chirp.yaml", testDef.content)
			_, err := LoadConfig(path)
			require.ErrorContains(t, err, testDef.errMsg)
		})
	}
}

func TestConfigContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	cfg := DefaultConfig()
	ctx := WithContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
