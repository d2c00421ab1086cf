package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := Defaults()
	assert.Equal(t, def.Assistant.SnapThreshold, cfg.Assistant.SnapThreshold)
	assert.Equal(t, def.Wallet.IPFSGateway, cfg.Wallet.IPFSGateway)
	assert.Zero(t, cfg.Assistant.AskTimeout)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `assistant:
  snap_threshold: 5
  margin: 2
  ask_timeout: 30s
wallet:
  rpc_url: http://localhost:8545
  contract: "0x0000000000000000000000000000000000000001"
  owner: "0x0000000000000000000000000000000000000002"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Assistant.SnapThreshold)
	assert.Equal(t, 2, cfg.Assistant.Margin)
	assert.Equal(t, 30*time.Second, cfg.Assistant.AskTimeout)
	assert.True(t, cfg.WalletConfigured())
	// untouched sections keep defaults
	assert.Equal(t, "gpt-4o-mini", cfg.Assistant.OpenAIModel)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvSnapThreshold, "7")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvAskTimeout, "5s")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Assistant.SnapThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Assistant.AskTimeout)
}

func TestDataDirOverrideMovesDatabase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bookshelf.db"), cfg.Data.Database)
}

func TestValidateRejectsNegativeThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assistant:\n  snap_threshold: -1\n"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)

	cfg.Assistant.SnapThreshold = 9
	require.NoError(t, cfg.Save())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, again.Assistant.SnapThreshold)
}

func TestWalletNotConfiguredByDefault(t *testing.T) {
	assert.False(t, Defaults().WalletConfigured())
}
