package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := LoadOrCreate(path)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), Load(path))
}

func TestLoadOrCreate_InvalidFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	assert.Equal(t, DefaultConfig(), LoadOrCreate(path))
	assert.Equal(t, Config{}, Load(path))
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.RPCURLs = append(cfg.RPCURLs, RPCUrl{Name: "Public Mainnet", URL: "https://ethereum-rpc.publicnode.com"})
	cfg.PollInterval = Duration(500 * time.Millisecond)
	cfg.Logger = true
	require.NoError(t, Save(path, cfg))

	loaded := Load(path)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, 500*time.Millisecond, loaded.Poll(time.Second))
}

func TestActiveRPC(t *testing.T) {
	t.Parallel()

	cfg := Config{RPCURLs: []RPCUrl{{Name: "a", URL: "http://a"}, {Name: "b", URL: "http://b", Active: true}}}
	assert.Equal(t, "http://b", cfg.ActiveRPC("http://env"))

	require.True(t, cfg.SetActive(0))
	assert.Equal(t, "http://a", cfg.ActiveRPC(""))
	assert.False(t, cfg.RPCURLs[1].Active)
	assert.False(t, cfg.SetActive(5))

	assert.Equal(t, "http://env", Config{}.ActiveRPC(" http://env "))
	assert.Empty(t, Config{}.ActiveRPC(""))
}

func TestPoll_Default(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 3*time.Second, Config{}.Poll(3*time.Second))
}

func TestContractsFor(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Contracts = append(cfg.Contracts, Contract{Name: "Everywhere", Address: "0x0000000000000000000000000000000000000001"})

	assert.Len(t, cfg.ContractsFor("0x7a69"), 5)
	assert.Len(t, cfg.ContractsFor("0x7A69"), 5)
	got := cfg.ContractsFor("0x1")
	require.Len(t, got, 1)
	assert.Equal(t, "Everywhere", got[0].Name)
}
