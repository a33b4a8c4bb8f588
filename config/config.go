package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"
)

// Page identifies a top-level view.
type Page int

const (
	PageStatus Page = iota
	PageSettings
)

// Config represents the application configuration
type Config struct {
	RPCURLs      []RPCUrl          `json:"rpc_urls"`
	Chains       map[string]string `json:"chains,omitempty"`
	Contracts    []Contract        `json:"contracts,omitempty"`
	PollInterval Duration          `json:"poll_interval,omitempty"`
	Logger       bool              `json:"logger"`
}

// RPCUrl represents an RPC endpoint
type RPCUrl struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Contract is a named address shown alongside the connection.
type Contract struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Chain   string `json:"chain,omitempty"`
}

// Duration is a time.Duration stored as a string such as "2s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Anvil",
				URL:    "http://127.0.0.1:8545",
				Active: true,
			},
		},
		Chains: map[string]string{
			"0xaa36a7": "Sepolia",
		},
		// local deployment of the pool contracts
		Contracts: []Contract{
			{Name: "Token0", Address: "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512", Chain: "0x7a69"},
			{Name: "Token1", Address: "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0", Chain: "0x7a69"},
			{Name: "Pool", Address: "0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9", Chain: "0x7a69"},
			{Name: "Manager", Address: "0xDc64a140Aa3E981100a9becA4E685f962f0cF6C9", Chain: "0x7a69"},
		},
		PollInterval: Duration(2 * time.Second),
		Logger:       false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	// Try to read existing config
	data, err := os.ReadFile(path)
	if err != nil {
		// File doesn't exist, create default
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	// Parse existing config
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		// Invalid config, return default
		return DefaultConfig()
	}

	return cfg
}

// ActiveRPC returns the URL of the active endpoint, falling back to env
// (usually ETH_RPC_URL) when none is marked active.
func (c Config) ActiveRPC(env string) string {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r.URL
		}
	}
	return strings.TrimSpace(env)
}

// SetActive marks the endpoint at idx active and all others inactive.
func (c *Config) SetActive(idx int) bool {
	if idx < 0 || idx >= len(c.RPCURLs) {
		return false
	}
	for i := range c.RPCURLs {
		c.RPCURLs[i].Active = i == idx
	}
	return true
}

// Poll returns the configured poll interval or def when unset.
func (c Config) Poll(def time.Duration) time.Duration {
	if c.PollInterval <= 0 {
		return def
	}
	return time.Duration(c.PollInterval)
}

// ContractsFor returns the contracts deployed on chain. Contracts without
// a chain are always included.
func (c Config) ContractsFor(chain string) []Contract {
	var out []Contract
	for _, ct := range c.Contracts {
		if ct.Chain == "" || strings.EqualFold(ct.Chain, chain) {
			out = append(out, ct)
		}
	}
	return out
}
