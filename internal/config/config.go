// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// GMGN configures the HTTP polling feed for newly listed tokens.
type GMGN struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Pumpfun configures the websocket feed for freshly created coins.
type Pumpfun struct {
	WsURL           string `yaml:"ws_url"`
	CollectWindowMs int    `yaml:"collect_window_ms"`
	MaxEvents       int    `yaml:"max_events"`
}

// TweetScout configures the authenticated social account lookup feed.
type TweetScout struct {
	BaseURL  string `yaml:"base_url"`
	APIToken string `yaml:"api_token"`
	Query    string `yaml:"query"`
}

// Feeds groups every candidate source the aggregator fans out to.
type Feeds struct {
	GMGN       GMGN       `yaml:"gmgn"`
	Pumpfun    Pumpfun    `yaml:"pumpfun"`
	TweetScout TweetScout `yaml:"tweetscout"`
}

// Social configures the optional Twitter buzz scan run alongside discovery.
type Social struct {
	BearerToken string `yaml:"bearer_token"`
	Query       string `yaml:"query"`
	MaxResults  int    `yaml:"max_results"`
}

// Risk points at the safety-check collaborator.
type Risk struct {
	RugCheckBaseURL string `yaml:"rugcheck_base_url"`
	TimeoutMs       int    `yaml:"timeout_ms"`
}

// Gate encodes the fail-closed purchase policy thresholds.
type Gate struct {
	RequireStatus       []string `yaml:"require_status"`
	MinScore            *float64 `yaml:"min_score"`
	AllowUnverified     bool     `yaml:"allow_unverified"`
	MaxNotionalLamports uint64   `yaml:"max_notional_lamports"`
}

// Purchase holds the swap sizing and fee tunables consumed by the executor.
type Purchase struct {
	AmountLamports      uint64 `yaml:"amount_lamports"`
	SlippageBps         int    `yaml:"slippage_bps"`
	PriorityFeeLamports uint64 `yaml:"priority_fee_lamports"`
	ComputeUnitLimit    uint32 `yaml:"compute_unit_limit"`
	ConfirmTimeoutMs    int    `yaml:"confirm_timeout_ms"`
	Workers             int    `yaml:"workers"`
}

// Dex defines network endpoints and defaults for decentralized execution.
type Dex struct {
	Chain       string `yaml:"chain"` // e.g. "solana"
	RpcURL      string `yaml:"rpc_url"`
	Commitment  string `yaml:"commitment"`   // processed|confirmed|finalized
	JupiterBase string `yaml:"jupiter_base"` // https://quote-api.jup.ag
}

// Wallet stores env-backed signing material metadata.
type Wallet struct {
	PrivateKeyBase58 string `yaml:"private_key_base58"`
}

// Notify configures the operator notification channel.
type Notify struct {
	TelegramBotToken string `yaml:"telegram_bot_token"`
	TelegramChatID   string `yaml:"telegram_chat_id"`
	MaxRetries       int    `yaml:"max_retries"`
}

// Recorder configures the local outcome journal.
type Recorder struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Schedule drives the cron cadence for repeated pipeline runs.
type Schedule struct {
	Cron string `yaml:"cron"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Feeds    Feeds    `yaml:"feeds"`
	Social   Social   `yaml:"social"`
	Risk     Risk     `yaml:"risk"`
	Gate     Gate     `yaml:"gate"`
	Purchase Purchase `yaml:"purchase"`
	Dex      Dex      `yaml:"dex"`
	Wallet   Wallet   `yaml:"wallet"`
	Notify   Notify   `yaml:"notify"`
	Recorder Recorder `yaml:"recorder"`
	Schedule Schedule `yaml:"schedule"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
