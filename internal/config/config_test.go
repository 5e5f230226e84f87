package config

import (
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "memescout-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("unexpected App.LogLevel: %s", cfg.App.LogLevel)
	}
	if cfg.Feeds.GMGN.BaseURL != "https://gmgn.example" {
		t.Fatalf("unexpected GMGN.BaseURL: %s", cfg.Feeds.GMGN.BaseURL)
	}
	if cfg.Feeds.GMGN.TimeoutMs != 5000 {
		t.Fatalf("unexpected GMGN.TimeoutMs: %d", cfg.Feeds.GMGN.TimeoutMs)
	}
	if cfg.Feeds.Pumpfun.WsURL != "wss://pumpportal.example/api/data" {
		t.Fatalf("unexpected Pumpfun.WsURL: %s", cfg.Feeds.Pumpfun.WsURL)
	}
	if cfg.Feeds.Pumpfun.CollectWindowMs != 1500 {
		t.Fatalf("unexpected collect window: %d", cfg.Feeds.Pumpfun.CollectWindowMs)
	}
	if cfg.Feeds.Pumpfun.MaxEvents != 32 {
		t.Fatalf("unexpected max events: %d", cfg.Feeds.Pumpfun.MaxEvents)
	}
	if cfg.Feeds.TweetScout.APIToken != "ts-token" {
		t.Fatalf("unexpected TweetScout.APIToken: %s", cfg.Feeds.TweetScout.APIToken)
	}
	if cfg.Social.Query != "funny meme -is:retweet" {
		t.Fatalf("unexpected Social.Query: %s", cfg.Social.Query)
	}
	if cfg.Social.MaxResults != 5 {
		t.Fatalf("unexpected Social.MaxResults: %d", cfg.Social.MaxResults)
	}
	if cfg.Risk.RugCheckBaseURL != "https://rugcheck.example" {
		t.Fatalf("unexpected RugCheckBaseURL: %s", cfg.Risk.RugCheckBaseURL)
	}
	if len(cfg.Gate.RequireStatus) != 1 || cfg.Gate.RequireStatus[0] != "SAFE" {
		t.Fatalf("unexpected Gate.RequireStatus: %+v", cfg.Gate.RequireStatus)
	}
	if cfg.Gate.MinScore == nil || *cfg.Gate.MinScore != 50 {
		t.Fatalf("unexpected Gate.MinScore: %+v", cfg.Gate.MinScore)
	}
	if cfg.Gate.AllowUnverified {
		t.Fatalf("expected allow_unverified false by default fixture")
	}
	if cfg.Gate.MaxNotionalLamports != 50000000 {
		t.Fatalf("unexpected Gate.MaxNotionalLamports: %d", cfg.Gate.MaxNotionalLamports)
	}
	if cfg.Purchase.AmountLamports != 10000000 {
		t.Fatalf("unexpected Purchase.AmountLamports: %d", cfg.Purchase.AmountLamports)
	}
	if cfg.Purchase.SlippageBps != 150 {
		t.Fatalf("unexpected Purchase.SlippageBps: %d", cfg.Purchase.SlippageBps)
	}
	if cfg.Purchase.PriorityFeeLamports != 5000 {
		t.Fatalf("unexpected Purchase.PriorityFeeLamports: %d", cfg.Purchase.PriorityFeeLamports)
	}
	if cfg.Purchase.ComputeUnitLimit != 300000 {
		t.Fatalf("unexpected Purchase.ComputeUnitLimit: %d", cfg.Purchase.ComputeUnitLimit)
	}
	if cfg.Purchase.ConfirmTimeoutMs != 45000 {
		t.Fatalf("unexpected Purchase.ConfirmTimeoutMs: %d", cfg.Purchase.ConfirmTimeoutMs)
	}
	if cfg.Purchase.Workers != 4 {
		t.Fatalf("unexpected Purchase.Workers: %d", cfg.Purchase.Workers)
	}
	if cfg.Dex.Commitment != "processed" {
		t.Fatalf("expected processed commitment, got %s", cfg.Dex.Commitment)
	}
	if cfg.Notify.TelegramChatID != "-100123" {
		t.Fatalf("unexpected TelegramChatID: %s", cfg.Notify.TelegramChatID)
	}
	if cfg.Notify.MaxRetries != 2 {
		t.Fatalf("unexpected Notify.MaxRetries: %d", cfg.Notify.MaxRetries)
	}
	if cfg.Recorder.SQLitePath != "outcomes.db" {
		t.Fatalf("unexpected Recorder.SQLitePath: %s", cfg.Recorder.SQLitePath)
	}
	if cfg.Schedule.Cron != "0 */5 * * * *" {
		t.Fatalf("unexpected Schedule.Cron: %s", cfg.Schedule.Cron)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	min := 10.0
	cfg := &Config{}
	cfg.App.Name = "roundtrip"
	cfg.Gate.MinScore = &min

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.App.Name != "roundtrip" {
		t.Fatalf("unexpected name after round trip: %s", loaded.App.Name)
	}
	if loaded.Gate.MinScore == nil || *loaded.Gate.MinScore != 10 {
		t.Fatalf("min score lost in round trip: %+v", loaded.Gate.MinScore)
	}
}

func TestSaveNil(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "config.yaml"), nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
