// Binary buy performs one manual swap of SOL into the mint given as the
// first argument, bypassing discovery and the gate. Useful for verifying
// wallet and RPC wiring before letting the bot trade.
package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"memescout-go/internal/config"
	dex "memescout-go/internal/dex/solana"
	"memescout-go/internal/execution"
	"memescout-go/internal/token"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: buy <mint> [lamports]")
	}
	mint := os.Args[1]
	if !token.ValidAddress(mint) {
		log.Fatalf("not a valid mint address: %s", mint)
	}

	cfgPath := getEnv("CONFIG_PATH", "internal/config/config.yaml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	amount := cfg.Purchase.AmountLamports
	if len(os.Args) > 2 {
		parsed, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatalf("lamports: %v", err)
		}
		amount = parsed
	}

	privateKey, err := dex.LoadPrivateKey(cfg.Wallet.PrivateKeyBase58)
	if err != nil {
		log.Fatalf("wallet: %v", err)
	}

	chain := dex.NewJupiterClient(
		getEnv("SOLANA_RPC_URL", cfg.Dex.RpcURL),
		getEnv("JUPITER_BASE_URL", cfg.Dex.JupiterBase),
		privateKey,
		getEnv("SOLANA_COMMITMENT", cfg.Dex.Commitment),
		dex.Tunables{
			SlippageBps:         cfg.Purchase.SlippageBps,
			PriorityFeeLamports: cfg.Purchase.PriorityFeeLamports,
			ComputeUnitLimit:    cfg.Purchase.ComputeUnitLimit,
		},
	)

	confirmTimeout := time.Duration(cfg.Purchase.ConfirmTimeoutMs) * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), confirmTimeout+30*time.Second)
	defer cancel()

	txID, err := chain.SubmitSwap(ctx, mint, amount)
	if err != nil {
		log.Fatalf("submit: %v", err)
	}
	log.Printf("submitted tx: %s", txID)

	state, err := chain.AwaitConfirmation(ctx, txID, confirmTimeout)
	if err != nil {
		log.Fatalf("confirmation: %v (reconcile tx %s manually)", err, txID)
	}
	switch state {
	case execution.StateConfirmed:
		log.Printf("confirmed: %s", txID)
	case execution.StateReverted:
		log.Printf("reverted on chain: %s", txID)
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
