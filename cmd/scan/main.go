// Binary scan runs one discovery pass without trading: it aggregates the
// feeds, assesses each candidate, prints the gate verdicts, and optionally
// surfaces Twitter buzz for context.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"memescout-go/internal/config"
	"memescout-go/internal/feed"
	"memescout-go/internal/gate"
	"memescout-go/internal/risk"
	"memescout-go/internal/social"
	"memescout-go/internal/util"
)

func main() {
	cfgPath := getEnv("CONFIG_PATH", "internal/config/config.yaml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fallback := util.NewLogger("info")
		fallback.Fatal().Err(err).Str("path", cfgPath).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	aggregator := feed.NewAggregator(log,
		feed.NewGMGN(cfg.Feeds.GMGN.BaseURL, cfg.Feeds.GMGN.TimeoutMs, log),
		feed.NewPumpfun(cfg.Feeds.Pumpfun.WsURL, cfg.Feeds.Pumpfun.CollectWindowMs, cfg.Feeds.Pumpfun.MaxEvents, log),
		feed.NewTweetScout(cfg.Feeds.TweetScout.BaseURL, cfg.Feeds.TweetScout.APIToken, cfg.Feeds.TweetScout.Query, log),
	)
	evaluator := risk.NewEvaluator(risk.NewRugCheckClient(cfg.Risk.RugCheckBaseURL, cfg.Risk.TimeoutMs), log)
	policy := gate.PolicyFromStrings(cfg.Gate.RequireStatus, cfg.Gate.MinScore, cfg.Gate.AllowUnverified, cfg.Gate.MaxNotionalLamports)

	result := aggregator.Aggregate(ctx)
	for _, fe := range result.Degraded {
		fmt.Printf("degraded source %s: %v\n", fe.Source, fe.Err)
	}
	fmt.Printf("discovered %d candidates\n\n", len(result.Candidates))

	for _, cand := range result.Candidates {
		assessment := evaluator.Assess(ctx, cand)
		decision := gate.Decide(assessment, policy)
		verdict := "SKIP"
		if decision.Proceed {
			verdict = "BUY"
		}
		score := "n/a"
		if assessment.Score != nil {
			score = fmt.Sprintf("%.1f", *assessment.Score)
		}
		fmt.Printf("[%s] %s (%s) %s\n", verdict, cand.Name, cand.Symbol, cand.Contract)
		fmt.Printf("       status=%s score=%s sources=%v", assessment.Status, score, cand.SourceNames())
		if !decision.Proceed {
			fmt.Printf(" reason=%q", decision.Reason)
		}
		fmt.Println()
	}

	if cfg.Social.BearerToken == "" || cfg.Social.Query == "" {
		return
	}
	twitter := social.NewTwitterClient(cfg.Social.BearerToken, log)
	posts, err := twitter.SearchRecent(ctx, cfg.Social.Query, cfg.Social.MaxResults)
	if err != nil {
		log.Warn().Err(err).Msg("twitter scan failed")
		return
	}
	fmt.Printf("\ntop buzz for %q:\n", cfg.Social.Query)
	for i, post := range posts {
		if i >= 5 {
			break
		}
		tag := ""
		if post.IsNews {
			tag = " [news]"
		}
		fmt.Printf("  %4d%s %s\n", post.Popularity, tag, firstLine(post.Text))
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || i > 120 {
			return s[:i] + "..."
		}
	}
	return s
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
