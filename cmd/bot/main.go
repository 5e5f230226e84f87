// Binary bot is the long-running scout: it discovers new tokens on a cron
// cadence, gates them through the safety check, buys survivors via Jupiter,
// and reports every outcome to Telegram.
package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"memescout-go/internal/config"
	dex "memescout-go/internal/dex/solana"
	"memescout-go/internal/execution"
	"memescout-go/internal/feed"
	"memescout-go/internal/gate"
	"memescout-go/internal/metrics"
	"memescout-go/internal/notify"
	"memescout-go/internal/pipeline"
	"memescout-go/internal/recorder"
	"memescout-go/internal/risk"
	"memescout-go/internal/scheduler"
	"memescout-go/internal/social"
	"memescout-go/internal/util"

	"github.com/rs/zerolog"
)

func main() {
	cfgPath := getEnv("CONFIG_PATH", "internal/config/config.yaml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fallback := util.NewLogger("info")
		fallback.Fatal().Err(err).Str("path", cfgPath).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	privateKey, err := dex.LoadPrivateKey(cfg.Wallet.PrivateKeyBase58)
	if err != nil {
		log.Fatal().Err(err).Msg("wallet")
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

	aggregator := feed.NewAggregator(log,
		feed.NewGMGN(cfg.Feeds.GMGN.BaseURL, cfg.Feeds.GMGN.TimeoutMs, log),
		feed.NewPumpfun(cfg.Feeds.Pumpfun.WsURL, cfg.Feeds.Pumpfun.CollectWindowMs, cfg.Feeds.Pumpfun.MaxEvents, log),
		feed.NewTweetScout(cfg.Feeds.TweetScout.BaseURL, cfg.Feeds.TweetScout.APIToken, cfg.Feeds.TweetScout.Query, log),
	)

	evaluator := risk.NewEvaluator(risk.NewRugCheckClient(cfg.Risk.RugCheckBaseURL, cfg.Risk.TimeoutMs), log)
	policy := gate.PolicyFromStrings(cfg.Gate.RequireStatus, cfg.Gate.MinScore, cfg.Gate.AllowUnverified, cfg.Gate.MaxNotionalLamports)

	if !policy.AllowNotional(cfg.Purchase.AmountLamports) {
		log.Fatal().
			Uint64("amount", cfg.Purchase.AmountLamports).
			Uint64("cap", cfg.Gate.MaxNotionalLamports).
			Msg("purchase amount exceeds notional cap")
	}

	confirmTimeout := time.Duration(cfg.Purchase.ConfirmTimeoutMs) * time.Millisecond
	executor := execution.NewExecutor(chain, confirmTimeout, log)

	var sender notify.Sender
	if cfg.Notify.TelegramBotToken != "" {
		sender = notify.NewTelegramSender(cfg.Notify.TelegramBotToken, cfg.Notify.TelegramChatID, cfg.Notify.MaxRetries)
	}
	notifier := notify.NewNotifier(sender, log)

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Recorder.SQLitePath != "" {
		sqlRec, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Recorder.SQLitePath).Msg("open recorder")
		}
		defer sqlRec.Close()
		rec = sqlRec
		recorder.ReportPending(rec, log)
	}

	pipe, err := pipeline.New(aggregator, evaluator, policy, executor, notifier, rec,
		cfg.Purchase.AmountLamports, cfg.Purchase.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build pipeline")
	}

	var runner scheduler.Runner = pipe
	if cfg.Social.BearerToken != "" && cfg.Social.Query != "" {
		runner = &buzzRunner{
			pipe:    pipe,
			twitter: social.NewTwitterClient(cfg.Social.BearerToken, log),
			query:   cfg.Social.Query,
			max:     cfg.Social.MaxResults,
			log:     log,
		}
	}

	sched := scheduler.New(runner, log)
	if err := sched.Start(ctx, cfg.Schedule.Cron); err != nil {
		log.Fatal().Err(err).Msg("start scheduler")
	}
	log.Info().Str("cron", cfg.Schedule.Cron).Msg("scout started")

	<-ctx.Done()
	log.Info().Msg("shutting down")
	sched.Stop()
}

// buzzRunner runs the pipeline and then logs Twitter buzz for operator
// context. Buzz failures never affect the pass.
type buzzRunner struct {
	pipe    *pipeline.Pipeline
	twitter *social.TwitterClient
	query   string
	max     int
	log     zerolog.Logger
}

func (b *buzzRunner) Run(ctx context.Context) (*pipeline.Report, error) {
	report, err := b.pipe.Run(ctx)
	if err != nil {
		return report, err
	}
	posts, serr := b.twitter.SearchRecent(ctx, b.query, b.max)
	if serr != nil {
		b.log.Warn().Err(serr).Msg("buzz scan failed")
		return report, nil
	}
	for i, post := range posts {
		if i >= 3 {
			break
		}
		b.log.Info().
			Int("popularity", post.Popularity).
			Bool("news", post.IsNews).
			Str("text", post.Text).
			Msg("buzz")
	}
	return report, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
