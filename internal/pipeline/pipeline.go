// Package pipeline drives one discovery pass end to end: aggregate feeds,
// assess risk, gate, execute purchases, record and notify. A pass degrades
// on partial failure instead of aborting.
package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"memescout-go/internal/execution"
	"memescout-go/internal/feed"
	"memescout-go/internal/gate"
	"memescout-go/internal/metrics"
	"memescout-go/internal/notify"
	"memescout-go/internal/recorder"
	"memescout-go/internal/risk"
	"memescout-go/internal/token"
)

// Report summarizes one completed pass.
type Report struct {
	Discovered int
	Skipped    int
	Confirmed  int
	Reverted   int
	Failed     int
	Degraded   int
}

// Pipeline owns the per-pass collaborators. Construct once and call Run per
// scheduled pass; runs never overlap (the scheduler enforces that).
type Pipeline struct {
	aggregator *feed.Aggregator
	evaluator  *risk.Evaluator
	policy     gate.Policy
	executor   *execution.Executor
	notifier   *notify.Notifier
	recorder   recorder.Recorder

	amountLamports uint64
	workers        int
	log            zerolog.Logger
}

// New wires a pipeline. The recorder may be a NoopRecorder but not nil.
func New(
	aggregator *feed.Aggregator,
	evaluator *risk.Evaluator,
	policy gate.Policy,
	executor *execution.Executor,
	notifier *notify.Notifier,
	rec recorder.Recorder,
	amountLamports uint64,
	workers int,
	log zerolog.Logger,
) (*Pipeline, error) {
	if aggregator == nil || evaluator == nil || executor == nil || notifier == nil || rec == nil {
		return nil, errors.New("pipeline: nil collaborator")
	}
	if len(policy.RequireStatus) == 0 {
		return nil, errors.New("pipeline: gate policy requires at least one accepted status")
	}
	if amountLamports == 0 {
		return nil, errors.New("pipeline: purchase amount must be greater than zero")
	}
	if workers <= 0 {
		workers = 4
	}
	return &Pipeline{
		aggregator:     aggregator,
		evaluator:      evaluator,
		policy:         policy,
		executor:       executor,
		notifier:       notifier,
		recorder:       rec,
		amountLamports: amountLamports,
		workers:        workers,
		log:            log.With().Str("component", "pipeline").Logger(),
	}, nil
}

// Run performs one pass. The returned error covers only pass-level failures;
// per-candidate failures land in the report and the outcome notifications.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := p.aggregator.Aggregate(ctx)
	report := &Report{Discovered: len(result.Candidates), Degraded: len(result.Degraded)}

	if len(result.Degraded) > 0 {
		p.notifier.Notify(ctx, notify.FormatDegraded(result.Degraded))
	}
	if len(result.Candidates) == 0 {
		p.log.Info().Int("degraded", report.Degraded).Msg("no candidates discovered")
		return report, nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		workCh   = make(chan token.Candidate)
		outcomes = make([]execution.Outcome, 0, len(result.Candidates))
	)

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range workCh {
				outcome := p.process(ctx, cand)
				mu.Lock()
				outcomes = append(outcomes, outcome)
				mu.Unlock()
			}
		}()
	}
	for _, cand := range result.Candidates {
		workCh <- cand
	}
	close(workCh)
	wg.Wait()

	for _, outcome := range outcomes {
		switch outcome.Status {
		case execution.Skipped:
			report.Skipped++
		case execution.Confirmed:
			report.Confirmed++
		case execution.Reverted:
			report.Reverted++
		case execution.SubmissionFailed:
			report.Failed++
		}
	}

	p.log.Info().
		Int("discovered", report.Discovered).
		Int("skipped", report.Skipped).
		Int("confirmed", report.Confirmed).
		Int("reverted", report.Reverted).
		Int("failed", report.Failed).
		Int("degraded", report.Degraded).
		Msg("pass complete")
	return report, nil
}

// process takes one candidate to a terminal outcome and emits exactly one
// outcome notification for it.
func (p *Pipeline) process(ctx context.Context, cand token.Candidate) execution.Outcome {
	assessment := p.evaluator.Assess(ctx, cand)
	decision := gate.Decide(assessment, p.policy)

	var outcome execution.Outcome
	if decision.Proceed {
		metrics.GateDecisionsTotal.WithLabelValues("proceed").Inc()
		outcome = p.executor.Execute(ctx, cand, p.amountLamports)
	} else {
		metrics.GateDecisionsTotal.WithLabelValues("skip").Inc()
		p.log.Debug().
			Str("contract", cand.Contract).
			Str("reason", decision.Reason).
			Msg("gate skipped candidate")
		outcome = execution.Skip(cand, decision.Reason)
	}

	if err := p.recorder.RecordOutcome(&outcome); err != nil {
		p.log.Error().Err(err).Str("contract", cand.Contract).Msg("record outcome")
	}
	p.notifier.Notify(ctx, notify.FormatOutcome(outcome))
	return outcome
}
