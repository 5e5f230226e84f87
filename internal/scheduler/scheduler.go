// Package scheduler runs the pipeline on a cron cadence. Overlapping passes
// are skipped, never queued.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"memescout-go/internal/pipeline"
)

// Runner is the unit of scheduled work. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

// Scheduler triggers a Runner on a cron expression with seconds precision.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	log    zerolog.Logger

	mu      sync.Mutex
	running bool
}

// New builds a scheduler; Start must be called to begin ticking.
func New(runner Runner, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		runner: runner,
		log:    log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the pass under spec (6-field cron, e.g. "0 */5 * * * *")
// and starts the cron loop. Each tick runs against ctx so shutdown cancels
// an in-flight pass.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() { s.tick(ctx) })
	if err != nil {
		return fmt.Errorf("add cron entry %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info().Str("spec", spec).Msg("scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn().Msg("previous pass still running, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	report, err := s.runner.Run(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("pass failed")
		return
	}
	s.log.Info().
		Int("discovered", report.Discovered).
		Int("confirmed", report.Confirmed).
		Int("skipped", report.Skipped).
		Msg("scheduled pass finished")
}
