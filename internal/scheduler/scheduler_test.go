package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"memescout-go/internal/pipeline"
)

type countingRunner struct {
	runs  atomic.Int32
	block chan struct{}
}

func (c *countingRunner) Run(_ context.Context) (*pipeline.Report, error) {
	c.runs.Add(1)
	if c.block != nil {
		<-c.block
	}
	return &pipeline.Report{}, nil
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(&countingRunner{}, zerolog.Nop())
	if err := s.Start(context.Background(), "not a cron spec"); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestTickRunsRunner(t *testing.T) {
	r := &countingRunner{}
	s := New(r, zerolog.Nop())
	s.tick(context.Background())
	if got := r.runs.Load(); got != 1 {
		t.Fatalf("expected 1 run, got %d", got)
	}
}

func TestOverlappingTickIsSkipped(t *testing.T) {
	r := &countingRunner{block: make(chan struct{})}
	s := New(r, zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.tick(context.Background())
	}()

	// Wait for the first pass to start, then tick again while it blocks.
	deadline := time.After(time.Second)
	for r.runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("first pass never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	s.tick(context.Background())
	if got := r.runs.Load(); got != 1 {
		t.Fatalf("overlapping tick should be skipped, got %d runs", got)
	}

	close(r.block)
	wg.Wait()

	s.tick(context.Background())
	if got := r.runs.Load(); got != 2 {
		t.Fatalf("expected follow-up tick to run, got %d runs", got)
	}
}

func TestStartAndStop(t *testing.T) {
	r := &countingRunner{}
	s := New(r, zerolog.Nop())
	if err := s.Start(context.Background(), "* * * * * *"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
}
