package feed

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"memescout-go/internal/metrics"
	"memescout-go/internal/token"
)

// Result is the best-effort union of every feed: whatever subset of adapters
// succeeded contributes candidates, and failed adapters are recorded as
// degraded sources rather than failing the run.
type Result struct {
	Candidates []token.Candidate
	Degraded   []FetchError
}

// Aggregator fans out to every configured source and merges by contract
// address.
type Aggregator struct {
	sources []Source
	log     zerolog.Logger
}

// NewAggregator wires the adapters the run should consult.
func NewAggregator(log zerolog.Logger, sources ...Source) *Aggregator {
	return &Aggregator{sources: sources, log: log}
}

// Aggregate invokes all adapters concurrently and merges their output. The
// first occurrence of an address wins for descriptive fields; the source set
// accumulates across duplicates. Output order is deterministic.
func (a *Aggregator) Aggregate(ctx context.Context) Result {
	type fetchResult struct {
		source     token.Source
		candidates []token.Candidate
		err        error
	}

	results := make([]fetchResult, len(a.sources))
	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			candidates, err := src.Fetch(ctx)
			results[i] = fetchResult{source: src.Name(), candidates: candidates, err: err}
		}(i, src)
	}
	wg.Wait()

	merged := make(map[string]*token.Candidate)
	order := make([]string, 0)
	var degraded []FetchError

	for _, res := range results {
		if res.err != nil {
			fe := AsFetchError(res.source, res.err)
			metrics.FeedErrorsTotal.WithLabelValues(res.source.String()).Inc()
			a.log.Warn().Err(fe.Err).Str("source", res.source.String()).Bool("transient", fe.Transient).Msg("feed degraded")
			degraded = append(degraded, *fe)
			continue
		}
		for _, cand := range res.candidates {
			cand := cand
			if err := cand.Normalize(); err != nil {
				continue
			}
			metrics.CandidatesTotal.WithLabelValues(res.source.String()).Inc()
			key := cand.Key()
			existing, ok := merged[key]
			if !ok {
				copied := cand
				merged[key] = &copied
				order = append(order, key)
				continue
			}
			for _, s := range cand.Sources {
				existing.AddSource(s)
			}
		}
	}

	sort.Strings(order)
	out := make([]token.Candidate, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}

	a.log.Info().
		Int("candidates", len(out)).
		Int("degraded_sources", len(degraded)).
		Int("sources", len(a.sources)).
		Msg("aggregation complete")

	return Result{Candidates: out, Degraded: degraded}
}
