// Package recorder journals terminal purchase outcomes so timed-out
// submissions can be reconciled manually later.
package recorder

import (
	"strings"

	"github.com/rs/zerolog"

	"memescout-go/internal/execution"
)

// Recorder persists purchase outcomes for later inspection.
type Recorder interface {
	// RecordOutcome appends one terminal outcome.
	RecordOutcome(outcome *execution.Outcome) error

	// ListTimeouts returns outcomes that ended ambiguous (submitted but
	// unconfirmed); this is the manual reconciliation queue.
	ListTimeouts() ([]execution.Outcome, error)

	Close() error
}

// NoopRecorder is used when no journal path is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordOutcome(_ *execution.Outcome) error { return nil }
func (n *NoopRecorder) ListTimeouts() ([]execution.Outcome, error) { return nil, nil }
func (n *NoopRecorder) Close() error { return nil }

// ReportPending surfaces the manual reconciliation queue: every outcome that
// was submitted but never observed terminal is logged with its transaction
// id so the operator can resolve it before the next runs trade again.
func ReportPending(rec Recorder, log zerolog.Logger) {
	pending, err := rec.ListTimeouts()
	if err != nil {
		log.Error().Err(err).Msg("list pending reconciliations")
		return
	}
	if len(pending) == 0 {
		return
	}
	log.Warn().Int("count", len(pending)).Msg("submitted transactions awaiting manual reconciliation")
	for _, outcome := range pending {
		log.Warn().
			Str("contract", outcome.Candidate.Contract).
			Str("symbol", outcome.Candidate.Symbol).
			Str("tx", outcome.TxID).
			Str("sources", strings.Join(outcome.Candidate.SourceNames(), ",")).
			Msg("reconcile manually")
	}
}
