// Package risk queries the safety-check collaborator and converts its
// answers (and its failures) into assessment data the gate can act on.
package risk

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"memescout-go/internal/metrics"
	"memescout-go/internal/token"
)

// Status classifies what the safety check concluded about a contract.
type Status string

const (
	StatusSafe    Status = "SAFE"
	StatusUnsafe  Status = "UNSAFE"
	StatusUnknown Status = "UNKNOWN"
	StatusError   Status = "ERROR"
)

// String returns the string representation of Status.
func (s Status) String() string { return string(s) }

// IsValid checks if the status is a recognized value.
func (s Status) IsValid() bool {
	switch s {
	case StatusSafe, StatusUnsafe, StatusUnknown, StatusError:
		return true
	}
	return false
}

// ParseStatus maps a raw collaborator status string onto the taxonomy.
// Anything unrecognized is Unknown, never Safe.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "safe", "good", "ok", "passed":
		return StatusSafe
	case "unsafe", "danger", "dangerous", "warning", "warn", "rug", "scam", "failed":
		return StatusUnsafe
	default:
		return StatusUnknown
	}
}

// Assessment is the immutable result of one safety check. Assessments are
// never cached across runs; safety status can change between attempts.
type Assessment struct {
	Contract string
	Score    *float64
	Status   Status
	Details  string
	RawError string
}

// Report is the collaborator's raw answer.
type Report struct {
	Score   string `json:"score"`
	Status  string `json:"status"`
	Details string `json:"details"`
}

// Checker is the external safety-check collaborator.
type Checker interface {
	Check(ctx context.Context, contract string) (*Report, error)
}

// Evaluator performs exactly one check per candidate and maps failures to
// StatusError instead of propagating them; a failed check is gate input, not
// a reason to abort the run.
type Evaluator struct {
	checker Checker
	log     zerolog.Logger
}

// NewEvaluator wires the collaborator used for safety checks.
func NewEvaluator(checker Checker, log zerolog.Logger) *Evaluator {
	return &Evaluator{checker: checker, log: log}
}

// Assess runs one safety check for the candidate. It never returns an error.
func (e *Evaluator) Assess(ctx context.Context, cand token.Candidate) Assessment {
	report, err := e.checker.Check(ctx, cand.Contract)
	if err != nil {
		e.log.Warn().Err(err).Str("contract", cand.Contract).Msg("safety check failed")
		assessment := Assessment{
			Contract: cand.Contract,
			Status:   StatusError,
			RawError: err.Error(),
		}
		metrics.RiskChecksTotal.WithLabelValues(assessment.Status.String()).Inc()
		return assessment
	}

	assessment := Assessment{
		Contract: cand.Contract,
		Status:   ParseStatus(report.Status),
		Details:  report.Details,
	}
	if score, err := strconv.ParseFloat(strings.TrimSpace(report.Score), 64); err == nil {
		assessment.Score = &score
	}
	metrics.RiskChecksTotal.WithLabelValues(assessment.Status.String()).Inc()
	return assessment
}
