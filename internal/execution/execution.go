// Package execution drives the single purchase attempt for a gated
// candidate: one submission, a bounded confirmation wait, and a typed
// terminal outcome.
package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"memescout-go/internal/metrics"
	"memescout-go/internal/token"
)

// TerminalState is a chain outcome that will not change further.
type TerminalState string

const (
	StateConfirmed TerminalState = "CONFIRMED"
	StateReverted  TerminalState = "REVERTED"
)

// OutcomeStatus classifies how a purchase attempt ended.
type OutcomeStatus string

const (
	// Confirmed means the swap reached a confirmed chain state.
	Confirmed OutcomeStatus = "CONFIRMED"
	// Reverted means the swap landed on chain and failed there.
	Reverted OutcomeStatus = "REVERTED"
	// SubmissionFailed covers validation errors, pre-submission failures,
	// and ambiguous timeouts awaiting confirmation.
	SubmissionFailed OutcomeStatus = "SUBMISSION_FAILED"
	// Skipped means the gate declined the candidate; no submission happened.
	Skipped OutcomeStatus = "SKIPPED"
)

// Error taxonomy for purchase attempts.
var (
	// ErrInvalidAmount rejects zero-size purchases before any chain call.
	ErrInvalidAmount = errors.New("purchase amount must be greater than zero")
	// ErrBadAddress rejects candidates whose contract is not a valid mint.
	ErrBadAddress = errors.New("contract is not a valid mint address")
	// ErrInsufficientFunds is a pre-submission failure, safe to retry
	// externally once funded.
	ErrInsufficientFunds = errors.New("insufficient funds for swap")
	// ErrTimeout marks an ambiguous outcome: the transaction was submitted
	// but never observed terminal. Reconcile manually, never auto-resubmit.
	ErrTimeout = errors.New("timed out awaiting confirmation")
)

// Outcome is created exactly once per candidate that reaches the executor
// and is terminal for this run.
type Outcome struct {
	Candidate token.Candidate `json:"candidate"`
	Status    OutcomeStatus   `json:"status"`
	TxID      string          `json:"tx_id,omitempty"`
	Err       string          `json:"error,omitempty"`
}

// Chain is the on-chain collaborator. SubmitSwap performs exactly one
// build-sign-submit cycle; AwaitConfirmation blocks until the transaction is
// terminal or the timeout elapses.
type Chain interface {
	SubmitSwap(ctx context.Context, outputMint string, amountLamports uint64) (txID string, err error)
	AwaitConfirmation(ctx context.Context, txID string, timeout time.Duration) (TerminalState, error)
}

// Executor submits at most one swap per Execute call. All submissions off
// the shared signing key are serialized: the submit lock covers the whole
// build-sign-submit section so two candidates can never race the signer.
// Confirmation waits run outside the lock so they block only their own
// candidate.
type Executor struct {
	chain          Chain
	confirmTimeout time.Duration
	submitMu       sync.Mutex
	log            zerolog.Logger
}

// NewExecutor wires the chain collaborator and the confirmation wait bound.
func NewExecutor(chain Chain, confirmTimeout time.Duration, log zerolog.Logger) *Executor {
	if confirmTimeout <= 0 {
		confirmTimeout = 45 * time.Second
	}
	return &Executor{chain: chain, confirmTimeout: confirmTimeout, log: log}
}

// Skip produces the terminal outcome for a candidate the gate declined.
func Skip(cand token.Candidate, reason string) Outcome {
	metrics.PurchasesTotal.WithLabelValues(string(Skipped)).Inc()
	return Outcome{Candidate: cand, Status: Skipped, Err: reason}
}

// Execute attempts the purchase. It validates before touching the chain,
// performs exactly one submission, and never resubmits: a confirmation
// timeout yields SubmissionFailed carrying the original transaction id for
// manual reconciliation.
func (e *Executor) Execute(ctx context.Context, cand token.Candidate, amountLamports uint64) Outcome {
	if amountLamports == 0 {
		return e.failed(cand, "", ErrInvalidAmount)
	}
	if !token.ValidAddress(cand.Contract) {
		return e.failed(cand, "", fmt.Errorf("%w: %q", ErrBadAddress, cand.Contract))
	}
	// Run cancellation stops work that has not been submitted yet.
	if err := ctx.Err(); err != nil {
		return e.failed(cand, "", fmt.Errorf("run cancelled before submission: %w", err))
	}

	e.submitMu.Lock()
	txID, err := e.chain.SubmitSwap(ctx, cand.Contract, amountLamports)
	e.submitMu.Unlock()
	if err != nil {
		return e.failed(cand, txID, fmt.Errorf("submit: %w", err))
	}

	e.log.Info().Str("contract", cand.Contract).Str("tx", txID).Uint64("lamports", amountLamports).Msg("swap submitted")

	// A submitted transaction is tracked to a terminal state even if the
	// run is cancelled; only the bounded timeout ends the wait early.
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.confirmTimeout)
	defer cancel()

	state, err := e.chain.AwaitConfirmation(waitCtx, txID, e.confirmTimeout)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
			e.log.Warn().Str("tx", txID).Msg("confirmation timed out, flagging for manual reconciliation")
			return e.failed(cand, txID, ErrTimeout)
		}
		return e.failed(cand, txID, fmt.Errorf("await confirmation: %w", err))
	}

	switch state {
	case StateConfirmed:
		metrics.PurchasesTotal.WithLabelValues(string(Confirmed)).Inc()
		e.log.Info().Str("tx", txID).Msg("swap confirmed")
		return Outcome{Candidate: cand, Status: Confirmed, TxID: txID}
	case StateReverted:
		metrics.PurchasesTotal.WithLabelValues(string(Reverted)).Inc()
		e.log.Warn().Str("tx", txID).Msg("swap reverted on chain")
		return Outcome{Candidate: cand, Status: Reverted, TxID: txID, Err: "transaction reverted"}
	default:
		return e.failed(cand, txID, fmt.Errorf("unexpected terminal state %q", state))
	}
}

func (e *Executor) failed(cand token.Candidate, txID string, err error) Outcome {
	metrics.PurchasesTotal.WithLabelValues(string(SubmissionFailed)).Inc()
	e.log.Warn().Err(err).Str("contract", cand.Contract).Str("tx", txID).Msg("purchase failed")
	return Outcome{Candidate: cand, Status: SubmissionFailed, TxID: txID, Err: err.Error()}
}
