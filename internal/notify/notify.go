// Package notify delivers human-readable outcome messages to the operator
// channel. Delivery is best-effort: failures are logged and swallowed so a
// broken channel can never change how a purchase is judged.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"memescout-go/internal/execution"
	"memescout-go/internal/feed"
	"memescout-go/internal/metrics"
)

// Severity grades a notification event.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Event is the ephemeral payload handed to the notifier; it is consumed
// immediately and never persisted.
type Event struct {
	Message  string
	Severity Severity
}

// Notifier wraps a Sender with the swallow-and-log contract.
type Notifier struct {
	sender Sender
	log    zerolog.Logger
}

// NewNotifier wires the delivery channel.
func NewNotifier(sender Sender, log zerolog.Logger) *Notifier {
	return &Notifier{sender: sender, log: log}
}

// Notify attempts delivery exactly once per event and never returns an
// error; a failed send is logged only.
func (n *Notifier) Notify(ctx context.Context, event Event) {
	metrics.NotificationsTotal.WithLabelValues(string(event.Severity)).Inc()
	if n.sender == nil {
		n.log.Debug().Msg("no notification channel configured, dropping event")
		return
	}
	if err := n.sender.Send(ctx, event.Message); err != nil {
		n.log.Warn().Err(err).Str("severity", string(event.Severity)).Msg("notification delivery failed")
		return
	}
	n.log.Debug().Str("severity", string(event.Severity)).Msg("notification delivered")
}

// FormatOutcome renders one terminal purchase outcome as an event.
func FormatOutcome(outcome execution.Outcome) Event {
	cand := outcome.Candidate
	label := cand.Symbol
	if label == "" {
		label = cand.Name
	}
	if label == "" {
		label = cand.Contract
	}
	sources := strings.Join(cand.SourceNames(), ", ")

	switch outcome.Status {
	case execution.Confirmed:
		return Event{
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("✅ Purchased <b>%s</b> (%s)\nTX: %s\nSources: %s", label, cand.Contract, outcome.TxID, sources),
		}
	case execution.Reverted:
		return Event{
			Severity: SeverityError,
			Message:  fmt.Sprintf("❌ Swap for <b>%s</b> (%s) reverted on chain\nTX: %s", label, cand.Contract, outcome.TxID),
		}
	case execution.Skipped:
		return Event{
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("⏭ Skipped <b>%s</b> (%s): %s", label, cand.Contract, outcome.Err),
		}
	default:
		msg := fmt.Sprintf("⚠️ Purchase for <b>%s</b> (%s) failed: %s", label, cand.Contract, outcome.Err)
		if outcome.TxID != "" {
			msg += fmt.Sprintf("\nSubmitted TX (reconcile manually): %s", outcome.TxID)
		}
		return Event{Severity: SeverityError, Message: msg}
	}
}

// FormatDegraded summarizes the sources that failed during aggregation.
func FormatDegraded(degraded []feed.FetchError) Event {
	parts := make([]string, len(degraded))
	for i, fe := range degraded {
		parts[i] = fmt.Sprintf("%s (%v)", fe.Source, fe.Err)
	}
	return Event{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("⚠️ Degraded feeds this run: %s", strings.Join(parts, "; ")),
	}
}
