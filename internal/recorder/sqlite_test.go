package recorder

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"memescout-go/internal/execution"
	"memescout-go/internal/token"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "outcomes.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder error: %v", err)
	}
	t.Cleanup(func() { _ = rec.Close() })
	return rec
}

func TestRecordAndListTimeouts(t *testing.T) {
	rec := newTestRecorder(t)

	confirmed := execution.Outcome{
		Candidate: token.Candidate{Contract: "MintA", Symbol: "AAA", Sources: []token.Source{token.SourceGMGN}},
		Status:    execution.Confirmed,
		TxID:      "sig-ok",
	}
	timedOut := execution.Outcome{
		Candidate: token.Candidate{Contract: "MintB", Symbol: "BBB", Sources: []token.Source{token.SourcePumpfun}},
		Status:    execution.SubmissionFailed,
		TxID:      "sig-pending",
		Err:       execution.ErrTimeout.Error(),
	}
	preSubmitFailure := execution.Outcome{
		Candidate: token.Candidate{Contract: "MintC"},
		Status:    execution.SubmissionFailed,
		Err:       "quote: connection refused",
	}

	for _, outcome := range []execution.Outcome{confirmed, timedOut, preSubmitFailure} {
		outcome := outcome
		if err := rec.RecordOutcome(&outcome); err != nil {
			t.Fatalf("RecordOutcome error: %v", err)
		}
	}

	timeouts, err := rec.ListTimeouts()
	if err != nil {
		t.Fatalf("ListTimeouts error: %v", err)
	}
	if len(timeouts) != 1 {
		t.Fatalf("expected 1 reconciliation row, got %d", len(timeouts))
	}
	got := timeouts[0]
	if got.Candidate.Contract != "MintB" || got.TxID != "sig-pending" {
		t.Fatalf("unexpected reconciliation row: %+v", got)
	}
	if !got.Candidate.HasSource(token.SourcePumpfun) {
		t.Fatalf("expected provenance restored, got %v", got.Candidate.Sources)
	}
}

func TestRecordNilOutcome(t *testing.T) {
	rec := newTestRecorder(t)
	if err := rec.RecordOutcome(nil); err == nil {
		t.Fatalf("expected error for nil outcome")
	}
}

func TestReportPendingSurfacesQueue(t *testing.T) {
	rec := newTestRecorder(t)

	timedOut := execution.Outcome{
		Candidate: token.Candidate{Contract: "MintB", Symbol: "BBB", Sources: []token.Source{token.SourcePumpfun}},
		Status:    execution.SubmissionFailed,
		TxID:      "sig-pending",
		Err:       execution.ErrTimeout.Error(),
	}
	if err := rec.RecordOutcome(&timedOut); err != nil {
		t.Fatalf("RecordOutcome error: %v", err)
	}

	var buf bytes.Buffer
	ReportPending(rec, zerolog.New(&buf))

	out := buf.String()
	if !strings.Contains(out, "sig-pending") || !strings.Contains(out, "MintB") {
		t.Fatalf("expected pending transaction in log output, got %q", out)
	}
}

func TestReportPendingEmptyQueueIsSilent(t *testing.T) {
	var buf bytes.Buffer
	ReportPending(NewNoopRecorder(), zerolog.New(&buf))
	if buf.Len() != 0 {
		t.Fatalf("expected no output for an empty queue, got %q", buf.String())
	}
}

func TestNoopRecorder(t *testing.T) {
	noop := NewNoopRecorder()
	if err := noop.RecordOutcome(&execution.Outcome{}); err != nil {
		t.Fatalf("noop RecordOutcome error: %v", err)
	}
	rows, err := noop.ListTimeouts()
	if err != nil || rows != nil {
		t.Fatalf("expected empty noop list, got %v/%v", rows, err)
	}
	if err := noop.Close(); err != nil {
		t.Fatalf("noop Close error: %v", err)
	}
}
