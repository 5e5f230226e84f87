// Package feed hosts the candidate source adapters and the aggregator that
// merges their output into one deduplicated set.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"memescout-go/internal/token"
)

// Source is a pluggable candidate feed. Fetch returns every candidate the
// feed currently advertises; an empty slice is a valid, non-error result.
type Source interface {
	Name() token.Source
	Fetch(ctx context.Context) ([]token.Candidate, error)
}

// FetchError wraps a feed failure with enough context for the aggregator to
// record the degraded source without aborting the run.
type FetchError struct {
	Source    token.Source
	Transient bool
	Err       error
}

func (e *FetchError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s feed: %s failure: %v", e.Source, kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func transientErr(source token.Source, err error) *FetchError {
	return &FetchError{Source: source, Transient: true, Err: err}
}

func permanentErr(source token.Source, err error) *FetchError {
	return &FetchError{Source: source, Transient: false, Err: err}
}

// statusErr maps an HTTP status to the error taxonomy: 5xx and 429 are worth
// retrying on a later run, other 4xx are configuration problems.
func statusErr(source token.Source, status int) *FetchError {
	err := fmt.Errorf("unexpected status %d", status)
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
		return transientErr(source, err)
	}
	return permanentErr(source, err)
}

// AsFetchError normalizes any adapter error into a FetchError, defaulting to
// transient for plain network-level failures.
func AsFetchError(source token.Source, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return transientErr(source, err)
}

func httpClient(timeoutMs int, fallback time.Duration) *http.Client {
	timeout := fallback
	if timeoutMs > 0 {
		timeout = time.Duration(timeoutMs) * time.Millisecond
	}
	return &http.Client{Timeout: timeout}
}
