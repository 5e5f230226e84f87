// Package token standardizes the candidate payloads shared between feed,
// risk, and execution layers.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/mr-tron/base58"
)

// Source identifies the feed a candidate was discovered on.
type Source string

const (
	SourceGMGN       Source = "GMGN"
	SourcePumpfun    Source = "PUMPFUN"
	SourceTweetScout Source = "TWEETSCOUT"
)

// String returns the string representation of Source.
func (s Source) String() string { return string(s) }

// IsValid checks if the source is a known feed.
func (s Source) IsValid() bool {
	switch s {
	case SourceGMGN, SourcePumpfun, SourceTweetScout:
		return true
	}
	return false
}

// ErrEmptyContract rejects candidates lacking a contract address.
var ErrEmptyContract = errors.New("candidate missing contract address")

// Candidate is a discovered token pending risk evaluation. Identity is the
// contract address, case-insensitive; Sources accumulates every feed that
// reported it.
type Candidate struct {
	Sources      []Source
	Name         string
	Symbol       string
	Contract     string
	DiscoveredAt time.Time
}

// Key returns the case-insensitive identity key used for deduplication.
func (c Candidate) Key() string {
	return strings.ToLower(strings.TrimSpace(c.Contract))
}

// Normalize trims descriptive fields and enforces the non-empty contract
// invariant.
func (c *Candidate) Normalize() error {
	c.Contract = strings.TrimSpace(c.Contract)
	if c.Contract == "" {
		return ErrEmptyContract
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Symbol = strings.TrimSpace(c.Symbol)
	return nil
}

// HasSource reports whether the candidate already carries the given
// provenance tag.
func (c Candidate) HasSource(s Source) bool {
	for _, have := range c.Sources {
		if have == s {
			return true
		}
	}
	return false
}

// AddSource appends a provenance tag, keeping the set free of duplicates.
func (c *Candidate) AddSource(s Source) {
	if !c.HasSource(s) {
		c.Sources = append(c.Sources, s)
	}
}

// SourceNames renders the provenance set for logs and notifications.
func (c Candidate) SourceNames() []string {
	out := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		out[i] = s.String()
	}
	return out
}

// ValidAddress reports whether s decodes as a 32-byte base58 mint address.
func ValidAddress(s string) bool {
	raw, err := base58.Decode(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return len(raw) == 32
}
