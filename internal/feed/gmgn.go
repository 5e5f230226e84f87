package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"memescout-go/internal/token"
)

const defaultGMGNTimeout = 10 * time.Second

// GMGN polls a GMGN-style new-token listing endpoint over HTTP.
type GMGN struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

type gmgnListing struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Contract string `json:"contract"`
	// Some deployments label the field address instead of contract.
	Address   string `json:"address"`
	CreatedAt int64  `json:"created_at"`
}

type gmgnResponse struct {
	Tokens []gmgnListing `json:"tokens"`
}

// NewGMGN constructs the listing-site adapter.
func NewGMGN(baseURL string, timeoutMs int, log zerolog.Logger) *GMGN {
	return &GMGN{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  httpClient(timeoutMs, defaultGMGNTimeout),
		log:     log,
	}
}

// Name returns the provenance tag this adapter stamps on candidates.
func (g *GMGN) Name() token.Source { return token.SourceGMGN }

// Fetch pulls the current new-token list. Zero listings is a valid result.
func (g *GMGN) Fetch(ctx context.Context) ([]token.Candidate, error) {
	url := g.baseURL + "/api/v1/new_tokens"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, permanentErr(g.Name(), fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", "memescout-go/1.0 (discovery)")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, transientErr(g.Name(), fmt.Errorf("http do: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusErr(g.Name(), resp.StatusCode)
	}

	var payload gmgnResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, transientErr(g.Name(), fmt.Errorf("decode response: %w", err))
	}

	now := time.Now().UTC()
	out := make([]token.Candidate, 0, len(payload.Tokens))
	for _, listing := range payload.Tokens {
		contract := listing.Contract
		if contract == "" {
			contract = listing.Address
		}
		cand := token.Candidate{
			Sources:      []token.Source{g.Name()},
			Name:         listing.Name,
			Symbol:       listing.Symbol,
			Contract:     contract,
			DiscoveredAt: now,
		}
		if listing.CreatedAt > 0 {
			cand.DiscoveredAt = time.Unix(listing.CreatedAt, 0).UTC()
		}
		if err := cand.Normalize(); err != nil {
			g.log.Debug().Str("name", listing.Name).Msg("dropping listing without contract")
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}
