package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"memescout-go/internal/token"
)

const defaultTweetScoutTimeout = 10 * time.Second

// TweetScout queries a social account search collaborator. Results that do
// not carry a contract address are not candidates and are dropped.
type TweetScout struct {
	baseURL  string
	apiToken string
	query    string
	client   *http.Client
	log      zerolog.Logger
}

type tweetScoutResult struct {
	Handle    string `json:"handle"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Contract  string `json:"contract"`
	Followers int    `json:"followers"`
}

type tweetScoutResponse struct {
	Results []tweetScoutResult `json:"results"`
}

// NewTweetScout constructs the social lookup adapter.
func NewTweetScout(baseURL, apiToken, query string, log zerolog.Logger) *TweetScout {
	return &TweetScout{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiToken: apiToken,
		query:    query,
		client:   &http.Client{Timeout: defaultTweetScoutTimeout},
		log:      log,
	}
}

// Name returns the provenance tag this adapter stamps on candidates.
func (t *TweetScout) Name() token.Source { return token.SourceTweetScout }

// Fetch searches for memecoin accounts matching the configured query.
func (t *TweetScout) Fetch(ctx context.Context) ([]token.Candidate, error) {
	if t.apiToken == "" {
		return nil, permanentErr(t.Name(), fmt.Errorf("api token not configured"))
	}
	endpoint := fmt.Sprintf("%s/api/search?query=%s", t.baseURL, url.QueryEscape(t.query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, permanentErr(t.Name(), fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", "memescout-go/1.0 (discovery)")
	req.Header.Set("Authorization", "Bearer "+t.apiToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, transientErr(t.Name(), fmt.Errorf("http do: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusErr(t.Name(), resp.StatusCode)
	}

	var payload tweetScoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, transientErr(t.Name(), fmt.Errorf("decode response: %w", err))
	}

	now := time.Now().UTC()
	out := make([]token.Candidate, 0, len(payload.Results))
	for _, result := range payload.Results {
		name := result.Name
		if name == "" {
			name = result.Handle
		}
		cand := token.Candidate{
			Sources:      []token.Source{t.Name()},
			Name:         name,
			Symbol:       result.Symbol,
			Contract:     result.Contract,
			DiscoveredAt: now,
		}
		if err := cand.Normalize(); err != nil {
			t.log.Debug().Str("handle", result.Handle).Msg("account result has no contract, skipping")
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}
