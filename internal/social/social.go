// Package social scans recent tweets for meme buzz. It is run-level context
// only; nothing downstream gates on it.
package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var newsDomains = []string{
	"cnn.com", "nytimes.com", "bbc.co", "foxnews.com", "washingtonpost.com",
	"theguardian.com", "reuters.com", "nbcnews.com", "abcnews.go.com",
}

// Metrics carries the public engagement counters of one tweet.
type Metrics struct {
	Retweets int `json:"retweet_count"`
	Replies  int `json:"reply_count"`
	Likes    int `json:"like_count"`
	Quotes   int `json:"quote_count"`
}

// Post is one scored search result.
type Post struct {
	ID         string
	Text       string
	CreatedAt  time.Time
	Popularity int
	IsNews     bool
}

// PopularityScore weights shares above passive engagement: retweets and
// quotes count double.
func PopularityScore(m Metrics) int {
	return 2*m.Retweets + m.Likes + m.Replies + 2*m.Quotes
}

// ReferencesNews reports whether any expanded URL points at a known news
// outlet.
func ReferencesNews(urls []string) bool {
	for _, u := range urls {
		lowered := strings.ToLower(u)
		for _, domain := range newsDomains {
			if strings.Contains(lowered, domain) {
				return true
			}
		}
	}
	return false
}

// TwitterClient calls the recent-search endpoint with bearer auth.
type TwitterClient struct {
	bearerToken string
	client      *http.Client
	log         zerolog.Logger

	// baseURL is overridable for tests.
	baseURL string
}

// NewTwitterClient constructs the search client.
func NewTwitterClient(bearerToken string, log zerolog.Logger) *TwitterClient {
	return &TwitterClient{
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log,
		baseURL:     "https://api.twitter.com",
	}
}

type searchEntry struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	CreatedAt string  `json:"created_at"`
	Metrics   Metrics `json:"public_metrics"`
	Entities  struct {
		URLs []struct {
			ExpandedURL string `json:"expanded_url"`
		} `json:"urls"`
	} `json:"entities"`
}

type searchResponse struct {
	Data []searchEntry `json:"data"`
}

// SearchRecent returns up to maxResults scored posts, most popular first.
func (t *TwitterClient) SearchRecent(ctx context.Context, query string, maxResults int) ([]Post, error) {
	if t.bearerToken == "" {
		return nil, fmt.Errorf("bearer token not configured")
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("max_results", fmt.Sprintf("%d", maxResults))
	q.Set("tweet.fields", "public_metrics,entities,created_at")
	endpoint := t.baseURL + "/2/tweets/search/recent?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.bearerToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	posts := make([]Post, 0, len(payload.Data))
	for _, entry := range payload.Data {
		urls := make([]string, 0, len(entry.Entities.URLs))
		for _, u := range entry.Entities.URLs {
			urls = append(urls, u.ExpandedURL)
		}
		post := Post{
			ID:         entry.ID,
			Text:       entry.Text,
			Popularity: PopularityScore(entry.Metrics),
			IsNews:     ReferencesNews(urls),
		}
		if ts, err := time.Parse(time.RFC3339, entry.CreatedAt); err == nil {
			post.CreatedAt = ts
		}
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Popularity > posts[j].Popularity })
	return posts, nil
}
