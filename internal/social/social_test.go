package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestPopularityScoreWeighting(t *testing.T) {
	m := Metrics{Retweets: 3, Likes: 5, Replies: 2, Quotes: 1}
	// 2*3 + 5 + 2 + 2*1
	if got := PopularityScore(m); got != 15 {
		t.Fatalf("expected score 15, got %d", got)
	}
	if got := PopularityScore(Metrics{}); got != 0 {
		t.Fatalf("expected zero score for empty metrics, got %d", got)
	}
}

func TestReferencesNews(t *testing.T) {
	if !ReferencesNews([]string{"https://www.Reuters.com/markets/some-story"}) {
		t.Fatal("expected reuters link to count as news")
	}
	if ReferencesNews([]string{"https://pump.fun/board", "https://example.org"}) {
		t.Fatal("expected non-news links to not count")
	}
	if ReferencesNews(nil) {
		t.Fatal("expected nil urls to not count as news")
	}
}

func TestSearchRecentScoresAndSorts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "$WIF" {
			t.Errorf("unexpected query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"id":"1","text":"quiet","created_at":"2026-08-27T10:00:00Z","public_metrics":{"retweet_count":0,"reply_count":1,"like_count":2,"quote_count":0}},
			{"id":"2","text":"loud","created_at":"2026-08-27T11:00:00Z","public_metrics":{"retweet_count":10,"reply_count":0,"like_count":5,"quote_count":1},
			 "entities":{"urls":[{"expanded_url":"https://www.bbc.co.uk/news/article"}]}}
		]}`))
	}))
	defer server.Close()

	c := NewTwitterClient("tok", zerolog.Nop())
	c.baseURL = server.URL

	posts, err := c.SearchRecent(context.Background(), "$WIF", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != "2" {
		t.Fatalf("expected most popular post first, got id %s", posts[0].ID)
	}
	if posts[0].Popularity != 27 {
		t.Fatalf("expected popularity 27, got %d", posts[0].Popularity)
	}
	if !posts[0].IsNews {
		t.Fatal("expected bbc link to flag post as news")
	}
	if posts[1].IsNews {
		t.Fatal("expected post without links to not be news")
	}
}

func TestSearchRecentRequiresToken(t *testing.T) {
	c := NewTwitterClient("", zerolog.Nop())
	if _, err := c.SearchRecent(context.Background(), "$WIF", 5); err == nil {
		t.Fatal("expected error without bearer token")
	}
}

func TestSearchRecentNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewTwitterClient("tok", zerolog.Nop())
	c.baseURL = server.URL
	if _, err := c.SearchRecent(context.Background(), "$WIF", 5); err == nil {
		t.Fatal("expected error on 429")
	}
}
