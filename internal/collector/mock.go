package collector

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/qepting91/reddit-stats/internal/domain"
)

var mockHeadlines = []string{
	"Python is great for scripting",
	"I love Java and Python",
	"JavaScript fatigue is real",
	"Why Go beats Java for services",
	"Ask: best resources to learn go?",
}

// MockClient implements domain.Fetcher but returns deterministic fake data
type MockClient struct {
	// PostsPerSub is the length of every simulated hot listing
	PostsPerSub int
	// Missing subreddits answer like Reddit does for unknown names
	Missing map[string]bool
	// Latency simulates network delay per call
	Latency time.Duration
}

func NewMockClient() *MockClient {
	return &MockClient{PostsPerSub: 250, Missing: map[string]bool{}}
}

func (mc *MockClient) wait(ctx context.Context) error {
	if mc.Latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(mc.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (mc *MockClient) FetchAbout(ctx context.Context, sub string) (domain.About, error) {
	if err := mc.wait(ctx); err != nil {
		return domain.About{}, &domain.FetchError{Kind: domain.KindTransient, Subreddit: sub, Endpoint: "about", Err: err}
	}
	if mc.Missing[sub] {
		return domain.About{}, &domain.FetchError{Kind: domain.KindNotFound, Subreddit: sub, Endpoint: "about", StatusCode: 302}
	}

	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(sub)))
	return domain.About{Name: sub, Subscribers: int(h.Sum32() % 5_000_000)}, nil
}

func (mc *MockClient) FetchHot(ctx context.Context, sub string, limit int, after string) (domain.Page, error) {
	if err := mc.wait(ctx); err != nil {
		return domain.Page{}, &domain.FetchError{Kind: domain.KindTransient, Subreddit: sub, Endpoint: "hot", Err: err}
	}
	if mc.Missing[sub] {
		return domain.Page{}, &domain.FetchError{Kind: domain.KindNotFound, Subreddit: sub, Endpoint: "hot", StatusCode: 302}
	}

	start := 0
	if after != "" {
		idx, err := strconv.Atoi(strings.TrimPrefix(after, "t3_mock_"))
		if err != nil {
			return domain.Page{}, &domain.FetchError{Kind: domain.KindRejected, Subreddit: sub, Endpoint: "hot", StatusCode: 400, Err: err}
		}
		start = idx + 1
	}

	var page domain.Page
	for i := start; i < mc.PostsPerSub && len(page.Posts) < limit; i++ {
		page.Posts = append(page.Posts, domain.Post{
			ID:        fmt.Sprintf("mock_%d", i),
			Title:     mockHeadlines[i%len(mockHeadlines)],
			Subreddit: "r/" + sub,
			Author:    "simulated_user",
			URL:       "http://localhost/mock-url",
			Score:     (i * 37) % 500,
		})
	}
	if n := len(page.Posts); n > 0 && start+n < mc.PostsPerSub {
		page.After = fmt.Sprintf("t3_mock_%d", start+n-1)
	}
	return page, nil
}
