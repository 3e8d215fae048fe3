// Package stats implements the subreddit aggregations: subscriber counts,
// hot-title listings and keyword frequency.
package stats

import (
	"context"
	"fmt"

	"github.com/qepting91/reddit-stats/internal/aggregate"
	"github.com/qepting91/reddit-stats/internal/domain"
)

// TopTenLimit bounds the single-page title listing.
const TopTenLimit = 10

// Subscribers fetches the subscriber count of sub.
func Subscribers(ctx context.Context, f domain.Fetcher, sub string) (int, error) {
	if err := domain.ValidateSubreddit(sub); err != nil {
		return 0, err
	}
	about, err := f.FetchAbout(ctx, sub)
	if err != nil {
		return 0, err
	}
	return about.Subscribers, nil
}

// SubscriberCount is Subscribers with every failure reported as 0.
// A real count of zero and an error are indistinguishable here.
func SubscriberCount(ctx context.Context, f domain.Fetcher, sub string) int {
	n, err := Subscribers(ctx, f, sub)
	if err != nil {
		return 0
	}
	return n
}

// TopTitles returns the titles of the first page of hot posts, in server order.
// It never follows the cursor.
func TopTitles(ctx context.Context, f domain.Fetcher, sub string, limit int) ([]string, error) {
	if err := domain.ValidateSubreddit(sub); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w (got %d)", aggregate.ErrInvalidPageSize, limit)
	}

	page, err := f.FetchHot(ctx, sub, limit, "")
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(page.Posts))
	for _, p := range page.Posts {
		titles = append(titles, p.Title)
	}
	return titles, nil
}

// HotPosts returns every hot post of sub by walking the full listing.
func HotPosts(ctx context.Context, f domain.Fetcher, sub string, pageSize int) ([]domain.Post, error) {
	return aggregate.Aggregate(ctx, f, sub, pageSize, func(p domain.Post, acc []domain.Post) []domain.Post {
		return append(acc, p)
	}, []domain.Post{})
}

// HotTitles returns the title of every hot post of sub, in server order.
func HotTitles(ctx context.Context, f domain.Fetcher, sub string, pageSize int) ([]string, error) {
	return aggregate.Aggregate(ctx, f, sub, pageSize, func(p domain.Post, acc []string) []string {
		return append(acc, p.Title)
	}, []string{})
}

// Titles projects posts onto their titles.
func Titles(posts []domain.Post) []string {
	titles := make([]string, len(posts))
	for i, p := range posts {
		titles[i] = p.Title
	}
	return titles
}
