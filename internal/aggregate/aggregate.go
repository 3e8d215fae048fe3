// Package aggregate folds every post of a cursor-paginated hot listing
// into a caller-supplied accumulator, one page at a time.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/qepting91/reddit-stats/internal/config"
	"github.com/qepting91/reddit-stats/internal/domain"
)

// MaxPageSize is the largest limit Reddit honours for a listing.
const MaxPageSize = config.MaxPageSize

// ErrInvalidPageSize is returned for a non-positive page size.
var ErrInvalidPageSize = errors.New("page size must be positive")

var (
	pagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redditstats_pages_fetched_total",
		Help: "Listing pages fetched by paginated traversals",
	})

	traversalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redditstats_traversals_total",
		Help: "Completed paginated traversals by outcome",
	}, []string{"outcome"})
)

// Fold applies one post to the accumulator and returns it.
type Fold[S any] func(post domain.Post, state S) S

// Aggregate walks the hot listing of subreddit from the first page until the
// cursor runs out or a page comes back empty, folding every post into state.
//
// Pages are fetched strictly one after another. Any fetch error aborts the
// traversal and the zero value of S is returned: callers get either a
// complete result or nothing.
func Aggregate[S any](ctx context.Context, f domain.Fetcher, subreddit string, pageSize int, fold Fold[S], initial S) (S, error) {
	var zero S
	if err := domain.ValidateSubreddit(subreddit); err != nil {
		return zero, err
	}
	if pageSize <= 0 {
		return zero, fmt.Errorf("%w (got %d)", ErrInvalidPageSize, pageSize)
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	logger := slog.Default().With("component", "aggregate", "sub", subreddit)

	state := initial
	after := ""
	for pageNum := 1; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			traversalsTotal.WithLabelValues("failed").Inc()
			return zero, fmt.Errorf("page %d: %w", pageNum, err)
		}

		page, err := f.FetchHot(ctx, subreddit, pageSize, after)
		if err != nil {
			logger.Warn("Traversal aborted", "page", pageNum, "kind", domain.KindOf(err), "err", err)
			traversalsTotal.WithLabelValues("failed").Inc()
			return zero, fmt.Errorf("page %d: %w", pageNum, err)
		}
		pagesFetched.Inc()
		logger.Debug("Page fetched", "page", pageNum, "posts", len(page.Posts), "after", page.After)

		if len(page.Posts) == 0 {
			break
		}
		for _, p := range page.Posts {
			state = fold(p, state)
		}
		if page.After == "" {
			break
		}
		after = page.After
	}

	traversalsTotal.WithLabelValues("complete").Inc()
	return state, nil
}
