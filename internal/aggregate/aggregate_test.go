package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/qepting91/reddit-stats/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedFetcher serves pages keyed by the after cursor it receives.
type scriptedFetcher struct {
	pages  map[string]domain.Page
	errs   map[string]error
	calls  []string
	limits []int
}

func (s *scriptedFetcher) FetchAbout(ctx context.Context, sub string) (domain.About, error) {
	return domain.About{}, errors.New("not scripted")
}

func (s *scriptedFetcher) FetchHot(ctx context.Context, sub string, limit int, after string) (domain.Page, error) {
	s.calls = append(s.calls, after)
	s.limits = append(s.limits, limit)
	if err, ok := s.errs[after]; ok {
		return domain.Page{}, err
	}
	return s.pages[after], nil
}

func posts(titles ...string) []domain.Post {
	out := make([]domain.Post, len(titles))
	for i, title := range titles {
		out[i] = domain.Post{Title: title}
	}
	return out
}

func collectTitles(p domain.Post, acc []string) []string {
	return append(acc, p.Title)
}

func TestAggregate_SinglePartialPage(t *testing.T) {
	f := &scriptedFetcher{pages: map[string]domain.Page{
		"": {Posts: posts("a", "b", "c")},
	}}

	got, err := Aggregate(context.Background(), f, "golang", 100, collectTitles, []string{})
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{""}, f.calls)
}

func TestAggregate_TwoPagesInOrder(t *testing.T) {
	f := &scriptedFetcher{pages: map[string]domain.Page{
		"":     {Posts: posts("p1-a", "p1-b"), After: "t3_x"},
		"t3_x": {Posts: posts("p2-a")},
	}}

	before := testutil.ToFloat64(pagesFetched)

	got, err := Aggregate(context.Background(), f, "golang", 2, collectTitles, nil)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"p1-a", "p1-b", "p2-a"}, got); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"", "t3_x"}, f.calls, "exactly two fetches, cursor threaded through")
	assert.Equal(t, before+2, testutil.ToFloat64(pagesFetched))
}

func TestAggregate_EmptyPageStopsEvenWithCursor(t *testing.T) {
	f := &scriptedFetcher{pages: map[string]domain.Page{
		"":     {Posts: posts("only"), After: "t3_x"},
		"t3_x": {After: "t3_y"},
	}}

	got, err := Aggregate(context.Background(), f, "golang", 10, collectTitles, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, got)
	assert.Equal(t, []string{"", "t3_x"}, f.calls)
}

func TestAggregate_FailureDiscardsPartialResult(t *testing.T) {
	cause := &domain.FetchError{Kind: domain.KindTransient, Subreddit: "golang", Endpoint: "hot", StatusCode: 503}
	f := &scriptedFetcher{
		pages: map[string]domain.Page{
			"":     {Posts: posts("a"), After: "t3_x"},
			"t3_x": {Posts: posts("b"), After: "t3_y"},
		},
		errs: map[string]error{"t3_y": cause},
	}

	got, err := Aggregate(context.Background(), f, "golang", 10, collectTitles, []string{})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, domain.KindTransient, domain.KindOf(err))
	assert.Contains(t, err.Error(), "page 3")
}

func TestAggregate_FailureOnFirstPage(t *testing.T) {
	f := &scriptedFetcher{errs: map[string]error{
		"": &domain.FetchError{Kind: domain.KindNotFound, StatusCode: 302},
	}}

	got, err := Aggregate(context.Background(), f, "golang", 10, func(p domain.Post, n int) int { return n + 1 }, 0)
	require.Error(t, err)
	assert.Zero(t, got)
	assert.True(t, domain.IsNotFound(err))
}

func TestAggregate_AccumulatorIdentity(t *testing.T) {
	f := &scriptedFetcher{pages: map[string]domain.Page{
		"":     {Posts: posts("Go", "go"), After: "t3_x"},
		"t3_x": {Posts: posts("GO")},
	}}

	seed := map[string]int{"go": 0, "rust": 0}
	got, err := Aggregate(context.Background(), f, "golang", 10, func(p domain.Post, m map[string]int) map[string]int {
		m["go"]++
		return m
	}, seed)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"go": 3, "rust": 0}, got)
	// Same map threaded through every page
	assert.Equal(t, 3, seed["go"])
}

func TestAggregate_PageSize(t *testing.T) {
	tests := []struct {
		name      string
		pageSize  int
		wantLimit int
		wantErr   error
	}{
		{name: "within cap", pageSize: 25, wantLimit: 25},
		{name: "clamped to cap", pageSize: 500, wantLimit: MaxPageSize},
		{name: "zero", pageSize: 0, wantErr: ErrInvalidPageSize},
		{name: "negative", pageSize: -1, wantErr: ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &scriptedFetcher{pages: map[string]domain.Page{"": {Posts: posts("a")}}}

			_, err := Aggregate(context.Background(), f, "golang", tt.pageSize, collectTitles, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int{tt.wantLimit}, f.limits)
		})
	}
}

func TestAggregate_InvalidSubredditMakesNoCalls(t *testing.T) {
	f := &scriptedFetcher{}

	_, err := Aggregate(context.Background(), f, "", 10, collectTitles, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSubreddit)
	assert.Empty(t, f.calls)
}

func TestAggregate_CancelledContext(t *testing.T) {
	f := &scriptedFetcher{pages: map[string]domain.Page{"": {Posts: posts("a")}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Aggregate(ctx, f, "golang", 10, collectTitles, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.calls)
}
