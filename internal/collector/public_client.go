package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/qepting91/reddit-stats/internal/domain"
	"golang.org/x/time/rate"
)

// PublicClient reads Reddit's unauthenticated JSON endpoints.
type PublicClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

type aboutJSONResponse struct {
	Data *struct {
		DisplayName string `json:"display_name"`
		Subscribers *int   `json:"subscribers"`
	} `json:"data"`
}

type listingJSONResponse struct {
	Data *struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Title       string  `json:"title"`
				Subreddit   string  `json:"subreddit_name_prefixed"`
				Author      string  `json:"author"`
				URL         string  `json:"url"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
		After *string `json:"after"`
	} `json:"data"`
}

// newLimiter paces requests one per interval. Zero disables pacing.
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

func NewPublicClient(baseURL, userAgent string, interval, timeout time.Duration) (*PublicClient, error) {
	if userAgent == "" {
		return nil, fmt.Errorf("user agent is required for public mode")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	return &PublicClient{
		httpClient: &http.Client{
			Timeout: timeout,
			// Unknown subreddits redirect to search; treat the redirect itself as the answer
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter:   newLimiter(interval),
		baseURL:   baseURL,
		userAgent: userAgent,
		logger:    slog.Default().With("component", "public-client"),
	}, nil
}

func (pc *PublicClient) FetchAbout(ctx context.Context, sub string) (domain.About, error) {
	var body aboutJSONResponse
	if err := pc.get(ctx, sub, "about", nil, &body); err != nil {
		return domain.About{}, err
	}
	if body.Data == nil || body.Data.Subscribers == nil {
		err := &domain.FetchError{
			Kind:      domain.KindMalformed,
			Subreddit: sub,
			Endpoint:  "about",
			Err:       fmt.Errorf("missing data.subscribers"),
		}
		fetchErrorsTotal.WithLabelValues(string(err.Kind)).Inc()
		return domain.About{}, err
	}

	return domain.About{Name: body.Data.DisplayName, Subscribers: *body.Data.Subscribers}, nil
}

func (pc *PublicClient) FetchHot(ctx context.Context, sub string, limit int, after string) (domain.Page, error) {
	params := url.Values{"limit": {strconv.Itoa(limit)}}
	if after != "" {
		params.Set("after", after)
	}

	var body listingJSONResponse
	if err := pc.get(ctx, sub, "hot", params, &body); err != nil {
		return domain.Page{}, err
	}
	if body.Data == nil || body.Data.Children == nil {
		err := &domain.FetchError{
			Kind:      domain.KindMalformed,
			Subreddit: sub,
			Endpoint:  "hot",
			Err:       fmt.Errorf("missing data.children"),
		}
		fetchErrorsTotal.WithLabelValues(string(err.Kind)).Inc()
		return domain.Page{}, err
	}

	page := domain.Page{Posts: make([]domain.Post, 0, len(body.Data.Children))}
	if body.Data.After != nil {
		page.After = *body.Data.After
	}
	for _, child := range body.Data.Children {
		d := child.Data
		page.Posts = append(page.Posts, domain.Post{
			ID:           d.ID,
			Title:        d.Title,
			Subreddit:    d.Subreddit,
			Author:       d.Author,
			URL:          d.URL,
			Score:        d.Score,
			CommentCount: d.NumComments,
			CreatedUTC:   d.CreatedUTC,
		})
	}
	return page, nil
}

// get performs one paced GET of /r/<sub>/<endpoint>.json and decodes the body into out.
func (pc *PublicClient) get(ctx context.Context, sub, endpoint string, params url.Values, out any) (err error) {
	if err := pc.limiter.Wait(ctx); err != nil {
		return pacingError(sub, endpoint, err)
	}

	u := fmt.Sprintf("%s/r/%s/%s.json", pc.baseURL, url.PathEscape(sub), endpoint)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	start := time.Now()
	status := 0
	defer func() { observe(endpoint, status, start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &domain.FetchError{Kind: domain.KindRejected, Subreddit: sub, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("User-Agent", pc.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return &domain.FetchError{Kind: domain.KindTransient, Subreddit: sub, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	pc.logger.Debug("Reddit response", "sub", sub, "endpoint", endpoint, "status", status, "url", u)

	if resp.StatusCode != http.StatusOK {
		return &domain.FetchError{
			Kind:       domain.KindForStatus(resp.StatusCode),
			Subreddit:  sub,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.FetchError{
			Kind:       domain.KindMalformed,
			Subreddit:  sub,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	return nil
}
