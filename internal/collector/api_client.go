package collector

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/qepting91/reddit-stats/internal/domain"
	"golang.org/x/time/rate"
)

// APIClient talks to the authenticated OAuth API.
type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

func NewAPIClient(id, secret, user, pass, userAgent string, interval time.Duration) (*APIClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}

	client, err := reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, err
	}

	// API Rate Limit: ~60 reqs/min unless configured otherwise
	return &APIClient{client: client, limiter: newLimiter(interval)}, nil
}

func (ac *APIClient) FetchAbout(ctx context.Context, sub string) (about domain.About, err error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return domain.About{}, pacingError(sub, "about", err)
	}

	start := time.Now()
	status := 0
	defer func() { observe("about", status, start, err) }()

	s, resp, err := ac.client.Subreddit.Get(ctx, sub)
	status = responseStatus(resp)
	if err != nil {
		return domain.About{}, classifyAPIError(sub, "about", err)
	}
	if s == nil {
		return domain.About{}, &domain.FetchError{Kind: domain.KindMalformed, Subreddit: sub, Endpoint: "about", Err: errors.New("empty subreddit")}
	}
	return domain.About{Name: s.Name, Subscribers: s.Subscribers}, nil
}

func (ac *APIClient) FetchHot(ctx context.Context, sub string, limit int, after string) (page domain.Page, err error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return domain.Page{}, pacingError(sub, "hot", err)
	}

	start := time.Now()
	status := 0
	defer func() { observe("hot", status, start, err) }()

	posts, resp, err := ac.client.Subreddit.HotPosts(ctx, sub, &reddit.ListOptions{Limit: limit, After: after})
	status = responseStatus(resp)
	if err != nil {
		return domain.Page{}, classifyAPIError(sub, "hot", err)
	}

	page = domain.Page{Posts: make([]domain.Post, 0, len(posts))}
	if resp != nil {
		page.After = resp.After
	}
	for _, p := range posts {
		post := domain.Post{
			ID:           p.ID,
			Title:        p.Title,
			Subreddit:    p.SubredditNamePrefixed,
			Author:       p.Author,
			URL:          p.URL,
			Score:        p.Score,
			CommentCount: p.NumberOfComments,
		}
		if p.Created != nil {
			post.CreatedUTC = float64(p.Created.Time.Unix())
		}
		page.Posts = append(page.Posts, post)
	}
	return page, nil
}

func responseStatus(resp *reddit.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

// classifyAPIError converts go-reddit errors into the domain taxonomy.
func classifyAPIError(sub, endpoint string, err error) error {
	fe := &domain.FetchError{Kind: domain.KindTransient, Subreddit: sub, Endpoint: endpoint, Err: err}

	var errResp *reddit.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		fe.StatusCode = errResp.Response.StatusCode
		fe.Kind = domain.KindForStatus(fe.StatusCode)
		return fe
	}

	var rateErr *reddit.RateLimitError
	if errors.As(err, &rateErr) {
		fe.StatusCode = http.StatusTooManyRequests
		return fe
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		fe.Kind = domain.KindMalformed
	}
	return fe
}
