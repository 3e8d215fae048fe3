package domain

import "context"

// Post is a single item of a subreddit listing
type Post struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Subreddit    string  `json:"subreddit"`
	Author       string  `json:"author"`
	URL          string  `json:"url"`
	Score        int     `json:"score"`
	CommentCount int     `json:"comment_count"`
	CreatedUTC   float64 `json:"created_utc"`
}

// About is the subset of subreddit metadata we consume
type About struct {
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers"`
}

// Page is one fetch of a cursor-paginated listing.
// An empty After means the listing is exhausted.
type Page struct {
	Posts []Post
	After string
}

// Fetcher defines the interface for talking to Reddit.
// An empty after cursor requests the first page.
type Fetcher interface {
	FetchAbout(ctx context.Context, subreddit string) (About, error)
	FetchHot(ctx context.Context, subreddit string, limit int, after string) (Page, error)
}
