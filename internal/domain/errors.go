package domain

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
)

// ErrInvalidSubreddit is returned before any request is made for a name
// Reddit could never serve.
var ErrInvalidSubreddit = errors.New("invalid subreddit name")

// Subreddit names are 2-21 characters of letters, digits and underscores
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)

// ValidateSubreddit checks a subreddit name without touching the network.
func ValidateSubreddit(name string) error {
	if !subNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidSubreddit, name)
	}
	return nil
}

// ErrorKind classifies a failed fetch.
type ErrorKind string

const (
	// KindNotFound covers redirects to search, 403 and 404.
	KindNotFound ErrorKind = "not_found"

	// KindTransient covers 429, 5xx and transport failures.
	KindTransient ErrorKind = "transient"

	// KindRejected covers any other non-2xx status.
	KindRejected ErrorKind = "rejected"

	// KindMalformed covers undecodable bodies and missing fields.
	KindMalformed ErrorKind = "malformed"
)

// FetchError is the single failure type produced by collectors.
type FetchError struct {
	Kind       ErrorKind
	Subreddit  string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s for r/%s: %s", e.Endpoint, e.Subreddit, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindForStatus maps a non-200 HTTP status to an ErrorKind.
func KindForStatus(status int) ErrorKind {
	switch {
	case status >= 300 && status < 400:
		return KindNotFound
	case status == http.StatusNotFound, status == http.StatusForbidden:
		return KindNotFound
	case status == http.StatusTooManyRequests, status >= 500:
		return KindTransient
	default:
		return KindRejected
	}
}

// KindOf returns the kind of the first FetchError in err's chain,
// or "" if there is none.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound || errors.Is(err, ErrInvalidSubreddit)
}

func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}
