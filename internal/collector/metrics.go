package collector

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/qepting91/reddit-stats/internal/domain"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redditstats_requests_total",
		Help: "Total Reddit requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "redditstats_request_duration_seconds",
		Help:    "Reddit request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	fetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redditstats_fetch_errors_total",
		Help: "Total failed fetches by error kind",
	}, []string{"kind"})
)

// observe records one finished request. status is 0 when no response
// was received.
func observe(endpoint string, status int, start time.Time, err error) {
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	label := "network_error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	requestsTotal.WithLabelValues(endpoint, label).Inc()

	var fe *domain.FetchError
	if errors.As(err, &fe) {
		fetchErrorsTotal.WithLabelValues(string(fe.Kind)).Inc()
	}
}

// pacingError reports a limiter wait that ended before any request was sent.
func pacingError(sub, endpoint string, err error) error {
	fetchErrorsTotal.WithLabelValues(string(domain.KindTransient)).Inc()
	return &domain.FetchError{Kind: domain.KindTransient, Subreddit: sub, Endpoint: endpoint, Err: err}
}
