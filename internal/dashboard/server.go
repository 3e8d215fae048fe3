package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qepting91/reddit-stats/internal/domain"
	"github.com/qepting91/reddit-stats/internal/stats"
)

// RenderKeywords draws ranked keyword counts as a bar chart.
func RenderKeywords(w io.Writer, title string, entries []stats.Entry) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "Keyword frequency in hot titles"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	barX := make([]string, 0, len(entries))
	barY := make([]opts.BarData, 0, len(entries))
	for _, e := range entries {
		barX = append(barX, e.Word)
		barY = append(barY, opts.BarData{Value: e.Count})
	}
	bar.SetXAxis(barX).AddSeries("Mentions", barY)

	return bar.Render(w)
}

// RenderSubscribers draws subscriber counts per subreddit as a pie chart.
// Order of subs is preserved in the legend.
func RenderSubscribers(w io.Writer, subs []string, counts map[string]int) error {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Subscriber Share"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	items := make([]opts.PieData, 0, len(subs))
	for _, s := range subs {
		items = append(items, opts.PieData{Name: "r/" + s, Value: counts[s]})
	}
	pie.AddSeries("Subscribers", items)

	return pie.Render(w)
}

// Handler serves live charts and Prometheus metrics.
type Handler struct {
	fetcher  domain.Fetcher
	pageSize int
	logger   *slog.Logger
}

func NewHandler(f domain.Fetcher, pageSize int) http.Handler {
	h := &Handler{
		fetcher:  f,
		pageSize: pageSize,
		logger:   slog.Default().With("component", "dashboard"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/keywords", h.keywords)
	mux.HandleFunc("/subscribers", h.subscribers)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (h *Handler) keywords(w http.ResponseWriter, r *http.Request) {
	sub := r.URL.Query().Get("sub")
	words := splitList(r.URL.Query().Get("words"))
	if sub == "" || len(words) == 0 {
		http.Error(w, "sub and words are required", http.StatusBadRequest)
		return
	}

	counts, err := stats.CountWords(r.Context(), h.fetcher, sub, words, h.pageSize)
	if err != nil {
		h.logger.Warn("Keyword count failed", "sub", sub, "kind", domain.KindOf(err), "err", err)
		http.Error(w, "None", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderKeywords(w, "r/"+sub, stats.Rank(counts)); err != nil {
		h.logger.Error("Render failed", "err", err)
	}
}

func (h *Handler) subscribers(w http.ResponseWriter, r *http.Request) {
	subs := splitList(r.URL.Query().Get("subs"))
	if len(subs) == 0 {
		http.Error(w, "subs is required", http.StatusBadRequest)
		return
	}

	counts := make(map[string]int, len(subs))
	for _, s := range subs {
		counts[s] = stats.SubscriberCount(r.Context(), h.fetcher, s)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderSubscribers(w, subs, counts); err != nil {
		h.logger.Error("Render failed", "err", err)
	}
}

// StartServer serves handler on addr until ctx is cancelled.
func StartServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
