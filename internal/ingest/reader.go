package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/qepting91/reddit-stats/internal/domain"
)

// LoadSubreddits reads the first column of a CSV file with a header row.
// Invalid names are skipped (fail-soft).
func LoadSubreddits(path string) ([]string, error) {
	records, err := readColumn(path)
	if err != nil {
		return nil, err
	}

	var subs []string
	for _, rec := range records {
		if err := domain.ValidateSubreddit(rec); err != nil {
			slog.Warn("Skipping subreddit", "path", path, "err", err)
			continue
		}
		subs = append(subs, rec)
	}
	return subs, nil
}

// LoadKeywords reads lowercased keywords from the first column of a CSV
// file with a header row.
func LoadKeywords(path string) ([]string, error) {
	records, err := readColumn(path)
	if err != nil {
		return nil, err
	}

	kws := make([]string, 0, len(records))
	for _, rec := range records {
		kws = append(kws, strings.ToLower(rec))
	}
	return kws, nil
}

// readColumn returns the trimmed, non-empty first field of every row after the header.
func readColumn(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseColumn(stripBOM(f))
}

func parseColumn(src io.Reader) ([]string, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	var out []string
	line := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line+1, err)
		}
		line++
		if line == 1 {
			continue // Skip header
		}
		if len(record) == 0 {
			continue
		}
		if v := strings.TrimSpace(record[0]); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
