package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/qepting91/reddit-stats/internal/aggregate"
	"github.com/qepting91/reddit-stats/internal/domain"
)

// KeywordCounter counts whole-word, case-insensitive keyword occurrences
// in post titles.
//
// Keywords are kept in the order given. A keyword listed more than once is
// counted once per listing, so its total is multiplied accordingly.
type KeywordCounter struct {
	words []string
}

func NewKeywordCounter(words []string) *KeywordCounter {
	kc := &KeywordCounter{words: make([]string, 0, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		kc.words = append(kc.words, w)
	}
	return kc
}

// Seed returns a fresh accumulator holding every keyword at zero.
func (kc *KeywordCounter) Seed() map[string]int {
	counts := make(map[string]int, len(kc.words))
	for _, w := range kc.words {
		counts[w] = 0
	}
	return counts
}

// Add folds the keyword occurrences of one title into counts.
func (kc *KeywordCounter) Add(title string, counts map[string]int) map[string]int {
	title = strings.ToLower(title)
	for _, w := range kc.words {
		counts[w] += countWholeWord(title, w)
	}
	return counts
}

// isWordRune reports whether r is a Unicode word character.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// boundaryBefore reports whether a word boundary sits at byte offset i of s,
// given that the rune starting there is next.
func boundaryBefore(s string, i int, next rune) bool {
	prev := false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		prev = isWordRune(r)
	}
	return prev != isWordRune(next)
}

// boundaryAfter reports whether a word boundary sits at byte offset i of s,
// given that prev is the rune ending there.
func boundaryAfter(s string, i int, prev rune) bool {
	next := false
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		next = isWordRune(r)
	}
	return isWordRune(prev) != next
}

// countWholeWord counts non-overlapping occurrences of word in s that start
// and end on a word boundary. Boundaries follow Unicode letters and digits.
func countWholeWord(s, word string) int {
	first, _ := utf8.DecodeRuneInString(word)
	last, _ := utf8.DecodeLastRuneInString(word)

	n := 0
	for pos := 0; pos <= len(s)-len(word); {
		idx := strings.Index(s[pos:], word)
		if idx < 0 {
			break
		}
		start, end := pos+idx, pos+idx+len(word)
		if boundaryBefore(s, start, first) && boundaryAfter(s, end, last) {
			n++
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		pos = start + size
	}
	return n
}

// Fold adapts Add to aggregate.Fold.
func (kc *KeywordCounter) Fold(p domain.Post, counts map[string]int) map[string]int {
	return kc.Add(p.Title, counts)
}

// CountWords walks the full hot listing of sub and counts words across all titles.
// The returned map still holds zero-count keywords; see Rank.
func CountWords(ctx context.Context, f domain.Fetcher, sub string, words []string, pageSize int) (map[string]int, error) {
	kc := NewKeywordCounter(words)
	return aggregate.Aggregate(ctx, f, sub, pageSize, kc.Fold, kc.Seed())
}

// Entry is one ranked keyword.
type Entry struct {
	Word  string
	Count int
}

// Rank drops zero counts and orders the rest by count descending,
// then word ascending.
func Rank(counts map[string]int) []Entry {
	entries := make([]Entry, 0, len(counts))
	for w, c := range counts {
		if c > 0 {
			entries = append(entries, Entry{Word: w, Count: c})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Word < entries[j].Word
	})
	return entries
}

// FormatEntries renders entries as "word: count" lines.
func FormatEntries(entries []Entry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s: %d", e.Word, e.Count)
	}
	return lines
}
