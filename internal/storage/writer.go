package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/qepting91/reddit-stats/internal/domain"
)

// WriterService drains a channel of posts into an NDJSON file.
// It is the only goroutine touching the file.
type WriterService struct {
	FilePath string
	// Append keeps existing content instead of truncating
	Append bool

	mu  sync.Mutex
	err error
}

func (w *WriterService) Start(wg *sync.WaitGroup, input <-chan domain.Post) {
	defer wg.Done()

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if w.Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	f, err := os.OpenFile(w.FilePath, flags, 0644)
	if err != nil {
		w.setErr(fmt.Errorf("open %s: %w", w.FilePath, err))
		// Keep draining so senders never block
		for range input {
		}
		return
	}

	enc := json.NewEncoder(f)
	for post := range input {
		// Write as NDJSON
		if err := enc.Encode(post); err != nil {
			w.setErr(fmt.Errorf("encode post %s: %w", post.ID, err))
		}
	}

	if err := f.Close(); err != nil {
		w.setErr(fmt.Errorf("close %s: %w", w.FilePath, err))
	}
}

// Err returns the first error seen by Start. Call it after the WaitGroup is done.
func (w *WriterService) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *WriterService) setErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err == nil {
		w.err = err
	}
}

// WritePosts writes posts to path through a WriterService.
func WritePosts(path string, posts []domain.Post) error {
	input := make(chan domain.Post, len(posts))
	w := &WriterService{FilePath: path}

	var wg sync.WaitGroup
	wg.Add(1)
	go w.Start(&wg, input)

	for _, p := range posts {
		input <- p
	}
	close(input)
	wg.Wait()

	return w.Err()
}
