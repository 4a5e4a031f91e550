package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DocumentSource downloads one content document by identifier.
type DocumentSource interface {
	Document(ctx context.Context, name string) (string, error)
}

// Outcome is the result of fetching one document: a body, or the reason
// the fetch failed.
type Outcome struct {
	ID       string
	Body     string
	Err      error
	Duration time.Duration
}

// OK reports whether the fetch succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Text returns the body, or a placeholder document naming the failure.
func (o Outcome) Text() string {
	if o.Err != nil {
		return Placeholder(o.Err)
	}
	return o.Body
}

// Placeholder is the document written in place of one that failed to download.
func Placeholder(err error) string {
	return fmt.Sprintf("# Download failed\n\nCould not download: %v", err)
}

// ProgressFunc is called once per completed fetch, in completion order.
type ProgressFunc func(done, total int, o Outcome)

// FetcherConfig controls download parallelism.
type FetcherConfig struct {
	Workers int           // Concurrent requests.
	Delay   time.Duration // Pause held by a worker after each request.
}

// DefaultFetcherConfig returns the pool size and pacing used against GitHub.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Workers: 5,
		Delay:   200 * time.Millisecond,
	}
}

// Fetcher downloads documents with a bounded worker pool.
type Fetcher struct {
	src   DocumentSource
	cfg   FetcherConfig
	log   *slog.Logger
	Stats *Stats
}

func NewFetcher(src DocumentSource, cfg FetcherConfig, log *slog.Logger) *Fetcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	return &Fetcher{
		src:   src,
		cfg:   cfg,
		log:   log,
		Stats: NewStats(),
	}
}

// FetchAll downloads every identifier and returns one outcome per distinct
// identifier. Failures are recorded as outcomes, never returned.
func (f *Fetcher) FetchAll(ctx context.Context, ids []string, progress ProgressFunc) map[string]Outcome {
	ids = dedupe(ids)
	results := make(chan Outcome, len(ids))

	go func() {
		var g errgroup.Group
		g.SetLimit(f.cfg.Workers)
		for _, id := range ids {
			g.Go(func() error {
				results <- f.fetchOne(ctx, id)
				// The pause holds this worker's slot, pacing each worker.
				if f.cfg.Delay > 0 {
					time.Sleep(f.cfg.Delay)
				}
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	out := make(map[string]Outcome, len(ids))
	done := 0
	for o := range results {
		done++
		out[o.ID] = o
		if !o.OK() {
			f.log.Warn("document fetch failed", "doc", o.ID, "error", o.Err)
		}
		if progress != nil {
			progress(done, len(ids), o)
		}
	}
	return out
}

func (f *Fetcher) fetchOne(ctx context.Context, id string) Outcome {
	start := time.Now()
	body, err := f.src.Document(ctx, id)
	d := time.Since(start)
	f.Stats.Record(d, err == nil)
	if err != nil {
		return Outcome{ID: id, Err: err, Duration: d}
	}
	return Outcome{ID: id, Body: body, Duration: d}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
