// Package enrich fills vocabulary records with word information using a
// bounded pool of concurrent lookups.
package enrich

import (
	"context"
	"sync/atomic"

	"codeberg.org/snonux/storysnippet/internal/vocab"
	"codeberg.org/snonux/storysnippet/internal/worker"
)

// DefaultConcurrency is the number of lookups in flight at once
const DefaultConcurrency = 5

// Enricher describes one word. Implementations swallow their own lookup
// failures and return an empty WordInfo instead.
type Enricher interface {
	EnrichWord(ctx context.Context, word string) vocab.WordInfo
}

// Reporter receives progress as records complete. Methods are called from
// worker goroutines and must be safe for concurrent use.
type Reporter interface {
	// Start is called once before any record is enriched
	Start(total int)
	// Done is called after every record, failed or not
	Done(completed, total int, word string)
	// Failed is called when enriching word broke the Enricher contract
	Failed(word string, err error)
}

// Config configures a Filler
type Config struct {
	// Concurrency bounds simultaneous lookups, DefaultConcurrency if zero
	Concurrency int

	// SkipEnriched leaves records that already have an English definition
	// alone, so a partially filled words.json can be resumed
	SkipEnriched bool

	// Limiter throttles lookups, nil means unlimited
	Limiter *worker.Limiter

	// Reporter receives progress, nil discards it
	Reporter Reporter
}

// Stats summarises a FillAll run
type Stats struct {
	Total    int
	Enriched int
	Empty    int
	Skipped  int
	Failed   int
}

// Filler runs an Enricher over vocabulary records
type Filler struct {
	enricher     Enricher
	concurrency  int
	skipEnriched bool
	limiter      *worker.Limiter
	reporter     Reporter
}

// NewFiller creates a new Filler
func NewFiller(enricher Enricher, cfg Config) *Filler {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Reporter == nil {
		cfg.Reporter = nopReporter{}
	}

	return &Filler{
		enricher:     enricher,
		concurrency:  cfg.Concurrency,
		skipEnriched: cfg.SkipEnriched,
		limiter:      cfg.Limiter,
		reporter:     cfg.Reporter,
	}
}

// FillAll enriches records in place and returns them. Every record is
// handled by exactly one task; tasks complete in any order. A task that
// panics or whose context ends leaves its record with empty fields and is
// reported through Reporter.Failed.
func (f *Filler) FillAll(ctx context.Context, records []vocab.Record) ([]vocab.Record, Stats) {
	stats := Stats{Total: len(records)}

	pending := make([]int, 0, len(records))
	for i := range records {
		if f.skipEnriched && records[i].Enriched() {
			stats.Skipped++
			continue
		}
		pending = append(pending, i)
	}

	total := len(pending)
	f.reporter.Start(total)
	if total == 0 {
		return records, stats
	}

	var completed, enriched, empty atomic.Int64
	handled := make([]bool, total)

	pool := worker.NewPool(f.concurrency)
	pool.Start(ctx)

	for n, i := range pending {
		n, record := n, &records[i]

		task := func(ctx context.Context) error {
			handled[n] = true
			err := worker.Safe(func() error { return f.fill(ctx, record) })
			switch {
			case err != nil:
				f.reporter.Failed(record.Word, err)
			case record.Enriched():
				enriched.Add(1)
			default:
				empty.Add(1)
			}
			f.reporter.Done(int(completed.Add(1)), total, record.Word)
			return err
		}

		if err := pool.Submit(ctx, task); err != nil {
			break
		}
	}

	pool.Close()

	// tasks still queued when ctx ended never ran
	for n, i := range pending {
		if handled[n] {
			continue
		}
		err := context.Cause(ctx)
		if err == nil {
			err = worker.ErrPoolClosed
		}
		f.reporter.Failed(records[i].Word, err)
	}

	stats.Enriched = int(enriched.Load())
	stats.Empty = int(empty.Load())
	stats.Failed = pool.Failed() + total - pool.Completed()
	return records, stats
}

func (f *Filler) fill(ctx context.Context, record *vocab.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	info := f.enricher.EnrichWord(ctx, record.Word)
	record.Apply(info)
	return nil
}

type nopReporter struct{}

func (nopReporter) Start(int)             {}
func (nopReporter) Done(int, int, string) {}
func (nopReporter) Failed(string, error)  {}
