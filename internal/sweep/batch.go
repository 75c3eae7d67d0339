// Package sweep runs bulk checks over stored books in small parallel batches
// with a pause between batches, so upstream sites see a bounded request rate.
package sweep

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type Options struct {
	BatchSize int
	Delay     time.Duration
	// Progress is called from the sweeping goroutine after every batch.
	Progress func(done, total int)
}

func (o Options) withDefaults(batchSize int) Options {
	if o.BatchSize <= 0 {
		o.BatchSize = batchSize
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	return o
}

// runBatches calls work for every item. Items inside one batch run in
// parallel; work reports failures in its result so siblings are unaffected.
// A cancelled ctx stops the sweep before the next batch and the results
// gathered so far are returned with ctx's error.
func runBatches[T any, R any](ctx context.Context, items []T, opts Options, work func(context.Context, T) R) ([]R, error) {
	results := make([]R, 0, len(items))

	for start := 0; start < len(items); start += opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if start > 0 {
			if err := pause(ctx, opts.Delay); err != nil {
				return results, err
			}
		}

		end := min(start+opts.BatchSize, len(items))
		batch := make([]R, end-start)

		var group errgroup.Group
		for index, item := range items[start:end] {
			group.Go(func() error {
				batch[index] = work(ctx, item)
				return nil
			})
		}
		_ = group.Wait()

		results = append(results, batch...)
		if opts.Progress != nil {
			opts.Progress(len(results), len(items))
		}
	}

	return results, nil
}

func pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
