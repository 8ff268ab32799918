package law

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fanOut runs fn for every input concurrently and returns the results in
// input order, whatever order they complete in. The first error cancels the
// others. limit <= 0 means unbounded.
func fanOut[In, Out any](ctx context.Context, inputs []In, limit int, fn func(ctx context.Context, in In) (Out, error)) ([]Out, error) {
	results := make([]Out, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, in := range inputs {
		g.Go(func() error {
			out, err := fn(gctx, in)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
