package services

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fanOut calls every handler and collects their results in registration
// order. At most limit calls run at once; a limit of zero means no bound.
// The first error cancels the remaining calls and is returned.
func fanOut[H, T any](ctx context.Context, limit int, handlers []H, call func(context.Context, H) (T, error)) ([]T, error) {
	results := make([]T, len(handlers))
	if len(handlers) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, h := range handlers {
		g.Go(func() error {
			r, err := call(gctx, h)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
