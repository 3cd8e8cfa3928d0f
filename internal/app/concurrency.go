package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Parallel2 runs two calls concurrently and returns both results or the
// first error, unwrapped. The shared context is cancelled as soon as one
// call fails.
func Parallel2[T1, T2 any](
	ctx context.Context,
	fn1 func(context.Context) (T1, error),
	fn2 func(context.Context) (T2, error),
) (result1 T1, result2 T2, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var fnErr error
		result1, fnErr = fn1(ctx)

		return fnErr
	})

	g.Go(func() error {
		var fnErr error
		result2, fnErr = fn2(ctx)

		return fnErr
	})

	if err = g.Wait(); err != nil {
		var (
			zero1 T1
			zero2 T2
		)

		return zero1, zero2, err
	}

	return result1, result2, nil
}

// ParallelLimit runs fns with at most limit in flight; a limit below one means
// no limit. Results keep the order of fns.
func ParallelLimit[T any](ctx context.Context, limit int, fns ...func(context.Context) (T, error)) ([]T, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	results := make([]T, len(fns))

	for i, fn := range fns {
		g.Go(func() error {
			result, err := fn(ctx)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
