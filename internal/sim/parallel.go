package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/odestep/internal/dynamo"
)

// Ensemble integrates many initial states concurrently. Steppers keep
// private scratch buffers, so every run gets its own Simulator from the
// factory.
type Ensemble struct {
	newSim func() *Simulator
	limit  int
}

// NewEnsemble returns an ensemble running at most limit simulations at
// once; limit <= 0 means no limit.
func NewEnsemble(newSim func() *Simulator, limit int) *Ensemble {
	return &Ensemble{newSim: newSim, limit: limit}
}

func (e *Ensemble) Run(ctx context.Context, x0s []dynamo.State, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(x0s))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, x0 := range x0s {
		i, x0 := i, x0
		g.Go(func() error {
			res, err := e.newSim().Run(ctx, x0, cfg)
			if err != nil {
				return fmt.Errorf("ensemble run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
