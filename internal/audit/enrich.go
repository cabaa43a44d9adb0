package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/younsl/volcost/internal/models"
)

// Coordinator attaches a previous month cost to every volume.
// One volume's failed lookup never affects the others.
type Coordinator struct {
	lookup        CostLookup
	concurrency   int
	lookupTimeout time.Duration
	logger        zerolog.Logger
}

// CoordinatorOption configures a Coordinator
type CoordinatorOption func(*Coordinator)

// WithConcurrency sets how many lookups may be in flight. Values below 2 keep lookups sequential.
func WithConcurrency(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n < 1 {
			n = 1
		}
		c.concurrency = n
	}
}

// WithLookupTimeout bounds each individual cost lookup. Zero disables the bound.
func WithLookupTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.lookupTimeout = d
	}
}

// NewCoordinator creates a Coordinator that runs lookups sequentially unless configured otherwise.
func NewCoordinator(lookup CostLookup, logger zerolog.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		lookup:      lookup,
		concurrency: 1,
		logger:      logger.With().Str("component", "coordinator").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enrich resolves the cost of each volume and returns the volumes with Cost set,
// together with the per-volume outcomes. Both slices follow the input order.
func (c *Coordinator) Enrich(ctx context.Context, volumes []models.Volume) ([]models.Volume, []models.CostResult) {
	results := make([]models.CostResult, len(volumes))

	if c.concurrency <= 1 || len(volumes) <= 1 {
		for i, volume := range volumes {
			results[i] = c.resolve(ctx, volume)
		}
	} else {
		c.resolveParallel(ctx, volumes, results)
	}

	enriched := make([]models.Volume, len(volumes))
	for i, volume := range volumes {
		volume.Cost = results[i].Cost
		volume.CostErr = results[i].Err
		enriched[i] = volume
	}
	return enriched, results
}

// resolveParallel fans lookups out to a fixed pool of workers. Each worker
// writes only its own result slot.
func (c *Coordinator) resolveParallel(ctx context.Context, volumes []models.Volume, results []models.CostResult) {
	jobs := make(chan int)

	workers := c.concurrency
	if workers > len(volumes) {
		workers = len(volumes)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = c.resolve(ctx, volumes[idx])
			}
		}()
	}

	for i := range volumes {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
}

// resolve performs one lookup and turns any failure into a zero-cost result
func (c *Coordinator) resolve(ctx context.Context, volume models.Volume) models.CostResult {
	lookupCtx := ctx
	if c.lookupTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, c.lookupTimeout)
		defer cancel()
	}

	cost, err := c.lookup.PreviousMonthCost(lookupCtx, volume.CRN)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("volume_id", volume.ID).
			Str("resource_id", volume.CRN).
			Msg("cost lookup failed, using 0")
		return models.CostResult{VolumeID: volume.ID, Cost: 0, Err: err}
	}

	c.logger.Debug().
		Str("volume_id", volume.ID).
		Float64("cost", cost).
		Msg("resolved previous month cost")

	return models.CostResult{VolumeID: volume.ID, Cost: cost}
}
