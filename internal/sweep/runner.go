package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"gbmsynth/internal/gbm"
	"gbmsynth/internal/metrics"
)

// Sink consumes the paths of one combination.
type Sink interface {
	Write(c Combination, paths *gbm.Paths) error
}

type Runner struct {
	Sink     Sink
	BaseSeed int64
	Metrics  *metrics.Metrics
}

// Run simulates every combination of g in order and hands the result to the
// sink. It stops between combinations when ctx is done and returns the number
// of combinations completed.
func (r *Runner) Run(ctx context.Context, g Grid) (int, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}

	combos := g.Combinations(r.BaseSeed)
	done := 0
	for _, c := range combos {
		if err := ctx.Err(); err != nil {
			return done, fmt.Errorf("sweep interrupted after %d of %d: %w", done, len(combos), err)
		}

		start := time.Now()
		paths, err := gbm.SimulateSeed(c.Params, c.Seed)
		if err != nil {
			return done, fmt.Errorf("combination %d: %w", c.ID, err)
		}
		elapsed := time.Since(start)

		if err := r.Sink.Write(c, paths); err != nil {
			return done, fmt.Errorf("combination %d: %w", c.ID, err)
		}
		done++

		if r.Metrics != nil {
			r.Metrics.Combinations.Inc()
			r.Metrics.Paths.Add(float64(c.Params.M))
			r.Metrics.SimulationTime.Observe(elapsed.Seconds())
		}

		log.Info().
			Int("id", c.ID).
			Int("n", c.Params.N).
			Int("M", c.Params.M).
			Float64("mu", c.Params.Mu).
			Float64("sigma", c.Params.Sigma).
			Int64("seed", c.Seed).
			Dur("took", elapsed).
			Msgf("combination %d/%d done", done, len(combos))
	}
	return done, nil
}
