package equity

import (
	"context"
	"fmt"
	rand "math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-equity/internal/deck"
	"github.com/lox/holdem-equity/internal/randutil"
	"github.com/lox/holdem-equity/internal/statistics"
)

// dispatchBatches splits a trial budget into fixed-size batches and
// runs them across the worker pool. Batches share no mutable state:
// each gets its own copy of the unseen deck and an independently
// seeded generator, and returns only its counts. The collector is the
// single writer of the aggregate; once the stopping criterion holds,
// outstanding batches are cancelled and any stragglers are discarded
// so trial accounting stays exact.
func (e *Engine) dispatchBatches(ctx context.Context, sim *simulation, budget int, seed int64) (statistics.Counts, error) {
	numBatches := (budget + e.batchSize - 1) / e.batchSize

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := e.clock.AfterFunc(e.timeout, cancel)
	defer timer.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	// Buffered to numBatches so a worker can always deliver and exit.
	results := make(chan statistics.Counts, numBatches)

	// Schedule from a separate goroutine: SetLimit makes Go block
	// until a worker slot frees, and the collector must be receiving
	// by then so early termination can actually cancel pending work.
	done := make(chan error, 1)
	go func() {
		for b := 0; b < numBatches; b++ {
			size := e.batchSize
			if b == numBatches-1 {
				size = budget - b*e.batchSize
			}
			rng := randutil.Derive(seed, uint64(b)+1)

			g.Go(func() error {
				if gctx.Err() != nil {
					return nil // cancelled before starting, not a failure
				}
				counts, err := runBatch(sim, size, rng)
				if err != nil {
					return err
				}
				results <- counts
				return nil
			})
		}
		done <- g.Wait()
	}()

	var total statistics.Counts
	completed := 0
	stopped := false

	for {
		select {
		case counts := <-results:
			if stopped {
				continue // late result, discard
			}
			total.Merge(counts)
			completed++
			if e.observer != nil {
				e.observer(total.Trials, total.Wins)
			}
			if completed >= 2 && statistics.ShouldStop(total.Wins, total.Trials, e.minTrials, e.targetMargin) {
				stopped = true
				cancel()
			}

		case err := <-done:
			if !stopped {
				// Workers may have delivered between our last receive
				// and g.Wait returning; merge what's buffered.
				for drained := false; !drained; {
					select {
					case counts := <-results:
						total.Merge(counts)
						completed++
					default:
						drained = true
					}
				}
				if err != nil {
					return statistics.Counts{}, fmt.Errorf("batch dispatch: %w", err)
				}
			}
			if total.Trials == 0 {
				return statistics.Counts{}, fmt.Errorf("%w: no batches completed", ErrUnavailable)
			}
			return total, nil
		}
	}
}

// runBatch executes one batch's trials against a private copy of the
// unseen deck. A panic anywhere in the batch (a broken Ranker, say)
// converts to an error so the dispatcher can fall back instead of
// crashing the host.
func runBatch(sim *simulation, n int, rng *rand.Rand) (counts statistics.Counts, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("simulation batch panicked: %v", r)
		}
	}()

	cards := append([]deck.Card(nil), sim.unseen...)
	finalBoard := make([]deck.Card, 5)
	copy(finalBoard, sim.board)

	for i := 0; i < n; i++ {
		win, tie := sim.runTrial(cards, finalBoard, rng)
		counts.Add(win, tie)
	}
	return counts, nil
}
