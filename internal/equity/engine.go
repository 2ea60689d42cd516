// Package equity estimates the probability of winning a partially
// revealed hold'em hand by Monte Carlo simulation over the unseen
// portion of the deck.
package equity

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-equity/internal/deck"
	"github.com/lox/holdem-equity/internal/evaluator"
	"github.com/lox/holdem-equity/internal/randutil"
	"github.com/lox/holdem-equity/internal/statistics"
)

// Observer is an optional hook invoked with the running totals at
// periodic trial boundaries (sequential path) or after each merged
// batch (parallel path). It replaces inline debug logging in the
// simulation loop; nil means no observation.
type Observer func(trials, wins int)

// Config tunes an Engine. The zero value is usable; every field has a
// default applied by New.
type Config struct {
	// Logger receives construction and fallback events only, never
	// per-trial output.
	Logger *log.Logger

	// Ranker is the hand-ranking capability. Defaults to the real
	// evaluator; pass evaluator.UnavailableRanker to model a missing
	// evaluator.
	Ranker evaluator.Ranker

	// Clock drives the parallel-path timeout. Defaults to the real
	// clock; tests inject quartz.NewMock.
	Clock quartz.Clock

	// Seed makes every call reproducible when non-zero. Zero seeds
	// each call from the clock.
	Seed int64

	// Workers above 1 enables the concurrent batch dispatcher.
	Workers int

	// BatchSize is the number of trials per dispatched batch.
	BatchSize int

	// CheckEvery is the sequential path's early-exit check interval.
	CheckEvery int

	// MinTrials gates early exit in both paths.
	MinTrials int

	// TargetMargin is the half-width at which sampling may stop early.
	TargetMargin float64

	// Confidence selects the reported interval's level (0.90, 0.95
	// or 0.99).
	Confidence float64

	// Budgets are the per-street default trial counts.
	Budgets Budgets

	// Timeout bounds the parallel fan-out. The sequential path is
	// bounded by its trial budget.
	Timeout time.Duration

	Observer Observer
}

// Engine runs win-probability simulations. It owns no mutable state
// across calls; a single Engine is safe for concurrent use.
type Engine struct {
	logger       *log.Logger
	ranker       evaluator.Ranker
	clock        quartz.Clock
	seed         int64
	workers      int
	batchSize    int
	checkEvery   int
	minTrials    int
	targetMargin float64
	z            float64
	budgets      Budgets
	timeout      time.Duration
	observer     Observer

	// seam for dispatcher failure tests
	parallel func(ctx context.Context, sim *simulation, budget int, seed int64) (statistics.Counts, error)
}

// New creates an engine, applying defaults for unset config fields.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Ranker == nil {
		cfg.Ranker = evaluator.RealRanker{}
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 250
	}
	if cfg.CheckEvery <= 0 {
		cfg.CheckEvery = 50
	}
	if cfg.MinTrials <= 0 {
		cfg.MinTrials = 500
	}
	if cfg.TargetMargin <= 0 {
		cfg.TargetMargin = 0.02
	}
	if !statistics.SupportedConfidence(cfg.Confidence) {
		cfg.Confidence = 0.95
	}
	if cfg.Budgets == (Budgets{}) {
		cfg.Budgets = DefaultBudgets
	} else if err := cfg.Budgets.Validate(); err != nil {
		cfg.Logger.Warn("invalid trial budgets, using defaults", "error", err)
		cfg.Budgets = DefaultBudgets
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	e := &Engine{
		logger:       cfg.Logger.WithPrefix("equity"),
		ranker:       cfg.Ranker,
		clock:        cfg.Clock,
		seed:         cfg.Seed,
		workers:      cfg.Workers,
		batchSize:    cfg.BatchSize,
		checkEvery:   cfg.CheckEvery,
		minTrials:    cfg.MinTrials,
		targetMargin: cfg.TargetMargin,
		z:            statistics.ZForConfidence(cfg.Confidence),
		budgets:      cfg.Budgets,
		timeout:      cfg.Timeout,
		observer:     cfg.Observer,
	}
	e.parallel = e.dispatchBatches
	return e
}

// simulation is the immutable per-call snapshot shared by trials.
// Batches copy the unseen slice before shuffling, so the snapshot
// itself is never mutated.
type simulation struct {
	hole      []deck.Card
	board     []deck.Card
	opponents int
	unseen    []deck.Card
	need      int
	boardNeed int
	ranker    evaluator.Ranker
}

// WinProbability estimates the probability that the requesting player
// wins the hand outright against req.Opponents randomly sampled hands.
// All failures surface as errors wrapping ErrUnavailable; the engine
// never panics through this boundary.
func (e *Engine) WinProbability(ctx context.Context, req Request) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("simulation panicked", "panic", r)
			res, err = Result{}, fmt.Errorf("%w: %v", ErrUnavailable, r)
		}
	}()

	// Sole survivor: the pot is already won, no sampling needed.
	if req.Opponents <= 0 {
		return Result{Prob: 1, Lower: 1, Upper: 1}, nil
	}

	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	known := make([]deck.Card, 0, len(req.Hole)+len(req.Board))
	known = append(known, req.Hole...)
	known = append(known, req.Board...)
	unseen := deck.Unseen(known)

	if need := req.drawsNeeded(); need > len(unseen) {
		return Result{}, fmt.Errorf("%w: trial needs %d cards, %d unseen", ErrInsufficientCards, need, len(unseen))
	}

	// Probe once so a missing evaluator is reported as unavailable
	// instead of silently scoring every trial a loss.
	if e.ranker.Evaluate(req.Hole, req.Board) == evaluator.RankUnknown {
		return Result{}, fmt.Errorf("%w: no hand evaluator", ErrUnavailable)
	}

	budget := req.Trials
	if budget <= 0 {
		budget = e.budgets.For(req.Street)
	}

	sim := &simulation{
		hole:      req.Hole,
		board:     req.Board,
		opponents: req.Opponents,
		unseen:    unseen,
		need:      req.drawsNeeded(),
		boardNeed: 5 - len(req.Board),
		ranker:    e.ranker,
	}

	seed := e.seed
	if seed == 0 {
		seed = e.clock.Now().UnixNano()
	}

	var counts statistics.Counts
	if e.workers > 1 && budget >= 2*e.batchSize {
		merged, err := e.parallel(ctx, sim, budget, seed)
		if err != nil {
			e.logger.Warn("parallel simulation failed, falling back to sequential", "error", err)
			counts = e.runSequential(ctx, sim, budget, randutil.New(seed))
		} else {
			counts = merged
		}
	} else {
		counts = e.runSequential(ctx, sim, budget, randutil.New(seed))
	}

	if counts.Trials == 0 {
		return Result{}, fmt.Errorf("%w: no trials completed", ErrUnavailable)
	}

	p, margin, lower, upper := statistics.Interval(counts.Wins, counts.Trials, e.z)
	return Result{
		Prob:   p,
		Lower:  lower,
		Upper:  upper,
		Margin: margin,
		Trials: counts.Trials,
		Wins:   counts.Wins,
		Ties:   counts.Ties,
	}, nil
}

// runSequential runs trials single-threaded with a periodic early-exit
// check. Cancellation is honoured at check boundaries; whatever trials
// completed still produce a best-effort estimate.
func (e *Engine) runSequential(ctx context.Context, sim *simulation, budget int, rng *rand.Rand) statistics.Counts {
	var counts statistics.Counts

	cards := append([]deck.Card(nil), sim.unseen...)
	finalBoard := make([]deck.Card, 5)
	copy(finalBoard, sim.board)

	for i := 0; i < budget; i++ {
		win, tie := sim.runTrial(cards, finalBoard, rng)
		counts.Add(win, tie)

		if counts.Trials%e.checkEvery == 0 {
			if e.observer != nil {
				e.observer(counts.Trials, counts.Wins)
			}
			if ctx.Err() != nil {
				break
			}
			if statistics.ShouldStop(counts.Wins, counts.Trials, e.minTrials, e.targetMargin) {
				break
			}
		}
	}
	return counts
}

// runTrial draws one randomized completion and scores it. cards is a
// scratch copy of the unseen deck; finalBoard is a 5-card scratch with
// the revealed prefix already in place. Both are reused across trials.
func (s *simulation) runTrial(cards, finalBoard []deck.Card, rng *rand.Rand) (win, tie bool) {
	// Partial Fisher-Yates: the first `need` positions become a
	// uniform draw without replacement.
	for i := 0; i < s.need; i++ {
		j := i + rng.IntN(len(cards)-i)
		cards[i], cards[j] = cards[j], cards[i]
	}

	copy(finalBoard[len(s.board):], cards[:s.boardNeed])

	playerRank := s.ranker.Evaluate(s.hole, finalBoard)

	// Remaining draws pair off to opponents in encounter order.
	beaten, tied := false, false
	for opp := 0; opp < s.opponents && !beaten; opp++ {
		oppHole := cards[s.boardNeed+2*opp : s.boardNeed+2*opp+2]
		switch playerRank.Compare(s.ranker.Evaluate(oppHole, finalBoard)) {
		case -1:
			beaten = true
		case 0:
			tied = true
		}
	}

	// Outright win only: a tie with the best opponent is a loss.
	return !beaten && !tied, !beaten && tied
}
