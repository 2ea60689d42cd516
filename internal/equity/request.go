package equity

import (
	"errors"
	"fmt"

	"github.com/lox/holdem-equity/internal/deck"
)

// ErrUnavailable is returned whenever the engine cannot produce a
// sound estimate. The decision layer treats it as "no information" and
// falls back to non-probabilistic heuristics; nothing here is fatal.
var ErrUnavailable = errors.New("win probability unavailable")

// ErrInsufficientCards wraps ErrUnavailable for requests the unseen
// deck cannot satisfy.
var ErrInsufficientCards = fmt.Errorf("%w: insufficient cards", ErrUnavailable)

// Request is the per-decision snapshot the engine consumes. It carries
// only what the querying player legitimately knows: their own hole
// cards, the public board, and how many opponents are still contending.
// Opponents' actual cards are never part of a request; their hands are
// always sampled.
type Request struct {
	// Hole is the player's two private cards.
	Hole []deck.Card

	// Board is the public board so far (0, 3, 4 or 5 cards).
	Board []deck.Card

	// Opponents is the number of active contenders besides the player.
	Opponents int

	// Street is the current betting phase, which selects the default
	// trial budget.
	Street Street

	// Trials overrides the street budget when positive.
	Trials int
}

// Validate checks request shape. Card sufficiency against the unseen
// deck is the engine's job; this covers structure only.
func (r Request) Validate() error {
	if len(r.Hole) != 2 {
		return fmt.Errorf("%w: need 2 hole cards, have %d", ErrInsufficientCards, len(r.Hole))
	}
	switch len(r.Board) {
	case 0, 3, 4, 5:
	default:
		return fmt.Errorf("%w: board has %d cards", ErrUnavailable, len(r.Board))
	}
	if r.Opponents < 0 {
		return fmt.Errorf("%w: negative opponent count %d", ErrUnavailable, r.Opponents)
	}

	var seen deck.CardSet
	for _, c := range append(append([]deck.Card{}, r.Hole...), r.Board...) {
		if seen.Contains(c) {
			return fmt.Errorf("%w: duplicate card %s", ErrUnavailable, c.Code())
		}
		seen.Add(c)
	}
	return nil
}

// drawsNeeded is the number of unseen cards one trial consumes.
func (r Request) drawsNeeded() int {
	return (5 - len(r.Board)) + 2*r.Opponents
}

// Result is a win-probability estimate with its confidence interval.
// Prob is the probability of an outright win: a tie with the best
// opponent counts as a loss, not a half-win, because the downstream
// heuristics were tuned against that definition.
type Result struct {
	Prob   float64
	Lower  float64
	Upper  float64
	Margin float64

	// Trials actually completed (early exit may stop short of budget).
	Trials int
	Wins   int
	Ties   int
}

// String formats the result for logs and debug output.
func (r Result) String() string {
	return fmt.Sprintf("%.1f%% ±%.1f%% (%d trials)", r.Prob*100, r.Margin*100, r.Trials)
}
