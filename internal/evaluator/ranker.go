package evaluator

import "github.com/lox/holdem-equity/internal/deck"

// Ranker is the hand-ranking capability consumed by the equity engine.
// Callers depend on the interface only; whether a real evaluator exists
// is decided once at construction, never re-checked at runtime.
type Ranker interface {
	Evaluate(hole, board []deck.Card) HandRank
}

// RealRanker evaluates hands with the bitmask evaluator.
type RealRanker struct{}

func (RealRanker) Evaluate(hole, board []deck.Card) HandRank {
	return Evaluate(hole, board)
}

// UnavailableRanker is the stub used when no hand-ranking capability
// can be constructed. Every evaluation returns RankUnknown, which the
// engine surfaces as an unavailable result instead of a fabricated
// probability.
type UnavailableRanker struct{}

func (UnavailableRanker) Evaluate(hole, board []deck.Card) HandRank {
	return RankUnknown
}
