// Package evaluator ranks poker hands. A hand of 2 hole cards plus
// 0, 3, 4 or 5 board cards maps to a HandRank integer where lower is
// strictly stronger; equal ranks are exact ties. The encoding packs
// the hand category into the high bits and rank tiebreaks into 4-bit
// nibbles below it, so integer comparison is the total order.
package evaluator

import (
	"math/bits"

	"github.com/lox/holdem-equity/internal/deck"
)

// Hand category constants (lower number = stronger hand)
const (
	RoyalFlushType    = 1
	StraightFlushType = 2
	FourOfAKindType   = 3
	FullHouseType     = 4
	FlushType         = 5
	StraightType      = 6
	ThreeOfAKindType  = 7
	TwoPairType       = 8
	OnePairType       = 9
	HighCardType      = 10
)

// HandRank represents a poker hand ranking with embedded tiebreak score
type HandRank int

// RankUnknown is the reserved sentinel for an unevaluable input.
// It compares as worse than every real hand.
const RankUnknown HandRank = (HighCardType + 1) << 20

// Compare returns 1 if h is stronger, -1 if other is stronger, 0 if equal
func (h HandRank) Compare(other HandRank) int {
	if h < other {
		return 1 // Lower score = stronger hand
	} else if h > other {
		return -1
	}
	return 0
}

// Type returns the hand category constant (RoyalFlushType..HighCardType)
func (h HandRank) Type() int {
	return int(h) >> 20
}

// String returns the readable name of the hand
func (h HandRank) String() string {
	switch h.Type() {
	case RoyalFlushType:
		return "Royal Flush"
	case StraightFlushType:
		return "Straight Flush"
	case FourOfAKindType:
		return "Four of a Kind"
	case FullHouseType:
		return "Full House"
	case FlushType:
		return "Flush"
	case StraightType:
		return "Straight"
	case ThreeOfAKindType:
		return "Three of a Kind"
	case TwoPairType:
		return "Two Pair"
	case OnePairType:
		return "One Pair"
	case HighCardType:
		return "High Card"
	default:
		return "Unknown"
	}
}

// Tier is a coarse strength band used by decision heuristics.
type Tier int

const (
	TierExcellent Tier = iota
	TierGood
	TierFair
	TierPoor
)

// String returns the tier name
func (t Tier) String() string {
	switch t {
	case TierExcellent:
		return "Excellent"
	case TierGood:
		return "Good"
	case TierFair:
		return "Fair"
	case TierPoor:
		return "Poor"
	default:
		return "Unknown"
	}
}

// tierBoundaries mark the exclusive upper bound of each tier, monotonic
// with score. Anything at or past the last boundary is Poor.
var tierBoundaries = [...]struct {
	limit HandRank
	tier  Tier
}{
	{FlushType << 20, TierExcellent},   // royal flush .. full house
	{TwoPairType << 20, TierGood},      // flush, straight, three of a kind
	{HighCardType << 20, TierFair},     // two pair, one pair
}

// Tier maps the rank into one of four fixed strength bands
func (h HandRank) Tier() Tier {
	for _, b := range tierBoundaries {
		if h < b.limit {
			return b.tier
		}
	}
	return TierPoor
}

// nib encodes a rank as a 4-bit tiebreak nibble where a higher rank
// produces a smaller nibble, preserving lower-is-stronger ordering.
func nib(r deck.Rank) HandRank {
	return HandRank(15 - int(r))
}

// pack folds up to five tiebreak ranks into 20 bits, most significant
// first. Missing trailing kickers encode as zero.
func pack(ranks ...deck.Rank) HandRank {
	var packed HandRank
	shift := 16
	for _, r := range ranks {
		packed |= nib(r) << shift
		shift -= 4
	}
	return packed
}

// Evaluate scores 2 hole cards against 0, 3, 4 or 5 board cards.
// Any other shape, or a duplicated card, returns RankUnknown rather
// than an error: the sampling loop treats it as the worst possible
// hand and the engine's pre-flight checks surface the real failure.
// Card order within hole or board never affects the result.
func Evaluate(hole, board []deck.Card) HandRank {
	if len(hole) != 2 {
		return RankUnknown
	}
	switch len(board) {
	case 0, 3, 4, 5:
	default:
		return RankUnknown
	}

	var seen deck.CardSet
	var suitMasks [4]uint16
	var rankCounts [15]int

	for _, cards := range [2][]deck.Card{hole, board} {
		for _, card := range cards {
			if seen.Contains(card) {
				return RankUnknown
			}
			seen.Add(card)
			suitMasks[card.Suit] |= 1 << (card.Rank - deck.Two)
			rankCounts[card.Rank]++
		}
	}

	return evaluateMasks(suitMasks, rankCounts)
}

func evaluateMasks(suitMasks [4]uint16, rankCounts [15]int) HandRank {
	rankMask := suitMasks[0] | suitMasks[1] | suitMasks[2] | suitMasks[3]

	// Flush: at most one suit can hold five or more of seven cards
	flushSuit := -1
	for i, mask := range suitMasks {
		if bits.OnesCount16(mask) >= 5 {
			flushSuit = i
			break
		}
	}

	if flushSuit >= 0 {
		if high := straightHigh(suitMasks[flushSuit]); high != 0 {
			if high == deck.Ace {
				return RoyalFlushType << 20
			}
			return StraightFlushType<<20 | pack(high)
		}
	}

	// Rank multiplicities
	var quad, trip, secondTrip, highPair, lowPair deck.Rank
	pairs := 0
	for r := deck.Ace; r >= deck.Two; r-- {
		switch rankCounts[r] {
		case 4:
			quad = r
		case 3:
			if trip == 0 {
				trip = r
			} else if secondTrip == 0 {
				secondTrip = r
			}
		case 2:
			pairs++
			if highPair == 0 {
				highPair = r
			} else if lowPair == 0 {
				lowPair = r
			}
		}
	}

	if quad != 0 {
		kicker := highestExcluding(rankMask, quad)
		return FourOfAKindType<<20 | pack(quad, kicker)
	}

	if trip != 0 && (pairs > 0 || secondTrip != 0) {
		pairRank := highPair
		if secondTrip != 0 && secondTrip > pairRank {
			pairRank = secondTrip
		}
		return FullHouseType<<20 | pack(trip, pairRank)
	}

	if flushSuit >= 0 {
		return FlushType<<20 | pack(topRanks(suitMasks[flushSuit], 5)...)
	}

	if high := straightHigh(rankMask); high != 0 {
		return StraightType<<20 | pack(high)
	}

	if trip != 0 {
		kickers := topRanksExcluding(rankMask, 2, trip, 0)
		return ThreeOfAKindType<<20 | pack(append([]deck.Rank{trip}, kickers...)...)
	}

	if pairs >= 2 {
		kickers := topRanksExcluding(rankMask, 1, highPair, lowPair)
		return TwoPairType<<20 | pack(append([]deck.Rank{highPair, lowPair}, kickers...)...)
	}

	if pairs == 1 {
		kickers := topRanksExcluding(rankMask, 3, highPair, 0)
		return OnePairType<<20 | pack(append([]deck.Rank{highPair}, kickers...)...)
	}

	return HighCardType<<20 | pack(topRanks(rankMask, 5)...)
}

// straightHigh returns the high rank of the best straight in the rank
// mask, or 0 if there is none. The wheel (A-2-3-4-5) reports Five.
func straightHigh(rankMask uint16) deck.Rank {
	// A-K-Q-J-T occupies bits 8-12; slide the window down from there
	window := uint16(0x1F00)
	for i := 0; i <= 8; i++ {
		if rankMask&window == window {
			return deck.Ace - deck.Rank(i)
		}
		window >>= 1
	}

	// Wheel: A,2,3,4,5
	if rankMask&0x100F == 0x100F {
		return deck.Five
	}
	return 0
}

// topRanks returns the highest n ranks present in the mask, descending.
func topRanks(rankMask uint16, n int) []deck.Rank {
	ranks := make([]deck.Rank, 0, n)
	for r := deck.Ace; r >= deck.Two && len(ranks) < n; r-- {
		if rankMask&(1<<(r-deck.Two)) != 0 {
			ranks = append(ranks, r)
		}
	}
	return ranks
}

// topRanksExcluding returns the highest n ranks present in the mask
// that are not one of the two excluded ranks, descending.
func topRanksExcluding(rankMask uint16, n int, skip1, skip2 deck.Rank) []deck.Rank {
	ranks := make([]deck.Rank, 0, n)
	for r := deck.Ace; r >= deck.Two && len(ranks) < n; r-- {
		if r == skip1 || r == skip2 {
			continue
		}
		if rankMask&(1<<(r-deck.Two)) != 0 {
			ranks = append(ranks, r)
		}
	}
	return ranks
}

// highestExcluding returns the highest rank in the mask other than skip.
func highestExcluding(rankMask uint16, skip deck.Rank) deck.Rank {
	for r := deck.Ace; r >= deck.Two; r-- {
		if r != skip && rankMask&(1<<(r-deck.Two)) != 0 {
			return r
		}
	}
	return 0
}
