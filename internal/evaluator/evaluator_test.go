package evaluator

import (
	"math/rand/v2"
	"testing"

	"github.com/lox/holdem-equity/internal/deck"
)

func evalCards(t *testing.T, hole, board string) HandRank {
	t.Helper()
	return Evaluate(deck.MustParseCards(hole), deck.MustParseCards(board))
}

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		name     string
		hole     string
		board    string
		expected int
	}{
		{
			name:     "Royal Flush",
			hole:     "SASK",
			board:    "SQSJSTH9H8",
			expected: RoyalFlushType,
		},
		{
			name:     "Straight Flush",
			hole:     "S9S8",
			board:    "S7S6S5H4H3",
			expected: StraightFlushType,
		},
		{
			name:     "Wheel Straight Flush",
			hole:     "SAS2",
			board:    "S3S4S5HKHQ",
			expected: StraightFlushType,
		},
		{
			name:     "Four of a Kind",
			hole:     "SAHA",
			board:    "DACASKH2H3",
			expected: FourOfAKindType,
		},
		{
			name:     "Full House",
			hole:     "SAHA",
			board:    "DASKHKH2H3",
			expected: FullHouseType,
		},
		{
			name:     "Flush",
			hole:     "SASK",
			board:    "SQS8S6H4H3",
			expected: FlushType,
		},
		{
			name:     "Straight",
			hole:     "SAHK",
			board:    "DQCJSTH9H8",
			expected: StraightType,
		},
		{
			name:     "Wheel Straight",
			hole:     "SAH2",
			board:    "D3C4S5HKHQ",
			expected: StraightType,
		},
		{
			name:     "Three of a Kind",
			hole:     "SAHA",
			board:    "DASKC9H7H5",
			expected: ThreeOfAKindType,
		},
		{
			name:     "Two Pair",
			hole:     "SAHA",
			board:    "DKSKC9H7H5",
			expected: TwoPairType,
		},
		{
			name:     "One Pair",
			hole:     "SAHA",
			board:    "DKSQC9H7H5",
			expected: OnePairType,
		},
		{
			name:     "High Card",
			hole:     "SAHK",
			board:    "DQS9C7H5H3",
			expected: HighCardType,
		},
		{
			name:     "Pocket Pair Preflop",
			hole:     "SAHA",
			board:    "",
			expected: OnePairType,
		},
		{
			name:     "High Card Preflop",
			hole:     "SAHK",
			board:    "",
			expected: HighCardType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := evalCards(t, tt.hole, tt.board)
			if result.Type() != tt.expected {
				t.Errorf("Expected hand type %d, got %d (%s)", tt.expected, result.Type(), result)
			}
		})
	}
}

func TestEvaluateOrdering(t *testing.T) {
	tests := []struct {
		name             string
		strongHole       string
		weakHole         string
		board            string
	}{
		{
			name:       "aces beat kings on dry board",
			strongHole: "SAHA",
			weakHole:   "SKHK",
			board:      "D2C7HJS9DQ",
		},
		{
			name:       "higher kicker wins with shared pair",
			strongHole: "SAHQ",
			weakHole:   "HAD9",
			board:      "DACKC7H4S2",
		},
		{
			name:       "ace-high straight beats king-high straight",
			strongHole: "SAH9",
			weakHole:   "D9C9",
			board:      "DKCQHJSTH2",
		},
		{
			name:       "wheel straight loses to six-high straight",
			strongHole: "S6H9",
			weakHole:   "SAH8",
			board:      "D2C3H4S5DJ",
		},
		{
			name:       "flush kicker decides",
			strongHole: "SASK",
			weakHole:   "SQSJ",
			board:      "S2S7S9HKDA",
		},
		{
			name:       "bigger full house wins",
			strongHole: "SAHA",
			weakHole:   "SKHK",
			board:      "DACKH2D2C5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strong := evalCards(t, tt.strongHole, tt.board)
			weak := evalCards(t, tt.weakHole, tt.board)

			if strong.Compare(weak) != 1 {
				t.Errorf("Compare(strong=%v, weak=%v) = %d, want 1", strong, weak, strong.Compare(weak))
			}
			if weak.Compare(strong) != -1 {
				t.Errorf("Compare(weak=%v, strong=%v) = %d, want -1", weak, strong, weak.Compare(strong))
			}
		})
	}
}

func TestEvaluateTies(t *testing.T) {
	// Board plays for both: the made straight uses only community cards
	board := "DKCQHJSTD9"
	a := evalCards(t, "S2H3", board)
	b := evalCards(t, "C2D3", board)

	if a.Compare(b) != 0 {
		t.Errorf("identical board-play hands should tie, got Compare = %d", a.Compare(b))
	}
	if a != b {
		t.Errorf("tie must be score equality: %d vs %d", a, b)
	}
}

func TestEvaluateOrderIndependent(t *testing.T) {
	hole := deck.MustParseCards("SAHK")
	board := deck.MustParseCards("DQS9C7H5H3")
	want := Evaluate(hole, board)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		rng.Shuffle(len(hole), func(a, b int) { hole[a], hole[b] = hole[b], hole[a] })
		rng.Shuffle(len(board), func(a, b int) { board[a], board[b] = board[b], board[a] })
		if got := Evaluate(hole, board); got != want {
			t.Fatalf("evaluation depends on card order: %d vs %d", got, want)
		}
	}
}

func TestEvaluateInvalidInputs(t *testing.T) {
	tests := []struct {
		name  string
		hole  string
		board string
	}{
		{"no hole cards", "", ""},
		{"one hole card", "SA", ""},
		{"three hole cards", "SASKHQ", ""},
		{"two board cards", "SASK", "H2D3"},
		{"six board cards", "SASK", "H2D3C4S5H6D7"},
		{"duplicate across hole and board", "SASK", "SAH2D3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(deck.MustParseCards(tt.hole), deck.MustParseCards(tt.board))
			if got != RankUnknown {
				t.Errorf("Evaluate() = %d, want RankUnknown", got)
			}
		})
	}
}

func TestRankUnknownComparesWorst(t *testing.T) {
	worstReal := evalCards(t, "S2H3", "D4C6H8S9DJ")
	if RankUnknown.Compare(worstReal) != -1 {
		t.Error("RankUnknown must lose to any real hand")
	}
	if worstReal.Compare(RankUnknown) != 1 {
		t.Error("any real hand must beat RankUnknown")
	}
}

func TestCompareProperties(t *testing.T) {
	hands := []HandRank{
		evalCards(t, "SAHA", "DACASKH2H3"),
		evalCards(t, "SAHA", "DKSQC9H7H5"),
		evalCards(t, "SAHK", "DQS9C7H5H3"),
		RankUnknown,
	}

	for _, a := range hands {
		if a.Compare(a) != 0 {
			t.Errorf("Compare(a,a) = %d, want 0", a.Compare(a))
		}
		for _, b := range hands {
			if a.Compare(b) != -b.Compare(a) {
				t.Errorf("Compare not antisymmetric for %v, %v", a, b)
			}
		}
	}
}

func TestTierBands(t *testing.T) {
	tests := []struct {
		name     string
		hole     string
		board    string
		expected Tier
	}{
		{"royal flush is excellent", "SASK", "SQSJSTH9H8", TierExcellent},
		{"full house is excellent", "SAHA", "DASKHKH2H3", TierExcellent},
		{"flush is good", "SASK", "SQS8S6H4H3", TierGood},
		{"three of a kind is good", "SAHA", "DASKC9H7H5", TierGood},
		{"two pair is fair", "SAHA", "DKSKC9H7H5", TierFair},
		{"one pair is fair", "SAHA", "DKSQC9H7H5", TierFair},
		{"high card is poor", "SAHK", "DQS9C7H5H3", TierPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalCards(t, tt.hole, tt.board).Tier(); got != tt.expected {
				t.Errorf("Tier() = %v, want %v", got, tt.expected)
			}
		})
	}

	if RankUnknown.Tier() != TierPoor {
		t.Error("RankUnknown should fall in the Poor tier")
	}
}

func TestRankerCapability(t *testing.T) {
	hole := deck.MustParseCards("SASK")
	board := deck.MustParseCards("SQSJST")

	var real Ranker = RealRanker{}
	if real.Evaluate(hole, board).Type() != RoyalFlushType {
		t.Error("RealRanker should delegate to Evaluate")
	}

	var stub Ranker = UnavailableRanker{}
	if stub.Evaluate(hole, board) != RankUnknown {
		t.Error("UnavailableRanker must always return RankUnknown")
	}
}
