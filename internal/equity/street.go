package equity

import "fmt"

// Street represents a betting phase of a hold'em hand
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

// String returns the street name
func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// ParseStreet converts a street name to a Street
func ParseStreet(name string) (Street, error) {
	switch name {
	case "preflop", "pre-flop":
		return Preflop, nil
	case "flop":
		return Flop, nil
	case "turn":
		return Turn, nil
	case "river":
		return River, nil
	default:
		return 0, fmt.Errorf("unknown street %q", name)
	}
}

// StreetForBoard infers the street from the number of revealed
// community cards.
func StreetForBoard(boardCards int) (Street, error) {
	switch boardCards {
	case 0:
		return Preflop, nil
	case 3:
		return Flop, nil
	case 4:
		return Turn, nil
	case 5:
		return River, nil
	default:
		return 0, fmt.Errorf("no street reveals %d community cards", boardCards)
	}
}

// Budgets holds the default trial count per street. Later streets have
// less remaining uncertainty, so budgets never increase from preflop
// to river.
type Budgets struct {
	Preflop int
	Flop    int
	Turn    int
	River   int
}

// DefaultBudgets are the tuned per-street trial counts.
var DefaultBudgets = Budgets{
	Preflop: 2000,
	Flop:    2000,
	Turn:    1500,
	River:   1000,
}

// For returns the trial budget for a street.
func (b Budgets) For(s Street) int {
	switch s {
	case Preflop:
		return b.Preflop
	case Flop:
		return b.Flop
	case Turn:
		return b.Turn
	case River:
		return b.River
	default:
		return b.Preflop
	}
}

// Validate checks that all budgets are positive and non-increasing
// from preflop to river.
func (b Budgets) Validate() error {
	if b.River <= 0 {
		return fmt.Errorf("river budget must be positive, got %d", b.River)
	}
	if b.Preflop < b.Flop || b.Flop < b.Turn || b.Turn < b.River {
		return fmt.Errorf("budgets must be non-increasing preflop through river: %d/%d/%d/%d",
			b.Preflop, b.Flop, b.Turn, b.River)
	}
	return nil
}
