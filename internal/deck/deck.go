package deck

// The deck package owns the immutable 52-card domain. The equity engine
// never holds a shuffled deck; it asks for the unseen remainder of the
// universe and samples from that.

// Size is the number of cards in a standard deck.
const Size = 52

// Universe returns all 52 distinct cards in a fixed suit-major order.
func Universe() []Card {
	cards := make([]Card, 0, Size)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// CardSet is a bitset over the 52-card universe.
// Each card maps to a bit: index = (rank-2)*4 + suit.
type CardSet uint64

// cardIndex converts a card to its bit index (0-51)
func cardIndex(card Card) int {
	return int(card.Rank-Two)*4 + int(card.Suit)
}

// Add adds a card to the set
func (cs *CardSet) Add(card Card) {
	*cs |= 1 << cardIndex(card)
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(card Card) bool {
	return cs&(1<<cardIndex(card)) != 0
}

// NewCardSet creates a CardSet from a slice of cards
func NewCardSet(cards []Card) CardSet {
	var cs CardSet
	for _, card := range cards {
		cs.Add(card)
	}
	return cs
}

// Unseen returns the universe minus the known cards, in the fixed
// universe order. Duplicates in known collapse, so the result always
// has 52 - |distinct known| cards. The output order is deterministic
// for a given known set; any randomness belongs to the sampler.
func Unseen(known []Card) []Card {
	seen := NewCardSet(known)

	remaining := make([]Card, 0, Size-len(known))
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			card := NewCard(suit, rank)
			if !seen.Contains(card) {
				remaining = append(remaining, card)
			}
		}
	}
	return remaining
}
