package deck

import (
	rand "math/rand/v2"
)

// burnReserve is the headroom Verify requires beyond the per-player deal:
// 5 community cards plus 3 burns.
const burnReserve = 5 + 3

// Shoe holds one or more decks split across a draw pile, a discard pile and
// the community cards on the table. The total across the three piles is
// always 52 * NumDecks.
type Shoe struct {
	numDecks  int
	draw      []Card
	discard   []Card
	community []Card
	rng       *rand.Rand
}

// NewShoe creates a fresh unshuffled shoe. numDecks values below 1 are
// clamped to 1.
func NewShoe(numDecks int, rng *rand.Rand) *Shoe {
	if numDecks < 1 {
		numDecks = 1
	}
	s := &Shoe{numDecks: numDecks, rng: rng}
	s.draw = s.freshCards()
	return s
}

func (s *Shoe) freshCards() []Card {
	cards := make([]Card, 0, 52*s.numDecks)
	for i := 0; i < s.numDecks; i++ {
		for suit := Hearts; suit <= Spades; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				cards = append(cards, Card{Suit: suit, Rank: rank})
			}
		}
	}
	return cards
}

// NumDecks returns how many 52-card decks the shoe was built from
func (s *Shoe) NumDecks() int {
	return s.numDecks
}

// Shuffle returns the discard pile to the draw pile and permutes it
// uniformly. Community cards stay on the table.
func (s *Shoe) Shuffle() {
	s.draw = append(s.draw, s.discard...)
	s.discard = s.discard[:0]
	s.rng.Shuffle(len(s.draw), func(i, j int) {
		s.draw[i], s.draw[j] = s.draw[j], s.draw[i]
	})
}

// Deal pops up to n cards from the draw pile into the discard pile and
// returns them.
func (s *Shoe) Deal(n int) []Card {
	dealt := make([]Card, 0, n)
	for i := 0; i < n && len(s.draw) > 0; i++ {
		card := s.pop()
		s.discard = append(s.discard, card)
		dealt = append(dealt, card)
	}
	return dealt
}

// Burn discards up to n cards from the draw pile without exposing them.
// Returns false if the draw pile ran dry.
func (s *Shoe) Burn(n int) bool {
	for i := 0; i < n; i++ {
		if len(s.draw) == 0 {
			return false
		}
		s.discard = append(s.discard, s.pop())
	}
	return true
}

// DealTable pops up to n cards from the draw pile onto the community board
// and returns the full board.
func (s *Shoe) DealTable(n int) []Card {
	for i := 0; i < n && len(s.draw) > 0; i++ {
		s.community = append(s.community, s.pop())
	}
	return s.community
}

func (s *Shoe) pop() Card {
	card := s.draw[len(s.draw)-1]
	s.draw = s.draw[:len(s.draw)-1]
	return card
}

// Stack arranges the draw pile so the given cards come off the top in the
// given order. Cards not named keep their relative order underneath. Used to
// script known boards in tests and bot regressions.
func (s *Shoe) Stack(cards ...Card) {
	rest := make([]Card, 0, len(s.draw))
	stacked := make(map[Card]int, len(cards))
	for _, c := range cards {
		stacked[c]++
	}
	for _, c := range s.draw {
		if stacked[c] > 0 {
			stacked[c]--
			continue
		}
		rest = append(rest, c)
	}
	// Deal pops from the tail, so append the scripted cards in reverse.
	s.draw = rest
	for i := len(cards) - 1; i >= 0; i-- {
		s.draw = append(s.draw, cards[i])
	}
}

// Community returns the community cards currently on the table
func (s *Shoe) Community() []Card {
	return s.community
}

// ClearTable moves the community cards to the discard pile at the end of a
// hand.
func (s *Shoe) ClearTable() {
	s.discard = append(s.discard, s.community...)
	s.community = s.community[:0]
}

// Remaining returns the size of the draw pile
func (s *Shoe) Remaining() int {
	return len(s.draw)
}

// Counts reports the draw, discard and community pile sizes
func (s *Shoe) Counts() (draw, discard, community int) {
	return len(s.draw), len(s.discard), len(s.community)
}

// Reset regenerates a fresh shoe, dropping all pile state
func (s *Shoe) Reset() {
	s.draw = s.freshCards()
	s.discard = s.discard[:0]
	s.community = s.community[:0]
}

// Verify checks shoe consistency before the next hand. If the pile totals no
// longer add up to 52 * NumDecks, or the draw pile cannot cover a full hand
// for the given player count, the shoe is reset and reshuffled and Verify
// returns true so the caller can signal reset_deck to the bots.
func (s *Shoe) Verify(players int) bool {
	total := len(s.draw) + len(s.discard) + len(s.community)
	if total != 52*s.numDecks {
		s.Reset()
		s.Shuffle()
		return true
	}
	if len(s.draw) < players*2+burnReserve {
		s.Reset()
		s.Shuffle()
		return true
	}
	return false
}
