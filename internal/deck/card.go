// Package deck provides typed playing cards and the multi-deck shoe the
// engine deals from.
package deck

import (
	"encoding/json"
	"fmt"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// String returns the canonical long name of the suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Clubs:
		return "Clubs"
	case Spades:
		return "Spades"
	default:
		return "?"
	}
}

// Short returns the single-character form of the suit
func (s Suit) Short() string {
	switch s {
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	case Spades:
		return "S"
	default:
		return "?"
	}
}

// Rank represents a card rank. Values run 2..14 so ranks compare directly;
// the Ace is high, with the wheel handled by the evaluator.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the canonical long name of the rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "Jack"
	case r == Queen:
		return "Queen"
	case r == King:
		return "King"
	case r == Ace:
		return "Ace"
	default:
		return "?"
	}
}

// Short returns the single-character form of the rank (T for 10)
func (r Rank) Short() string {
	switch {
	case r >= Two && r <= Nine:
		return fmt.Sprintf("%d", int(r))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// ParseSuit accepts either the long name ("Hearts") or the single character
// form ("H").
func ParseSuit(s string) (Suit, error) {
	switch s {
	case "Hearts", "H":
		return Hearts, nil
	case "Diamonds", "D":
		return Diamonds, nil
	case "Clubs", "C":
		return Clubs, nil
	case "Spades", "S":
		return Spades, nil
	default:
		return 0, fmt.Errorf("invalid suit %q", s)
	}
}

// ParseRank accepts either the long name ("10", "Jack") or the single
// character form ("T", "J").
func ParseRank(s string) (Rank, error) {
	switch s {
	case "2", "3", "4", "5", "6", "7", "8", "9":
		return Rank(int(s[0] - '0')), nil
	case "10", "T":
		return Ten, nil
	case "Jack", "J":
		return Jack, nil
	case "Queen", "Q":
		return Queen, nil
	case "King", "K":
		return King, nil
	case "Ace", "A":
		return Ace, nil
	default:
		return 0, fmt.Errorf("invalid rank %q", s)
	}
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// New builds a card from suit and rank names, accepting either the long or
// the short form for each.
func New(suit, rank string) (Card, error) {
	s, err := ParseSuit(suit)
	if err != nil {
		return Card{}, err
	}
	r, err := ParseRank(rank)
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: s, Rank: r}, nil
}

// ParseShort parses the canonical two-character form, rank char then suit
// char (e.g. "TH", "AS").
func ParseShort(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: must be exactly 2 characters", s)
	}
	return New(s[1:2], s[0:1])
}

// MustParseShort parses a short-form card and panics on failure. Test helper.
func MustParseShort(s string) Card {
	c, err := ParseShort(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the long form, e.g. "Ace of Spades"
func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Short returns the two-character form, e.g. "AS"
func (c Card) Short() string {
	return c.Rank.Short() + c.Suit.Short()
}

// Value returns the numeric rank value (2..14, aces high)
func (c Card) Value() int {
	return int(c.Rank)
}

// cardJSON is the wire shape of a card
type cardJSON struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// MarshalJSON encodes the card as {"suit":"Hearts","rank":"Ace"}
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Suit: c.Suit.String(), Rank: c.Rank.String()})
}

// UnmarshalJSON accepts long or short suit and rank names
func (c *Card) UnmarshalJSON(data []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	card, err := New(cj.Suit, cj.Rank)
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// ShortCards renders cards in their two-character form, used in end-of-hand
// notifications.
func ShortCards(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Short()
	}
	return out
}
