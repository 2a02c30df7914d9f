// Package evaluator ranks poker holdings of 5 to 7 cards into a total order.
//
// A holding scores as (category, tiebreakers): category is the hand class
// from High Card up to Straight Flush, and the tiebreakers break ties within
// a class. Scores compare lexicographically, so any two holdings are ordered
// and transitivity holds by construction.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/lox/pokerbracket/internal/deck"
)

// Category is the hand class, ordered weakest to strongest.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the display name of the category
func (c Category) String() string {
	names := [...]string{
		"High Card",
		"Pair",
		"Two Pair",
		"Three of a Kind",
		"Straight",
		"Flush",
		"Full House",
		"Four of a Kind",
		"Straight Flush",
	}
	if c < 0 || int(c) >= len(names) {
		return "Unknown"
	}
	return names[c]
}

// Score is a totally ordered hand strength
type Score struct {
	Category  Category
	Tiebreaks []int
}

// Compare returns -1, 0 or 1 as s is weaker than, equal to or stronger than
// other.
func (s Score) Compare(other Score) int {
	if s.Category != other.Category {
		if s.Category < other.Category {
			return -1
		}
		return 1
	}
	for i := 0; i < len(s.Tiebreaks) && i < len(other.Tiebreaks); i++ {
		if s.Tiebreaks[i] != other.Tiebreaks[i] {
			if s.Tiebreaks[i] < other.Tiebreaks[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(s.Tiebreaks) < len(other.Tiebreaks):
		return -1
	case len(s.Tiebreaks) > len(other.Tiebreaks):
		return 1
	}
	return 0
}

// Beats reports whether s strictly outranks other
func (s Score) Beats(other Score) bool {
	return s.Compare(other) > 0
}

// String renders the score for logs, e.g. "Two Pair [14 14 9 9 5]"
func (s Score) String() string {
	return fmt.Sprintf("%s %v", s.Category, s.Tiebreaks)
}

// Evaluate finds the best 5-card hand inside a holding of 5 to 7 cards. It
// returns the maximal score and the 5-card subset achieving it (the subset
// is for display only).
func Evaluate(cards []deck.Card) (Score, []deck.Card, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return Score{}, nil, fmt.Errorf("evaluator: need 5-7 cards, got %d", len(cards))
	}

	var best Score
	var bestHand []deck.Card
	first := true

	combos(len(cards), func(idx [5]int) {
		combo := [5]deck.Card{
			cards[idx[0]], cards[idx[1]], cards[idx[2]], cards[idx[3]], cards[idx[4]],
		}
		score := scoreFive(combo)
		if first || score.Beats(best) {
			best = score
			bestHand = append([]deck.Card(nil), combo[:]...)
			first = false
		}
	})

	return best, bestHand, nil
}

// combos calls fn for every 5-element index combination of [0, n)
func combos(n int, fn func([5]int)) {
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						fn([5]int{a, b, c, d, e})
					}
				}
			}
		}
	}
}

func scoreFive(combo [5]deck.Card) Score {
	ranks := make([]int, 5)
	flush := true
	for i, c := range combo {
		ranks[i] = c.Value()
		if c.Suit != combo[0].Suit {
			flush = false
		}
	}

	straight, high := straightHigh(ranks)
	grouped := groupByRank(ranks)
	counts := make([]int, len(grouped))
	topRanks := make([]int, len(grouped))
	pairs := 0
	for i, g := range grouped {
		counts[i] = g.count
		topRanks[i] = g.rank
		if g.count == 2 {
			pairs++
		}
	}

	switch {
	case flush && straight:
		return Score{Category: StraightFlush, Tiebreaks: []int{high}}
	case contains(counts, 4):
		return Score{Category: FourOfAKind, Tiebreaks: topRanks}
	case contains(counts, 3) && contains(counts, 2):
		return Score{Category: FullHouse, Tiebreaks: topRanks}
	case flush:
		return Score{Category: Flush, Tiebreaks: descending(ranks)}
	case straight:
		return Score{Category: Straight, Tiebreaks: []int{high}}
	case contains(counts, 3):
		return Score{Category: ThreeOfAKind, Tiebreaks: topRanks}
	case pairs == 2:
		return Score{Category: TwoPair, Tiebreaks: topRanks}
	case pairs == 1:
		return Score{Category: Pair, Tiebreaks: topRanks}
	default:
		return Score{Category: HighCard, Tiebreaks: descending(ranks)}
	}
}

// straightHigh reports whether the 5 ranks form a run and the run's high
// card. The wheel (A-2-3-4-5) counts with high 5.
func straightHigh(ranks []int) (bool, int) {
	uniq := uniqueSorted(ranks)
	if len(uniq) != 5 {
		return false, 0
	}
	if uniq[0] == 2 && uniq[1] == 3 && uniq[2] == 4 && uniq[3] == 5 && uniq[4] == 14 {
		return true, 5
	}
	for i := 1; i < 5; i++ {
		if uniq[i] != uniq[0]+i {
			return false, 0
		}
	}
	return true, uniq[4]
}

type rankGroup struct {
	rank  int
	count int
}

// groupByRank returns rank groups sorted by count descending then rank
// descending, the order tiebreakers are read in.
func groupByRank(ranks []int) []rankGroup {
	byRank := map[int]int{}
	for _, r := range ranks {
		byRank[r]++
	}
	groups := make([]rankGroup, 0, len(byRank))
	for r, n := range byRank {
		groups = append(groups, rankGroup{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

func uniqueSorted(ranks []int) []int {
	seen := map[int]bool{}
	out := make([]int, 0, len(ranks))
	for _, r := range ranks {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Ints(out)
	return out
}

func descending(ranks []int) []int {
	out := append([]int(nil), ranks...)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
