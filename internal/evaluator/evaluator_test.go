package evaluator

import (
	"testing"

	"github.com/lox/pokerbracket/internal/deck"
	"github.com/lox/pokerbracket/internal/randutil"
)

func cards(shorts ...string) []deck.Card {
	out := make([]deck.Card, len(shorts))
	for i, s := range shorts {
		out[i] = deck.MustParseShort(s)
	}
	return out
}

func mustEvaluate(t *testing.T, cs []deck.Card) Score {
	t.Helper()
	score, _, err := Evaluate(cs)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	return score
}

func TestEvaluateRejectsBadCounts(t *testing.T) {
	if _, _, err := Evaluate(cards("AS", "KS", "QS", "JS")); err == nil {
		t.Error("expected error for 4 cards")
	}
	if _, _, err := Evaluate(cards("AS", "KS", "QS", "JS", "TS", "9S", "8S", "7S")); err == nil {
		t.Error("expected error for 8 cards")
	}
}

func TestWheelStraight(t *testing.T) {
	wheel := mustEvaluate(t, cards("AH", "2C", "3D", "4S", "5H"))
	if wheel.Category != Straight {
		t.Fatalf("expected Straight, got %v", wheel.Category)
	}
	if len(wheel.Tiebreaks) != 1 || wheel.Tiebreaks[0] != 5 {
		t.Errorf("wheel high card should be 5, got %v", wheel.Tiebreaks)
	}

	sixHigh := mustEvaluate(t, cards("2H", "3C", "4D", "5S", "6H"))
	if !sixHigh.Beats(wheel) {
		t.Error("2-3-4-5-6 must beat the wheel")
	}
}

func TestSteelWheelIsStraightFlush(t *testing.T) {
	score := mustEvaluate(t, cards("AH", "2H", "3H", "4H", "5H"))
	if score.Category != StraightFlush {
		t.Errorf("expected StraightFlush, got %v", score.Category)
	}
	if score.Tiebreaks[0] != 5 {
		t.Errorf("steel wheel high should be 5, got %v", score.Tiebreaks)
	}
}

func TestCategoryOrdering(t *testing.T) {
	quads := mustEvaluate(t, cards("9H", "9D", "9C", "9S", "2H"))
	fullHouse := mustEvaluate(t, cards("KH", "KD", "KC", "4S", "4H"))
	flush := mustEvaluate(t, cards("AH", "JH", "8H", "5H", "2H"))
	straight := mustEvaluate(t, cards("9H", "8C", "7D", "6S", "5H"))
	trips := mustEvaluate(t, cards("7H", "7D", "7C", "KS", "2H"))
	twoPair := mustEvaluate(t, cards("QH", "QD", "8C", "8S", "2H"))
	pair := mustEvaluate(t, cards("JH", "JD", "9C", "6S", "2H"))
	high := mustEvaluate(t, cards("AH", "QD", "9C", "6S", "2H"))

	ladder := []Score{quads, fullHouse, flush, straight, trips, twoPair, pair, high}
	for i := 0; i < len(ladder)-1; i++ {
		if !ladder[i].Beats(ladder[i+1]) {
			t.Errorf("rung %d (%v) should beat rung %d (%v)", i, ladder[i], i+1, ladder[i+1])
		}
	}
}

func TestKickersBreakTies(t *testing.T) {
	aceKicker := mustEvaluate(t, cards("2H", "2C", "AH", "QD", "JC"))
	kingKicker := mustEvaluate(t, cards("2S", "2D", "KH", "QC", "JS"))
	if !aceKicker.Beats(kingKicker) {
		t.Error("pair of 2s with ace kicker should beat pair of 2s with king kicker")
	}

	tied := mustEvaluate(t, cards("2S", "2D", "AD", "QC", "JS"))
	if aceKicker.Compare(tied) != 0 {
		t.Error("identical ranks in different suits should tie")
	}
}

func TestSevenCardBestSubset(t *testing.T) {
	// Hole 2H 7D on board 3H 8S JD QC AH: no pair, best five A-Q-J-8-7.
	score := mustEvaluate(t, cards("2H", "7D", "3H", "8S", "JD", "QC", "AH"))
	if score.Category != HighCard {
		t.Fatalf("expected HighCard, got %v", score.Category)
	}
	want := []int{14, 12, 11, 8, 7}
	for i, w := range want {
		if score.Tiebreaks[i] != w {
			t.Fatalf("tiebreaks %v, want %v", score.Tiebreaks, want)
		}
	}

	// The identically ranked holding in other suits ties exactly.
	other := mustEvaluate(t, cards("2C", "7C", "3H", "8S", "JD", "QC", "AH"))
	if score.Compare(other) != 0 {
		t.Errorf("suit-only differences must tie: %v vs %v", score, other)
	}
}

func TestBestHandReturned(t *testing.T) {
	_, best, err := Evaluate(cards("AS", "KS", "QS", "JS", "TS", "2H", "3D"))
	if err != nil {
		t.Fatal(err)
	}
	if len(best) != 5 {
		t.Fatalf("expected 5-card best hand, got %d", len(best))
	}
	for _, c := range best {
		if c.Suit != deck.Spades {
			t.Errorf("royal flush subset should be all spades, got %v", c)
		}
	}
}

// The best 7-card score must be at least every 5-card subset's score, and
// must not depend on card order.
func TestTotalityAndPermutationInvariance(t *testing.T) {
	rng := randutil.New(99)

	for trial := 0; trial < 50; trial++ {
		shoe := deck.NewShoe(1, rng)
		shoe.Shuffle()
		seven := shoe.Deal(7)

		best := mustEvaluate(t, seven)

		for a := 0; a < 3; a++ {
			for b := a + 1; b < 4; b++ {
				sub := make([]deck.Card, 0, 5)
				for i, c := range seven {
					if i != a && i != b {
						sub = append(sub, c)
					}
				}
				if subScore := mustEvaluate(t, sub); subScore.Beats(best) {
					t.Fatalf("subset %v outranks full holding %v", subScore, best)
				}
			}
		}

		shuffled := append([]deck.Card(nil), seven...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if mustEvaluate(t, shuffled).Compare(best) != 0 {
			t.Fatal("score depends on card order")
		}
	}
}

func TestOrderTransitivity(t *testing.T) {
	rng := randutil.New(7)

	for trial := 0; trial < 30; trial++ {
		shoe := deck.NewShoe(1, rng)
		shoe.Shuffle()
		a := mustEvaluate(t, shoe.Deal(5))
		b := mustEvaluate(t, shoe.Deal(5))
		c := mustEvaluate(t, shoe.Deal(5))

		if a.Beats(b) && b.Beats(c) && !a.Beats(c) {
			t.Fatalf("transitivity violated: %v > %v > %v but not %v > %v", a, b, c, a, c)
		}
	}
}

func TestCategoryNames(t *testing.T) {
	if HighCard.String() != "High Card" || StraightFlush.String() != "Straight Flush" {
		t.Error("unexpected category names")
	}
}
