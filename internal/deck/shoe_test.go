package deck

import (
	"testing"

	"github.com/lox/pokerbracket/internal/randutil"
)

func checkInvariant(t *testing.T, s *Shoe) {
	t.Helper()
	draw, discard, community := s.Counts()
	if total := draw + discard + community; total != 52*s.NumDecks() {
		t.Fatalf("shoe invariant broken: %d+%d+%d = %d, want %d",
			draw, discard, community, total, 52*s.NumDecks())
	}
}

func TestShoeInvariantAfterEveryOperation(t *testing.T) {
	s := NewShoe(2, randutil.New(1))
	checkInvariant(t, s)

	s.Shuffle()
	checkInvariant(t, s)

	dealt := s.Deal(5)
	if len(dealt) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(dealt))
	}
	checkInvariant(t, s)

	if !s.Burn(3) {
		t.Fatal("burn failed on a full shoe")
	}
	checkInvariant(t, s)

	board := s.DealTable(3)
	if len(board) != 3 {
		t.Fatalf("expected 3 community cards, got %d", len(board))
	}
	checkInvariant(t, s)

	s.ClearTable()
	if len(s.Community()) != 0 {
		t.Error("community cards remain after ClearTable")
	}
	checkInvariant(t, s)

	s.Reset()
	checkInvariant(t, s)
	if s.Remaining() != 104 {
		t.Errorf("expected 104 cards after reset, got %d", s.Remaining())
	}
}

func TestShoeClampsNumDecks(t *testing.T) {
	s := NewShoe(0, randutil.New(1))
	if s.NumDecks() != 1 {
		t.Errorf("expected num decks clamped to 1, got %d", s.NumDecks())
	}
}

func TestVerifyResetsLowShoe(t *testing.T) {
	s := NewShoe(1, randutil.New(1))
	s.Shuffle()
	s.Deal(40)

	// 12 cards left cannot cover 4 players: 4*2 + 5 + 3 = 16.
	if !s.Verify(4) {
		t.Fatal("expected Verify to reset a low shoe")
	}
	if s.Remaining() != 52 {
		t.Errorf("expected a fresh draw pile, got %d cards", s.Remaining())
	}
	checkInvariant(t, s)

	if s.Verify(4) {
		t.Error("fresh shoe should verify clean")
	}
}

func TestStackControlsDealOrder(t *testing.T) {
	s := NewShoe(1, randutil.New(7))
	s.Shuffle()
	s.Stack(MustParseShort("AS"), MustParseShort("KD"), MustParseShort("2C"))

	dealt := s.Deal(3)
	want := []string{"AS", "KD", "2C"}
	for i, w := range want {
		if dealt[i].Short() != w {
			t.Errorf("card %d: got %s, want %s", i, dealt[i].Short(), w)
		}
	}
	checkInvariant(t, s)
}

// Simulates 200 hands of dealing from a persistent 2-deck shoe with a
// pre-hand verification, the way a table would consume it. The shoe must be
// reset at least once and the invariant must hold throughout.
func TestShoeSoak200Hands(t *testing.T) {
	rng := randutil.New(42)
	s := NewShoe(2, rng)
	s.Shuffle()

	const players = 4
	resets := 0
	for hand := 0; hand < 200; hand++ {
		if s.Verify(players) {
			resets++
		}
		checkInvariant(t, s)

		for p := 0; p < players; p++ {
			if got := s.Deal(2); len(got) != 2 {
				t.Fatalf("hand %d: short deal", hand)
			}
		}
		s.Burn(1)
		s.DealTable(3)
		s.Burn(1)
		s.DealTable(1)
		s.Burn(1)
		s.DealTable(1)
		checkInvariant(t, s)

		if len(s.Community()) != 5 {
			t.Fatalf("hand %d: expected 5 community cards, got %d", hand, len(s.Community()))
		}
		s.ClearTable()
		checkInvariant(t, s)
	}

	if resets == 0 {
		t.Error("expected at least one shoe reset across 200 hands")
	}
}
