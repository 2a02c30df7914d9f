package game

import (
	"github.com/charmbracelet/log"
	"github.com/lox/pokerbracket/internal/deck"
	"github.com/lox/pokerbracket/internal/statistics"
)

// State is the mutable per-hand game state: the pot, the street's bet level,
// the blinds, the shoe and the seat ring. The small blind sits at index 0
// and the big blind at index 1; the button rotates by moving the head of the
// ring to the tail after each hand.
type State struct {
	Pot        int
	CurrBet    int
	SmallBlind int
	BigBlind   int
	Shoe       *deck.Shoe
	Players    []*Player

	// Stats is optional; a nil tracker disables collection.
	Stats *statistics.Tracker
}

// NewState creates hand state over an existing seat ring and shoe
func NewState(shoe *deck.Shoe, players []*Player) *State {
	return &State{Shoe: shoe, Players: players}
}

// SeatView is the public per-player information shared with every bot
type SeatView struct {
	Chips      int     `json:"chips"`
	LastAction *string `json:"last_action"`
	Position   int     `json:"position"`
}

// ActState is the state object sent to the seat whose turn it is
type ActState struct {
	Board         []deck.Card         `json:"board"`
	NumDecks      int                 `json:"num_decks"`
	Pot           int                 `json:"pot"`
	CurrBet       int                 `json:"curr_bet"`
	SmallBlind    int                 `json:"small_blind"`
	BigBlind      int                 `json:"big_blind"`
	Hand          []deck.Card         `json:"hand"`
	PlayerCurrBet int                 `json:"player_curr_bet"`
	Players       map[string]SeatView `json:"players"`
}

// EndSeatView extends the public view with the hand outcome. Hand holds the
// short-form hole cards for seats that reached the end of the hand (or for
// the receiving seat), and is empty otherwise.
type EndSeatView struct {
	Winner     bool     `json:"winner"`
	Chips      int      `json:"chips"`
	LastAction *string  `json:"last_action"`
	Position   int      `json:"position"`
	Hand       []string `json:"hand"`
}

// EndState is the notification sent to every seat when a hand completes.
// ResetDeck tells card-counting bots the shoe was rebuilt.
type EndState struct {
	IsEndState bool                   `json:"is_end_state"`
	Board      []deck.Card            `json:"board"`
	NumDecks   int                    `json:"num_decks"`
	ResetDeck  bool                   `json:"reset_deck"`
	Pot        int                    `json:"pot"`
	SmallBlind int                    `json:"small_blind"`
	BigBlind   int                    `json:"big_blind"`
	Players    map[string]EndSeatView `json:"players"`
}

// ActStateFor builds the visible state for the seat about to act. Only that
// seat's hole cards are included; everyone else is reduced to the public
// view.
func (g *State) ActStateFor(p *Player) ActState {
	players := make(map[string]SeatView, len(g.Players))
	for i, other := range g.Players {
		players[other.Name] = SeatView{
			Chips:      other.Chips,
			LastAction: other.lastActionView(),
			Position:   i,
		}
	}
	board := g.Shoe.Community()
	if board == nil {
		board = []deck.Card{}
	}
	hand := p.Hand
	if hand == nil {
		hand = []deck.Card{}
	}
	return ActState{
		Board:         board,
		NumDecks:      g.Shoe.NumDecks(),
		Pot:           g.Pot,
		CurrBet:       g.CurrBet,
		SmallBlind:    g.SmallBlind,
		BigBlind:      g.BigBlind,
		Hand:          hand,
		PlayerCurrBet: p.CurrBet,
		Players:       players,
	}
}

// EndStateFor builds the end-of-hand notification for one recipient. Hole
// cards are revealed for seats still in the hand and for the recipient
// itself.
func (g *State) EndStateFor(winners []string, recipient string, resetDeck bool) EndState {
	isWinner := make(map[string]bool, len(winners))
	for _, w := range winners {
		isWinner[w] = true
	}
	players := make(map[string]EndSeatView, len(g.Players))
	for i, p := range g.Players {
		hand := []string{}
		if p.InHand || p.Name == recipient {
			hand = deck.ShortCards(p.Hand)
		}
		players[p.Name] = EndSeatView{
			Winner:     isWinner[p.Name],
			Chips:      p.Chips,
			LastAction: p.lastActionView(),
			Position:   i,
			Hand:       hand,
		}
	}
	board := g.Shoe.Community()
	if board == nil {
		board = []deck.Card{}
	}
	return EndState{
		IsEndState: true,
		Board:      board,
		NumDecks:   g.Shoe.NumDecks(),
		ResetDeck:  resetDeck,
		Pot:        g.Pot,
		SmallBlind: g.SmallBlind,
		BigBlind:   g.BigBlind,
		Players:    players,
	}
}

// ResetTurn clears the street's bet state on the table and on every seat
func (g *State) ResetTurn() {
	g.CurrBet = 0
	for _, p := range g.Players {
		p.Ready = false
		p.CurrBet = 0
	}
}

// ResetHand prepares the table for a new hand: zero pot, fresh street state
// and blinds posted. Seats that cannot cover the big blind sit the hand out.
// The first eligible seat posts the small blind, the next the big blind.
func (g *State) ResetHand(smallBlind, bigBlind int, logger *log.Logger) {
	g.Pot = 0
	g.SmallBlind = smallBlind
	g.BigBlind = bigBlind
	for _, p := range g.Players {
		p.ResetForHand()
	}
	g.ResetTurn()

	posted := 0
	for _, p := range g.Players {
		if p.Chips < bigBlind {
			logger.Info("seat cannot cover big blind, sitting out", "player", p.Name, "chips", p.Chips, "big_blind", bigBlind)
			p.InHand = false
			continue
		}
		switch posted {
		case 0: // small blind
			if p.Chips < smallBlind {
				logger.Info("seat cannot cover small blind, sitting out", "player", p.Name, "chips", p.Chips, "small_blind", smallBlind)
				p.InHand = false
				continue
			}
			logger.Info("posting small blind", "player", p.Name, "amount", smallBlind)
			p.Chips -= smallBlind
			p.CurrBet = smallBlind
			g.Pot += smallBlind
			g.CurrBet = smallBlind
			posted++
		case 1: // big blind
			logger.Info("posting big blind", "player", p.Name, "amount", bigBlind)
			p.Chips -= bigBlind
			p.CurrBet = bigBlind
			g.Pot += bigBlind
			g.CurrBet = bigBlind
			posted++
		}
	}
}

// InHandPlayers returns the seats still contesting the hand
func (g *State) InHandPlayers() []*Player {
	var in []*Player
	for _, p := range g.Players {
		if p.InHand {
			in = append(in, p)
		}
	}
	return in
}

// ChipTotal returns the chips in play across all seats plus the pot. It is
// constant for the lifetime of a table; the tests lean on it for chip
// conservation.
func (g *State) ChipTotal() int {
	total := g.Pot
	for _, p := range g.Players {
		total += p.Chips
	}
	return total
}
