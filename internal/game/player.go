package game

import (
	"net"
	"strconv"

	"github.com/lox/pokerbracket/internal/deck"
)

// Player is a seat at the table, backed by a bot process reachable at
// Host:Port. Players persist across hands; the per-hand fields are reset at
// every hand start.
type Player struct {
	Name  string
	Host  string
	Port  int
	Chips int

	// Per-hand state
	Hand       []deck.Card
	InHand     bool
	CurrBet    int
	Ready      bool
	LastAction *Action
}

// NewPlayer creates a player with a starting stack
func NewPlayer(name, host string, port, chips int) *Player {
	return &Player{Name: name, Host: host, Port: port, Chips: chips, InHand: true}
}

// Addr returns the bot endpoint as host:port
func (p *Player) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// AllIn reports whether the seat is all-in: still contesting the hand with
// no chips behind.
func (p *Player) AllIn() bool {
	return p.InHand && p.Chips == 0
}

// ResetForHand clears all per-hand state ahead of a new hand
func (p *Player) ResetForHand() {
	p.Hand = nil
	p.InHand = true
	p.CurrBet = 0
	p.Ready = false
	p.LastAction = nil
}

// lastActionView is the last_action value shown to bots, nil until the seat
// has acted this hand.
func (p *Player) lastActionView() *string {
	if p.LastAction == nil {
		return nil
	}
	s := p.LastAction.String()
	return &s
}
