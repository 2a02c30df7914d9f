package game

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/pokerbracket/internal/deck"
	"github.com/lox/pokerbracket/internal/evaluator"
)

// BotClient is the full bot-side surface the round driver needs: action
// solicitation plus the end-of-hand notification. End notifications are
// best-effort; implementations swallow delivery failures.
type BotClient interface {
	Solicitor
	NotifyEnd(host string, port int, state EndState)
}

// street is one dealing step of a hand
type street struct {
	name string
	burn int
	deal int
}

var streets = []street{
	{name: "pre-flop"},
	{name: "flop", burn: 1, deal: 3},
	{name: "turn", burn: 1, deal: 1},
	{name: "river", burn: 1, deal: 1},
}

// PlayHand plays a single hand at the table: blinds, hole cards, the four
// betting streets and either an early win or a showdown. It awards the pot,
// notifies every seat of the outcome and rotates the button. Returns false
// when the hand was skipped because fewer than two seats could post the big
// blind.
func (g *State) PlayHand(smallBlind, bigBlind int, bots BotClient, logger *log.Logger) bool {
	if len(g.Players) < 2 {
		logger.Info("not enough seats to play a hand", "seats", len(g.Players))
		g.Stats.RecordSkippedHand()
		return false
	}
	canPlay := 0
	for _, p := range g.Players {
		if p.Chips >= bigBlind {
			canPlay++
		}
	}
	if canPlay < 2 {
		logger.Info("fewer than two seats can post the big blind, skipping hand", "big_blind", bigBlind)
		g.Stats.RecordSkippedHand()
		return false
	}

	g.ResetHand(smallBlind, bigBlind, logger)

	for _, p := range g.Players {
		if !p.InHand {
			continue
		}
		p.Hand = g.Shoe.Deal(2)
		logger.Debug("hole cards dealt", "player", p.Name, "hand", deck.ShortCards(p.Hand))
	}

	for _, st := range streets {
		if st.burn > 0 {
			g.Shoe.Burn(st.burn)
			board := g.Shoe.DealTable(st.deal)
			logger.Info("board", "street", st.name, "cards", deck.ShortCards(board))
		}
		logger.Info("betting round", "street", st.name, "pot", g.Pot)
		if winner := g.RunBettingRound(bots, logger); winner != nil {
			logger.Info("hand won without showdown", "player", winner.Name, "street", st.name)
			g.finishHand([]*Player{winner}, false, bots, logger)
			g.Stats.RecordHand()
			return true
		}
	}

	left := g.InHandPlayers()
	if len(left) < 2 {
		// Every betting round completed yet at most one seat remains; the
		// award helper falls back to a sane winner if left is empty.
		g.finishHand(left, false, bots, logger)
		g.Stats.RecordHand()
		return true
	}

	winners := g.showdown(left, logger)
	g.Stats.RecordShowdown(len(winners) > 1)
	resetDeck := g.Shoe.Verify(len(g.Players))
	if resetDeck {
		logger.Info("shoe reset after verification")
		g.Stats.RecordDeckReset()
	}
	g.finishHand(winners, resetDeck, bots, logger)
	g.Stats.RecordHand()
	return true
}

// showdown scores every contender's 7-card holding and returns all seats
// tied at the maximum score, in seat order.
func (g *State) showdown(contenders []*Player, logger *log.Logger) []*Player {
	board := g.Shoe.Community()

	var winners []*Player
	var best evaluator.Score
	for _, p := range contenders {
		holding := make([]deck.Card, 0, len(p.Hand)+len(board))
		holding = append(holding, p.Hand...)
		holding = append(holding, board...)
		score, bestHand, err := evaluator.Evaluate(holding)
		if err != nil {
			logger.Warn("holding cannot be scored, dropping from showdown", "player", p.Name, "error", err)
			continue
		}
		logger.Info("showdown", "player", p.Name, "score", score.String(), "best", deck.ShortCards(bestHand))
		switch {
		case len(winners) == 0 || score.Beats(best):
			winners = append(winners[:0], p)
			best = score
		case score.Compare(best) == 0:
			winners = append(winners, p)
		}
	}
	return winners
}

// finishHand awards the pot, notifies every seat with its end-of-hand view,
// clears transient state and rotates the button. A split pot pays
// floor(pot/k) to each winner with the remainder going to the first winner
// in seat order.
func (g *State) finishHand(winners []*Player, resetDeck bool, bots BotClient, logger *log.Logger) {
	if len(winners) == 0 {
		logger.Warn("no winners determined, using fallback")
		winners = []*Player{g.fallbackWinner()}
	}

	names := make([]string, len(winners))
	for i, w := range winners {
		names[i] = w.Name
	}

	pot := g.Pot
	if len(winners) == 1 {
		winners[0].Chips += pot
		logger.Info("pot awarded", "player", names[0], "pot", pot)
	} else {
		share := pot / len(winners)
		remainder := pot - share*len(winners)
		for i, w := range winners {
			add := share
			if i == 0 {
				add += remainder
			}
			w.Chips += add
		}
		logger.Info("split pot", "winners", strings.Join(names, ","), "share", share, "remainder", remainder)
	}
	g.Pot = 0
	g.CurrBet = 0

	for _, p := range g.Players {
		bots.NotifyEnd(p.Host, p.Port, g.EndStateFor(names, p.Name, resetDeck))
		logger.Info("stack", "player", p.Name, "chips", p.Chips)
	}

	for _, p := range g.Players {
		p.InHand = true
		p.Ready = false
		p.Hand = nil
		p.CurrBet = 0
	}
	g.Shoe.ClearTable()
	g.rotateButton()
}

// fallbackWinner picks a seat to award an orphaned pot to: the first seat
// still in the hand, or the shortest stack if nobody is.
func (g *State) fallbackWinner() *Player {
	for _, p := range g.Players {
		if p.InHand {
			return p
		}
	}
	shortest := g.Players[0]
	for _, p := range g.Players[1:] {
		if p.Chips < shortest.Chips {
			shortest = p
		}
	}
	return shortest
}

// rotateButton moves the head of the seat ring to the tail, advancing the
// blinds one seat for the next hand.
func (g *State) rotateButton() {
	if len(g.Players) < 2 {
		return
	}
	head := g.Players[0]
	copy(g.Players, g.Players[1:])
	g.Players[len(g.Players)-1] = head
}
