package game

import (
	"github.com/charmbracelet/log"
)

// Solicitor obtains an action from a bot endpoint. The production
// implementation is the TCP transport; tests substitute scripted fakes.
// Implementations must be fail-closed: any transport-level problem comes
// back as a Fold, never an error.
type Solicitor interface {
	Ask(host string, port int, state ActState) Action
}

// RunBettingRound drives one street of betting. Seats are polled in ring
// order players[2:] + players[:2] (UTG first pre-flop; the same order is
// reused on every street) until every in-hand seat is ready at the current
// bet. A raise clears the ready flag of every other live seat, so the loop
// revisits them in the same order.
//
// The return value is non-nil when only one seat remains in the hand, in
// which case the caller awards the pot without advancing further streets.
func (g *State) RunBettingRound(solicit Solicitor, logger *log.Logger) *Player {
	order := g.actionOrder()

	for g.anyUnready() {
		for _, p := range order {
			if p.Ready {
				continue
			}
			if !p.InHand {
				logger.Debug("seat not in hand, skipping", "player", p.Name)
				continue
			}
			if left := g.InHandPlayers(); len(left) == 1 {
				return left[0]
			}
			if p.Chips == 0 {
				// All-in seats never act again this hand.
				p.Ready = true
				continue
			}

			action := solicit.Ask(p.Host, p.Port, g.ActStateFor(p))
			logger.Info("action", "player", p.Name, "action", action.String())
			g.apply(p, action, logger)
		}
	}

	g.ResetTurn()
	if left := g.InHandPlayers(); len(left) == 1 {
		return left[0]
	}
	return nil
}

// actionOrder returns the street's polling order: everyone after the blinds
// first, then the small and big blind.
func (g *State) actionOrder() []*Player {
	if len(g.Players) <= 2 {
		return g.Players
	}
	order := make([]*Player, 0, len(g.Players))
	order = append(order, g.Players[2:]...)
	order = append(order, g.Players[:2]...)
	return order
}

func (g *State) anyUnready() bool {
	for _, p := range g.Players {
		if p.InHand && !p.Ready && p.Chips > 0 {
			return true
		}
	}
	return false
}

// apply validates and applies a single action. Illegal moves convert to
// Fold: a check facing a bet, or a raise that does not go above the seat's
// current street commitment.
func (g *State) apply(p *Player, action Action, logger *log.Logger) {
	g.Stats.RecordAction(action.Type.String())
	switch action.Type {
	case Check:
		if p.CurrBet != g.CurrBet {
			logger.Warn("illegal check facing a bet, folding", "player", p.Name, "player_bet", p.CurrBet, "curr_bet", g.CurrBet)
			g.fold(p, action)
			return
		}
		p.LastAction = &action
		p.Ready = true

	case Call:
		need := g.CurrBet - p.CurrBet
		if p.Chips >= need {
			p.Chips -= need
			p.CurrBet = g.CurrBet
			g.Pot += need
		} else {
			// Involuntary all-in: commit the remaining stack and stay in.
			logger.Info("call short of the bet, going all in", "player", p.Name, "chips", p.Chips, "need", need)
			g.Pot += p.Chips
			p.CurrBet += p.Chips
			p.Chips = 0
		}
		p.LastAction = &action
		p.Ready = true

	case Raise:
		need := action.Amount - p.CurrBet
		if need <= 0 {
			logger.Warn("raise not above current commitment, folding", "player", p.Name, "amount", action.Amount, "player_bet", p.CurrBet)
			g.fold(p, action)
			return
		}
		if need <= p.Chips {
			p.Chips -= need
			p.CurrBet = action.Amount
			g.Pot += need
			if action.Amount > g.CurrBet {
				g.CurrBet = action.Amount
			}
		} else {
			// Cannot cover the full raise: all-in with whatever remains.
			logger.Info("raise beyond stack, going all in", "player", p.Name, "chips", p.Chips, "amount", action.Amount)
			g.Pot += p.Chips
			p.CurrBet += p.Chips
			p.Chips = 0
			if p.CurrBet > g.CurrBet {
				g.CurrBet = p.CurrBet
			}
		}
		p.LastAction = &action
		g.clearOthersReady(p)
		p.Ready = true

	case Fold:
		g.fold(p, action)

	default:
		logger.Warn("unknown action, folding", "player", p.Name)
		g.fold(p, action)
	}
}

// clearOthersReady forces every other live in-hand seat to act again after a
// raise. All-in seats stay permanently ready.
func (g *State) clearOthersReady(raiser *Player) {
	for _, p := range g.Players {
		if p == raiser || !p.InHand || p.Chips == 0 {
			continue
		}
		p.Ready = false
	}
}

func (g *State) fold(p *Player, _ Action) {
	folded := FoldAction()
	p.LastAction = &folded
	p.InHand = false
	p.Ready = true
}
