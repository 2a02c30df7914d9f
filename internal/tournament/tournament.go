// Package tournament runs a bracket-style knockout: each tier shuffles the
// survivors into tables of bounded size, plays a fixed number of hands per
// table, and advances the top stacks until few enough players remain.
package tournament

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokerbracket/internal/config"
	"github.com/lox/pokerbracket/internal/deck"
	"github.com/lox/pokerbracket/internal/game"
	"github.com/lox/pokerbracket/internal/statistics"
)

// Tournament drives the bracket over a fixed entrant list
type Tournament struct {
	cfg     config.Config
	players []*game.Player
	bots    game.BotClient
	stats   *statistics.Tracker
	clock   quartz.Clock
	rng     *rand.Rand
	logger  *log.Logger

	// Out receives the rendered standings boards. Defaults to stdout.
	Out io.Writer
}

// New builds a tournament from the configured bot roster. Every entrant
// starts with the configured stack. The rng seeds table seating and the
// shoes, so a fixed seed reproduces an entire bracket.
func New(cfg config.Config, bots game.BotClient, stats *statistics.Tracker, clock quartz.Clock, rng *rand.Rand, logger *log.Logger) *Tournament {
	players := make([]*game.Player, 0, len(cfg.Bots))
	for _, b := range cfg.Bots {
		players = append(players, game.NewPlayer(b.Name, b.Host, b.Port, cfg.Game.StartingChips))
	}
	return &Tournament{
		cfg:     cfg,
		players: players,
		bots:    bots,
		stats:   stats,
		clock:   clock,
		rng:     rng,
		logger:  logger,
		Out:     os.Stdout,
	}
}

// Players returns all entrants, including busted ones
func (t *Tournament) Players() []*game.Player {
	return t.players
}

// Run plays the bracket to completion and returns the finalists. The context
// cancels between hands; an in-flight bot exchange still runs to its own
// timeout.
func (t *Tournament) Run(ctx context.Context) []*game.Player {
	// Tell every bot the shoe size up front so card counters can sync.
	for _, p := range t.players {
		t.bots.NotifyEnd(p.Host, p.Port, game.EndState{
			IsEndState: true,
			NumDecks:   t.cfg.Game.NumDecks,
			ResetDeck:  true,
			Board:      []deck.Card{},
			Players:    map[string]game.EndSeatView{},
		})
	}

	advanceK := t.cfg.Tournament.AdvancePerTable

	current := append([]*game.Player(nil), t.players...)
	blindIdx := 0
	tier := 1

	for len(current) > advanceK && ctx.Err() == nil {
		current = t.dropBusted(current)

		t.logger.Info("tier start", "tier", tier, "players", len(current), "advance_per_table", advanceK)

		// Randomized seating each tier.
		t.rng.Shuffle(len(current), func(i, j int) {
			current[i], current[j] = current[j], current[i]
		})

		var advancers []*game.Player
		for tableNum, seats := range chunk(current, t.cfg.Game.MaxTableSize) {
			tableLogger := t.logger.With("tier", tier, "table", tableNum+1)
			selected, handsPlayed := t.playTable(ctx, seats, blindIdx, tableLogger)
			advancers = append(advancers, selected...)

			blindIdx = t.stepBlinds(blindIdx, t.cfg.Tournament.BlindStepPerRound*handsPlayed)
		}

		// The same bot must not advance twice.
		current = dedupeByName(advancers)
		blindIdx = t.stepBlinds(blindIdx, t.cfg.Tournament.BlindStepPerTier)
		tier++
	}

	fmt.Fprintln(t.Out, RenderStandings("Finalists", current))
	fmt.Fprintln(t.Out, RenderStandings("Final Standings", t.players))
	if t.stats != nil {
		t.logger.Info("tournament complete", "finalists", len(current), "stats", t.stats.Summary())
	}
	return current
}

// playTable plays up to the configured hands at one table and returns the
// top stacks that advance plus the number of hands played. The blind level
// is chosen once per table from the global blind index.
func (t *Tournament) playTable(ctx context.Context, seats []*game.Player, blindIdx int, logger *log.Logger) ([]*game.Player, int) {
	sb, bb := blindLevel(t.cfg.Tournament.BlindsSchedule, blindIdx)
	logger.Info("table start", "seats", len(seats), "small_blind", sb, "big_blind", bb)

	handsPlayed := 0
	for hand := 0; hand < t.cfg.Tournament.HandsPerMatch; hand++ {
		seats = activeSeats(seats)
		if len(seats) < 2 {
			logger.Info("fewer than two active seats, ending table early")
			break
		}
		if ctx.Err() != nil {
			logger.Warn("tournament cancelled mid-table")
			break
		}

		shoe := deck.NewShoe(t.cfg.Game.NumDecks, t.rng)
		shoe.Shuffle()
		state := game.NewState(shoe, seats)
		state.Stats = t.stats
		state.PlayHand(sb, bb, t.bots, logger)
		handsPlayed++

		t.pause(ctx)
	}

	ranked := append([]*game.Player(nil), seats...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Chips > ranked[j].Chips
	})
	take := t.cfg.Tournament.AdvancePerTable
	if take > len(ranked) {
		take = len(ranked)
	}
	selected := ranked[:take]
	for _, p := range selected {
		logger.Info("advancing", "player", p.Name, "chips", p.Chips)
	}

	for _, p := range seats {
		p.InHand = true
		p.Ready = false
		p.Hand = nil
	}
	return selected, handsPlayed
}

// dropBusted filters out players with no chips left, recording eliminations
func (t *Tournament) dropBusted(players []*game.Player) []*game.Player {
	alive := make([]*game.Player, 0, len(players))
	for _, p := range players {
		if p.Chips > 0 {
			alive = append(alive, p)
			continue
		}
		t.logger.Info("removing busted player", "player", p.Name)
		t.stats.RecordElimination()
	}
	return alive
}

// stepBlinds advances the global blind index, clamped to the schedule
func (t *Tournament) stepBlinds(idx, step int) int {
	idx += step
	if n := len(t.cfg.Tournament.BlindsSchedule); n > 0 && idx > n-1 {
		idx = n - 1
	}
	return idx
}

// pause sleeps the configured inter-hand delay, for spectating
func (t *Tournament) pause(ctx context.Context) {
	if t.cfg.Game.Delay <= 0 {
		return
	}
	timer := t.clock.NewTimer(time.Duration(t.cfg.Game.Delay * float64(time.Second)))
	select {
	case <-ctx.Done():
		timer.Stop()
	case <-timer.C:
	}
}

func blindLevel(schedule []config.BlindLevel, idx int) (sb, bb int) {
	if len(schedule) == 0 {
		return 1, 2
	}
	if idx > len(schedule)-1 {
		idx = len(schedule) - 1
	}
	lvl := schedule[idx]
	return lvl.Small, lvl.Big
}

func activeSeats(seats []*game.Player) []*game.Player {
	active := make([]*game.Player, 0, len(seats))
	for _, p := range seats {
		if p.Chips > 0 {
			active = append(active, p)
		}
	}
	return active
}

func chunk(players []*game.Player, size int) [][]*game.Player {
	var tables [][]*game.Player
	for start := 0; start < len(players); start += size {
		end := start + size
		if end > len(players) {
			end = len(players)
		}
		tables = append(tables, players[start:end])
	}
	return tables
}

func dedupeByName(players []*game.Player) []*game.Player {
	seen := make(map[string]bool, len(players))
	out := make([]*game.Player, 0, len(players))
	for _, p := range players {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p)
	}
	return out
}
