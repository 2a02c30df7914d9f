package transport

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerbracket/internal/deck"
	"github.com/lox/pokerbracket/internal/game"
	"github.com/lox/pokerbracket/internal/randutil"
	"github.com/lox/pokerbracket/internal/statistics"
	"github.com/lox/pokerbracket/internal/wire"
)

func testClient(stats *statistics.Tracker) *Client {
	c := NewClient(log.New(io.Discard), stats)
	c.AskTimeout = 200 * time.Millisecond
	c.EndTimeout = 200 * time.Millisecond
	c.TerminateTimeout = 200 * time.Millisecond
	return c
}

// startBot runs a scripted TCP peer. Each accepted connection is handed to
// respond on its own goroutine.
func startBot(t *testing.T, respond func(conn net.Conn)) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				respond(c)
			}(conn)
		}
	}()
	return "127.0.0.1", ln.Addr().(*net.TCPAddr).Port
}

// closedPort returns a port nothing is listening on
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func replyWith(move string, extra map[string]any) func(net.Conn) {
	return func(conn net.Conn) {
		if _, err := wire.ReadRaw(conn, wire.DefaultMaxFrame); err != nil {
			return
		}
		reply := map[string]any{"move": move}
		for k, v := range extra {
			reply[k] = v
		}
		wire.Write(conn, reply)
	}
}

func TestAskParsesMoves(t *testing.T) {
	for _, tc := range []struct {
		move string
		want game.ActionType
	}{
		{"fold", game.Fold},
		{"check", game.Check},
		{"call", game.Call},
		{"CALL", game.Call},
		{"  Fold\n", game.Fold},
	} {
		host, port := startBot(t, replyWith(tc.move, nil))
		action := testClient(nil).Ask(host, port, game.ActState{})
		require.Equal(t, tc.want, action.Type, "move %q", tc.move)
	}
}

// A sloppy but well-meaning reply is accepted: mixed case, trailing space,
// amount under an alias name as a numeric string.
func TestAskAcceptsSloppyRaise(t *testing.T) {
	host, port := startBot(t, replyWith("RAISE ", map[string]any{"raise_to": "30"}))

	action := testClient(nil).Ask(host, port, game.ActState{})
	require.Equal(t, game.Raise, action.Type)
	require.Equal(t, 30, action.Amount)
}

func TestAskRaiseAmountAliases(t *testing.T) {
	for _, field := range []string{"amount", "raise_to", "value", "amt"} {
		host, port := startBot(t, replyWith("raise", map[string]any{field: 25}))
		action := testClient(nil).Ask(host, port, game.ActState{})
		require.Equal(t, game.Raise, action.Type, "field %q", field)
		require.Equal(t, 25, action.Amount, "field %q", field)
	}
}

func TestAskFailClosedMatrix(t *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T) (string, int)
	}{
		{"connection refused", func(t *testing.T) (string, int) {
			return "127.0.0.1", closedPort(t)
		}},
		{"infinite silence", func(t *testing.T) (string, int) {
			return startBot(t, func(conn net.Conn) {
				wire.ReadRaw(conn, wire.DefaultMaxFrame)
				time.Sleep(2 * time.Second)
			})
		}},
		{"garbage bytes", func(t *testing.T) (string, int) {
			return startBot(t, func(conn net.Conn) {
				wire.ReadRaw(conn, wire.DefaultMaxFrame)
				conn.Write([]byte("zzzzzzzzzzzz"))
			})
		}},
		{"oversized frame", func(t *testing.T) (string, int) {
			return startBot(t, func(conn net.Conn) {
				wire.ReadRaw(conn, wire.DefaultMaxFrame)
				header := make([]byte, 4)
				binary.BigEndian.PutUint32(header, wire.DefaultMaxFrame+1)
				conn.Write(header)
			})
		}},
		{"malformed JSON", func(t *testing.T) (string, int) {
			return startBot(t, func(conn net.Conn) {
				wire.ReadRaw(conn, wire.DefaultMaxFrame)
				wire.WriteRaw(conn, []byte("{not json"))
			})
		}},
		{"unknown move", func(t *testing.T) (string, int) {
			return startBot(t, replyWith("jump", nil))
		}},
		{"raise without amount", func(t *testing.T) (string, int) {
			return startBot(t, replyWith("raise", nil))
		}},
		{"raise with unparseable amount", func(t *testing.T) (string, int) {
			return startBot(t, replyWith("raise", map[string]any{"amount": "lots"}))
		}},
		{"closed before reply", func(t *testing.T) (string, int) {
			return startBot(t, func(conn net.Conn) {
				wire.ReadRaw(conn, wire.DefaultMaxFrame)
			})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stats := statistics.NewTracker()
			host, port := tc.setup(t)

			action := testClient(stats).Ask(host, port, game.ActState{})
			require.Equal(t, game.Fold, action.Type)
			require.Equal(t, 1, stats.FailClosed())
		})
	}
}

func TestCoerceInt(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want int
		ok   bool
	}{
		{`30`, 30, true},
		{`30.9`, 30, true},
		{`"30"`, 30, true},
		{`" 30 "`, 30, true},
		{`"lots"`, 0, false},
		{`true`, 0, false},
		{`null`, 0, false},
	} {
		got, ok := coerceInt(json.RawMessage(tc.raw))
		require.Equal(t, tc.ok, ok, "raw %s", tc.raw)
		if ok {
			require.Equal(t, tc.want, got, "raw %s", tc.raw)
		}
	}
	if _, ok := coerceInt(nil); ok {
		t.Error("nil raw message should not coerce")
	}
}

func TestNotifyEndSwallowsFailures(t *testing.T) {
	c := testClient(nil)
	// Nothing listening; must not panic or block.
	c.NotifyEnd("127.0.0.1", closedPort(t), game.EndState{})
	c.Terminate("127.0.0.1", closedPort(t))
}

func TestNotifyEndDeliversFrame(t *testing.T) {
	got := make(chan []byte, 1)
	host, port := startBot(t, func(conn net.Conn) {
		payload, err := wire.ReadRaw(conn, wire.DefaultMaxFrame)
		if err == nil {
			got <- payload
		}
	})

	testClient(nil).NotifyEnd(host, port, game.EndState{IsEndState: true, NumDecks: 2, ResetDeck: true})

	select {
	case payload := <-got:
		var msg struct {
			Op    string `json:"op"`
			State struct {
				IsEndState bool `json:"is_end_state"`
				NumDecks   int  `json:"num_decks"`
				ResetDeck  bool `json:"reset_deck"`
			} `json:"state"`
		}
		require.NoError(t, json.Unmarshal(payload, &msg))
		require.Equal(t, "end", msg.Op)
		require.True(t, msg.State.IsEndState)
		require.Equal(t, 2, msg.State.NumDecks)
		require.True(t, msg.State.ResetDeck)
	case <-time.After(time.Second):
		t.Fatal("end notification never arrived")
	}
}

// A table where one seat's endpoint is dead: the hand must complete without
// stalling and the dead seat folds out on its first poll.
func TestHandCompletesWithDeadEndpoint(t *testing.T) {
	respond := func(conn net.Conn) {
		payload, err := wire.ReadRaw(conn, wire.DefaultMaxFrame)
		if err != nil {
			return
		}
		var msg struct {
			Op    string `json:"op"`
			State struct {
				CurrBet       int `json:"curr_bet"`
				PlayerCurrBet int `json:"player_curr_bet"`
			} `json:"state"`
		}
		if json.Unmarshal(payload, &msg) != nil || msg.Op != "act" {
			return
		}
		move := "check"
		if msg.State.CurrBet > msg.State.PlayerCurrBet {
			move = "call"
		}
		wire.Write(conn, map[string]string{"move": move})
	}

	players := make([]*game.Player, 0, 4)
	for i := 0; i < 3; i++ {
		host, port := startBot(t, respond)
		players = append(players, game.NewPlayer(
			[]string{"P1", "P2", "P3"}[i], host, port, 100))
	}
	players = append(players, game.NewPlayer("dead", "127.0.0.1", closedPort(t), 100))

	stats := statistics.NewTracker()
	shoe := deck.NewShoe(1, randutil.New(5))
	shoe.Shuffle()
	g := game.NewState(shoe, players)
	g.Stats = stats

	done := make(chan bool, 1)
	go func() {
		done <- g.PlayHand(1, 2, testClient(stats), log.New(io.Discard))
	}()

	select {
	case played := <-done:
		require.True(t, played)
	case <-time.After(5 * time.Second):
		t.Fatal("hand stalled on the dead endpoint")
	}

	require.Equal(t, 1, stats.FailClosed(), "dead seat folds on its first poll")

	total := 0
	for _, p := range g.Players {
		total += p.Chips
	}
	require.Equal(t, 400, total)
}
