// Package transport speaks the framed-JSON bot protocol over one-shot TCP
// connections. The engine is fail-closed at this boundary: any connect,
// deadline, framing or parse problem during an action solicitation is
// converted into a Fold so a broken bot can never stall a hand.
package transport

import (
	"encoding/json"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pokerbracket/internal/game"
	"github.com/lox/pokerbracket/internal/statistics"
	"github.com/lox/pokerbracket/internal/wire"
)

const (
	// DefaultAskTimeout bounds a full action round-trip: dial, write, read.
	DefaultAskTimeout = 5 * time.Second

	// DefaultEndTimeout bounds delivery of an end-of-hand notification.
	DefaultEndTimeout = 2 * time.Second

	// DefaultTerminateTimeout bounds delivery of a terminate message.
	DefaultTerminateTimeout = 1 * time.Second
)

// Client implements game.BotClient over TCP. Each request opens a fresh
// connection and closes it when done; there is no pooling.
type Client struct {
	AskTimeout       time.Duration
	EndTimeout       time.Duration
	TerminateTimeout time.Duration
	MaxFrame         uint32

	logger *log.Logger
	stats  *statistics.Tracker
}

// NewClient creates a bot transport with the default timeouts. stats may be
// nil.
func NewClient(logger *log.Logger, stats *statistics.Tracker) *Client {
	return &Client{
		AskTimeout:       DefaultAskTimeout,
		EndTimeout:       DefaultEndTimeout,
		TerminateTimeout: DefaultTerminateTimeout,
		MaxFrame:         wire.DefaultMaxFrame,
		logger:           logger,
		stats:            stats,
	}
}

type askRequest struct {
	Op    string        `json:"op"`
	State game.ActState `json:"state"`
}

type endRequest struct {
	Op    string        `json:"op"`
	State game.EndState `json:"state"`
}

type terminateRequest struct {
	Op string `json:"op"`
}

// botReply is a bot's answer to an act request. The raise amount may arrive
// under several historical field names; the first one present wins.
type botReply struct {
	Move    string          `json:"move"`
	Amount  json.RawMessage `json:"amount"`
	RaiseTo json.RawMessage `json:"raise_to"`
	Value   json.RawMessage `json:"value"`
	Amt     json.RawMessage `json:"amt"`
}

// Ask solicits an action from the bot at host:port. Every failure mode folds.
func (c *Client) Ask(host string, port int, state game.ActState) game.Action {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := net.DialTimeout("tcp", addr, c.AskTimeout)
	if err != nil {
		return c.failClosed(addr, "dial", err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(c.AskTimeout)); err != nil {
		return c.failClosed(addr, "set deadline", err)
	}

	if err := wire.Write(conn, askRequest{Op: "act", State: state}); err != nil {
		return c.failClosed(addr, "send act", err)
	}

	var reply botReply
	if err := wire.ReadLimit(conn, &reply, c.MaxFrame); err != nil {
		return c.failClosed(addr, "read reply", err)
	}

	action, ok := c.parseReply(reply)
	if !ok {
		c.logger.Warn("malformed bot reply, folding", "bot", addr, "move", reply.Move)
		c.stats.RecordFailClosed()
		return game.FoldAction()
	}
	return action
}

// parseReply maps a bot reply onto an action. The move string is trimmed and
// lowercased before matching; a raise needs an integer-coercible amount.
func (c *Client) parseReply(reply botReply) (game.Action, bool) {
	switch strings.ToLower(strings.TrimSpace(reply.Move)) {
	case "fold":
		return game.FoldAction(), true
	case "check":
		return game.Action{Type: game.Check}, true
	case "call":
		return game.Action{Type: game.Call}, true
	case "raise":
		raw := firstPresent(reply.Amount, reply.RaiseTo, reply.Value, reply.Amt)
		amount, ok := coerceInt(raw)
		if !ok {
			return game.Action{}, false
		}
		return game.Action{Type: game.Raise, Amount: amount}, true
	default:
		return game.Action{}, false
	}
}

// NotifyEnd delivers an end-of-hand notification. Failures are logged and
// swallowed; an unreachable bot never blocks the table.
func (c *Client) NotifyEnd(host string, port int, state game.EndState) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := net.DialTimeout("tcp", addr, c.EndTimeout)
	if err != nil {
		c.logger.Warn("failed to notify bot of hand end", "bot", addr, "error", err)
		return
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(c.EndTimeout)); err != nil {
		c.logger.Warn("failed to notify bot of hand end", "bot", addr, "error", err)
		return
	}
	if err := wire.Write(conn, endRequest{Op: "end", State: state}); err != nil {
		c.logger.Warn("failed to notify bot of hand end", "bot", addr, "error", err)
	}
}

// Terminate tells the bot at host:port to shut down. Best-effort; the engine
// does not wait for the bot process to exit.
func (c *Client) Terminate(host string, port int) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := net.DialTimeout("tcp", addr, c.TerminateTimeout)
	if err != nil {
		c.logger.Debug("failed to reach bot for terminate", "bot", addr, "error", err)
		return
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(c.TerminateTimeout)); err != nil {
		return
	}
	if err := wire.Write(conn, terminateRequest{Op: "terminate"}); err != nil {
		c.logger.Debug("failed to send terminate", "bot", addr, "error", err)
	}
}

func (c *Client) failClosed(addr, op string, err error) game.Action {
	c.logger.Warn("bot comms error, folding", "bot", addr, "op", op, "error", err)
	c.stats.RecordFailClosed()
	return game.FoldAction()
}

func firstPresent(fields ...json.RawMessage) json.RawMessage {
	for _, f := range fields {
		if len(f) > 0 && string(f) != "null" {
			return f
		}
	}
	return nil
}

// coerceInt accepts a JSON number (truncating any fraction) or a numeric
// string for the raise amount.
func coerceInt(raw json.RawMessage) (int, bool) {
	if raw == nil {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
