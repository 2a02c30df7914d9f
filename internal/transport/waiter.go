package transport

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWaitDeadline is the aggregate time allowed for all bots to come
	// up before startup aborts.
	DefaultWaitDeadline = 5 * time.Second

	// DefaultWaitInterval is the pause between connection probes to an
	// endpoint that is not accepting yet.
	DefaultWaitInterval = 250 * time.Millisecond

	// DefaultProbeTimeout bounds a single connection probe.
	DefaultProbeTimeout = 500 * time.Millisecond
)

// Waiter probes bot endpoints until each accepts a TCP connection or the
// deadline passes. All endpoints are probed concurrently so one slow bot
// does not delay the others.
type Waiter struct {
	Deadline     time.Duration
	Interval     time.Duration
	ProbeTimeout time.Duration

	clock  quartz.Clock
	logger *log.Logger
}

// NewWaiter creates a waiter with the default timing. Tests inject a mock
// clock.
func NewWaiter(logger *log.Logger, clock quartz.Clock) *Waiter {
	return &Waiter{
		Deadline:     DefaultWaitDeadline,
		Interval:     DefaultWaitInterval,
		ProbeTimeout: DefaultProbeTimeout,
		clock:        clock,
		logger:       logger,
	}
}

// Wait blocks until every endpoint accepts a connection or the deadline
// expires. On failure it returns a multi-line error naming each endpoint
// still unreachable; reachable endpoints are not reported.
func (w *Waiter) Wait(ctx context.Context, endpoints []string) error {
	results := make([]error, len(endpoints))

	var eg errgroup.Group
	for i, endpoint := range endpoints {
		eg.Go(func() error {
			results[i] = w.waitOne(ctx, endpoint)
			return nil
		})
	}
	// Goroutines only record into their own slot.
	_ = eg.Wait()

	var unreachable []string
	for i, err := range results {
		if err != nil {
			unreachable = append(unreachable, fmt.Sprintf("%s: %v", endpoints[i], err))
		}
	}
	if len(unreachable) > 0 {
		return fmt.Errorf("unreachable bot endpoints after %s:\n  %s",
			w.Deadline, strings.Join(unreachable, "\n  "))
	}
	return nil
}

// waitOne probes a single endpoint until it accepts, the deadline passes or
// the context is cancelled. Returns the most recent dial error on timeout.
func (w *Waiter) waitOne(ctx context.Context, endpoint string) error {
	start := w.clock.Now()
	var lastErr error

	for {
		conn, err := net.DialTimeout("tcp", endpoint, w.ProbeTimeout)
		if err == nil {
			conn.Close()
			w.logger.Debug("bot endpoint reachable", "endpoint", endpoint, "after", w.clock.Since(start))
			return nil
		}
		lastErr = err

		if w.clock.Since(start) >= w.Deadline {
			return lastErr
		}

		timer := w.clock.NewTimer(w.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
