package main

import (
	"net"
	"strconv"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/pokerbracket/cmd/pokerbracket/shared"
	"github.com/lox/pokerbracket/internal/config"
	"github.com/lox/pokerbracket/internal/randutil"
	"github.com/lox/pokerbracket/internal/statistics"
	"github.com/lox/pokerbracket/internal/tournament"
	"github.com/lox/pokerbracket/internal/transport"
)

// RunCmd runs a tournament from a configuration file
type RunCmd struct {
	Config    string `kong:"default='config.json',help='Path to the tournament configuration file'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
	Seed      *int64 `kong:"help='Deterministic RNG seed for seating and shuffles (optional)'"`
	Terminate bool   `kong:"help='Send terminate to every bot when the tournament ends'"`
}

func (c *RunCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
		logger.Info("using random seed", "seed", seed)
	}
	rng := randutil.New(seed)

	ctx := shared.SetupSignalHandler(logger)
	clock := quartz.NewReal()
	stats := statistics.NewTracker()
	client := transport.NewClient(logger.WithPrefix("transport"), stats)

	// Every bot must be accepting connections before cards go in the air.
	endpoints := make([]string, len(cfg.Bots))
	for i, b := range cfg.Bots {
		endpoints[i] = net.JoinHostPort(b.Host, strconv.Itoa(b.Port))
	}
	waiter := transport.NewWaiter(logger.WithPrefix("preflight"), clock)
	if err := waiter.Wait(ctx, endpoints); err != nil {
		return err
	}
	logger.Info("all bots reachable", "bots", len(cfg.Bots))

	tour := tournament.New(cfg, client, stats, clock, rng, logger.WithPrefix("tournament"))
	finalists := tour.Run(ctx)

	names := make([]string, len(finalists))
	for i, p := range finalists {
		names[i] = p.Name
	}
	logger.Info("tournament finished", "finalists", names)

	if c.Terminate {
		for _, b := range cfg.Bots {
			client.Terminate(b.Host, b.Port)
		}
	}
	return nil
}
