// Package config loads the tournament configuration file. The file is JSON
// with three blocks: game rules, the bot roster and the bracket settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the full configuration file
type Config struct {
	Game       Game       `json:"game"`
	Bots       []Bot      `json:"bots"`
	Tournament Tournament `json:"tournament"`
}

// Game holds the table rules
type Game struct {
	StartingChips int  `json:"starting_chips"`
	NumDecks      int  `json:"num_decks"`
	MaxTableSize  int  `json:"max_table_size"`
	Visual        bool `json:"visual"`

	// Delay is the pause between hands in seconds, for spectating.
	Delay float64 `json:"delay"`
}

// Bot is one entrant's endpoint
type Bot struct {
	Name string `json:"name"`
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Tournament holds the bracket settings
type Tournament struct {
	AdvancePerTable   int          `json:"advance_per_table"`
	HandsPerMatch     int          `json:"hands_per_match"`
	BlindStepPerRound int          `json:"blind_step_per_round"`
	BlindStepPerTier  int          `json:"blind_step_per_tier"`
	BlindsSchedule    []BlindLevel `json:"blinds_schedule"`
}

// BlindLevel is one step of the blind schedule
type BlindLevel struct {
	Small int `json:"small"`
	Big   int `json:"big"`
}

// Default returns the configuration used when a field is absent from the
// file: a 100-chip freezeout at 1/2 blinds, six-handed tables, two advancing
// per table, one hand per match.
func Default() Config {
	return Config{
		Game: Game{
			StartingChips: 100,
			NumDecks:      1,
			MaxTableSize:  6,
		},
		Tournament: Tournament{
			AdvancePerTable:  2,
			HandsPerMatch:    1,
			BlindStepPerTier: 1,
			BlindsSchedule:   []BlindLevel{{Small: 1, Big: 2}},
		},
	}
}

// Load reads and validates the configuration at path. Missing fields take
// their defaults; missing bot hosts and ports are filled from a local
// convention (127.0.0.1, ports counting up from 5001).
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a configuration document and applies defaults
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Game.StartingChips == 0 {
		c.Game.StartingChips = 100
	}
	if c.Game.NumDecks == 0 {
		c.Game.NumDecks = 1
	}
	if c.Game.MaxTableSize == 0 {
		c.Game.MaxTableSize = 6
	}
	if c.Tournament.AdvancePerTable == 0 {
		c.Tournament.AdvancePerTable = 2
	}
	if c.Tournament.HandsPerMatch == 0 {
		c.Tournament.HandsPerMatch = 1
	}
	if len(c.Tournament.BlindsSchedule) == 0 {
		c.Tournament.BlindsSchedule = []BlindLevel{{Small: 1, Big: 2}}
	}
	for i := range c.Bots {
		bot := &c.Bots[i]
		if bot.Name == "" {
			bot.Name = fmt.Sprintf("bot%d", i+1)
		}
		if bot.Host == "" {
			bot.Host = "127.0.0.1"
		}
		if bot.Port == 0 {
			bot.Port = 5001 + i
		}
	}
}

// Validate rejects configurations the engine cannot run
func (c *Config) Validate() error {
	if len(c.Bots) < 2 {
		return fmt.Errorf("config: need at least 2 bots, got %d", len(c.Bots))
	}
	if c.Game.StartingChips < 1 {
		return fmt.Errorf("config: starting_chips must be positive, got %d", c.Game.StartingChips)
	}
	if c.Game.NumDecks < 1 {
		return fmt.Errorf("config: num_decks must be at least 1, got %d", c.Game.NumDecks)
	}
	if c.Game.MaxTableSize < 2 {
		return fmt.Errorf("config: max_table_size must be at least 2, got %d", c.Game.MaxTableSize)
	}
	if c.Game.Delay < 0 {
		return fmt.Errorf("config: delay must not be negative, got %v", c.Game.Delay)
	}
	if c.Tournament.AdvancePerTable < 1 {
		return fmt.Errorf("config: advance_per_table must be at least 1, got %d", c.Tournament.AdvancePerTable)
	}
	if c.Tournament.HandsPerMatch < 1 {
		return fmt.Errorf("config: hands_per_match must be at least 1, got %d", c.Tournament.HandsPerMatch)
	}
	if c.Tournament.BlindStepPerRound < 0 || c.Tournament.BlindStepPerTier < 0 {
		return fmt.Errorf("config: blind steps must not be negative")
	}
	seen := make(map[string]bool, len(c.Bots))
	for _, bot := range c.Bots {
		if seen[bot.Name] {
			return fmt.Errorf("config: duplicate bot name %q", bot.Name)
		}
		seen[bot.Name] = true
		if bot.Port < 1 || bot.Port > 65535 {
			return fmt.Errorf("config: bot %q has invalid port %d", bot.Name, bot.Port)
		}
	}
	for i, lvl := range c.Tournament.BlindsSchedule {
		if lvl.Small < 0 || lvl.Big < 1 || lvl.Small > lvl.Big {
			return fmt.Errorf("config: blind level %d is invalid (small=%d big=%d)", i, lvl.Small, lvl.Big)
		}
	}
	return nil
}
