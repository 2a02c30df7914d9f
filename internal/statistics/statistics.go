// Package statistics tracks engine-side counters across a tournament:
// hands dealt, actions applied, fail-closed folds and shoe resets. All
// methods are safe on a nil *Tracker so callers can leave collection off.
package statistics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Tracker accumulates tournament counters. Safe for concurrent use.
type Tracker struct {
	mu           sync.Mutex
	hands        int
	skippedHands int
	showdowns    int
	splitPots    int
	actions      map[string]int
	failClosed   int
	deckResets   int
	eliminations int
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{actions: make(map[string]int)}
}

// RecordHand counts a completed hand
func (t *Tracker) RecordHand() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hands++
}

// RecordSkippedHand counts a hand skipped because too few seats could post
// the big blind.
func (t *Tracker) RecordSkippedHand() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.skippedHands++
}

// RecordShowdown counts a hand that reached showdown; split marks a tied pot
func (t *Tracker) RecordShowdown(split bool) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.showdowns++
	if split {
		t.splitPots++
	}
}

// RecordAction counts one applied action by wire name
func (t *Tracker) RecordAction(name string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.actions == nil {
		t.actions = make(map[string]int)
	}
	t.actions[name]++
}

// RecordFailClosed counts a transport anomaly converted to a Fold
func (t *Tracker) RecordFailClosed() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failClosed++
}

// RecordDeckReset counts a shoe verification failure that forced a reset
func (t *Tracker) RecordDeckReset() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deckResets++
}

// RecordElimination counts a busted player dropped from the tournament
func (t *Tracker) RecordElimination() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eliminations++
}

// Hands returns the number of completed hands
func (t *Tracker) Hands() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hands
}

// FailClosed returns the number of fail-closed folds
func (t *Tracker) FailClosed() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failClosed
}

// DeckResets returns the number of forced shoe resets
func (t *Tracker) DeckResets() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deckResets
}

// ActionCount returns how many times the named action was applied
func (t *Tracker) ActionCount(name string) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.actions[name]
}

// Summary renders a one-line report of the tournament counters
func (t *Tracker) Summary() string {
	if t == nil {
		return ""
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "hands=%d skipped=%d showdowns=%d split_pots=%d", t.hands, t.skippedHands, t.showdowns, t.splitPots)
	fmt.Fprintf(&b, " fail_closed=%d deck_resets=%d eliminations=%d", t.failClosed, t.deckResets, t.eliminations)

	names := make([]string, 0, len(t.actions))
	for name := range t.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%d", name, t.actions[name])
	}
	return b.String()
}
