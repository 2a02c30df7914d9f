package game

import "fmt"

// ActionType identifies a player move
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Raise
)

// String returns the wire name of the action type
func (a ActionType) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

// Action is a player's move. Amount is only meaningful for Raise and carries
// raise-to semantics: the absolute number of chips the raiser wants committed
// on the table this street, not a delta on top of the current bet.
type Action struct {
	Type   ActionType
	Amount int
}

// FoldAction is the zero action, used as the fail-closed default
func FoldAction() Action { return Action{Type: Fold} }

// String renders the action for logs and the last_action field
func (a Action) String() string {
	if a.Type == Raise {
		return fmt.Sprintf("raise(%d)", a.Amount)
	}
	return a.Type.String()
}
