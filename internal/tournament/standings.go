package tournament

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/pokerbracket/internal/game"
)

var (
	boardTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			Bold(true)

	boardLeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFD700")).
				Bold(true)

	boardRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	boardRuleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// RenderStandings renders a chip-count leaderboard, chips descending. The
// input slice is not modified.
func RenderStandings(title string, players []*game.Player) string {
	ranked := append([]*game.Player(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Chips > ranked[j].Chips
	})

	rule := boardRuleStyle.Render(strings.Repeat("=", 40))

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(boardTitleStyle.Render(title) + "\n")
	b.WriteString(rule + "\n")
	for i, p := range ranked {
		row := fmt.Sprintf("%2d. %-20s %8d chips", i+1, p.Name, p.Chips)
		style := boardRowStyle
		if i == 0 {
			style = boardLeaderStyle
		}
		b.WriteString(style.Render(row) + "\n")
	}
	b.WriteString(rule)
	return b.String()
}
