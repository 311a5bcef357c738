// ABOUTME: Defines lipgloss style constants for the board columns, cards, and status bar.
// ABOUTME: Provides styleForColumn to map a column's selection state to its border style.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Column panels
	ColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
	FocusedColumnStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)

	// Column titles
	ColumnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("170"))

	// Cards
	CardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	SelectedCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("62")).
				Bold(true)
	StoryBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	TaskBadgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	CategoryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// Help line
	HelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// styleForColumn returns the border style for a column given its focus state.
func styleForColumn(focused bool) lipgloss.Style {
	if focused {
		return FocusedColumnStyle
	}
	return ColumnStyle
}
