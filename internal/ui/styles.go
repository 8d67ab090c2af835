package ui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	titleStyle  = lipgloss.NewStyle().Bold(true)
	artistStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	likedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	badgeStyles = map[string]lipgloss.Style{
		"trending":    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		"popular":     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		"new-release": lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Bold(true),
	}
)
