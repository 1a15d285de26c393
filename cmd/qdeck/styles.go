package main

import "github.com/charmbracelet/lipgloss"

// Grid geometry, in terminal columns.
const (
	cellW        = 11 // one moment column
	labelVisualW = 7  // "q[12]──"
	gateNameW    = 5  // label inside a gate box
	gateBoxW     = 7  // ┤ + gateNameW + ├
	barW         = 24 // longest probability bar
)

var (
	panelBorder = lipgloss.RoundedBorder()

	circuitStyle = lipgloss.NewStyle().
			Border(panelBorder).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(1)

	qasmStyle = lipgloss.NewStyle().
			Border(panelBorder).
			BorderForeground(lipgloss.Color("#bb9af7")).
			Padding(0, 1)

	runStyle = lipgloss.NewStyle().
			Border(panelBorder).
			BorderForeground(lipgloss.Color("#2ac3de")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Border(panelBorder).
			BorderForeground(lipgloss.Color("#9ece6a")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	cursorBoxStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff9e64")).
			Bold(true)

	targetSelectStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#bb9af7")).
				Bold(true)

	activeGateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f7768e"))

	qubitLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	gateStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73daca"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2ac3de"))

	menuBorderStyle = lipgloss.NewStyle().
			Border(panelBorder).
			BorderForeground(lipgloss.Color("#ff9e64")).
			Padding(0, 1)

	menuSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ff9e64"))

	menuNormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5"))

	cbitLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68"))

	cbitWireStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	cbitConnectorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e0af68")).
				Bold(true)
)
