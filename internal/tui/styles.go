// Package tui holds the interactive terminal views built on Bubble Tea.
package tui

import "github.com/charmbracelet/lipgloss"

// Colors shared by the views.
const (
	ColorHeader   = lipgloss.Color("63")
	ColorLabel    = lipgloss.Color("245")
	ColorValue    = lipgloss.Color("252")
	ColorCritical = lipgloss.Color("196")
	ColorOK       = lipgloss.Color("42")
	ColorSubtle   = lipgloss.Color("241")
	ColorSelected = lipgloss.Color("229")
	ColorAccent   = lipgloss.Color("57")
)

// Layout defaults used before the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 24
	borderPadding = 2
)

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCritical)
	OKStyle       = lipgloss.NewStyle().Foreground(ColorOK)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorSubtle)
	InfoStyle     = lipgloss.NewStyle().Foreground(ColorSelected).Background(ColorAccent)
	BoxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorHeader).
			Padding(0, 1)
)
