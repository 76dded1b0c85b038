package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState is the screen a model is showing.
type ViewState int

// View states.
const (
	ViewStateLoading ViewState = iota
	ViewStateList
	ViewStateDetail
	ViewStateConfirmDelete
	ViewStateError
	ViewStateQuitting
)

// Key names matched against tea.KeyMsg.String().
const (
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
	keyEnter     = "enter"
	keyEsc       = "esc"
	keySlash     = "/"
	keyPgUp      = "pgup"
	keyPgDown    = "pgdown"
	keyPrevPage  = "h"
	keyNextPage  = "l"
	keyHome      = "home"
	keyEnd       = "end"
	keyGrow      = "+"
	keyShrink    = "-"
	keyDelete    = "d"
	keyReload    = "r"
	keyYes       = "y"
	keyNo        = "n"
	keyBackspace = "backspace"
)

// LoadingState is a spinner with a message.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState returns a spinner showing message.
func NewLoadingState(message string) *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = HeaderStyle
	return &LoadingState{spinner: s, message: message}
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// SetMessage replaces the message.
func (l *LoadingState) SetMessage(message string) {
	l.message = message
}

// View renders the spinner and message on one line.
func (l *LoadingState) View() string {
	return l.spinner.View() + " " + l.message
}
