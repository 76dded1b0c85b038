package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/tui"
)

var errNoTerminal = errors.New("letters browse needs an interactive terminal; use 'suratku letters list' instead")

func newLettersBrowseCmd() *cobra.Command {
	var filters letterFilterFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse letters interactively",
		Long: `Opens a full-screen letter browser.

Keys: pgup/pgdown or h/l change page, home/end jump to the first or last page,
+/- cycle the page size, / searches, enter shows a letter, d deletes it,
r reloads and q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !outputIsTerminal(cmd) {
				return errNoTerminal
			}
			filter, err := filters.filter()
			if err != nil {
				return err
			}
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}

			b := a.newBrowser(configuredPageSize())
			defer b.Close()

			model := tui.NewBrowserModel(cmd.Context(), a.client, b, filter, dateFormatter())
			final, err := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			if err != nil {
				return fmt.Errorf("failed to run interactive TUI: %w", err)
			}
			if m, ok := final.(tui.BrowserModel); ok && m.Err() != nil {
				return a.wrap(m.Err(), "browsing letters")
			}
			return nil
		},
	}

	filters.register(cmd)
	return cmd
}
