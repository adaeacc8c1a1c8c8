package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/modites/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the roster interactively",
	Long: `Open the roster in the terminal. Local times refresh every minute.

Keys:
  /        filter by name
  esc      leave the filter
  enter    acknowledge the selected member
  q        quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Logs would corrupt the alternate screen.
		client, err := newRosterClient(zap.NewNop())
		if err != nil {
			return err
		}

		p := tea.NewProgram(tui.New(client.FetchRoster),
			tea.WithAltScreen(),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
