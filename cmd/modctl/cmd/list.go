package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/good-yellow-bee/modites/internal/roster"
)

// now is the clock used for local times.
var now = time.Now

var listFilter string

// listEntry is the JSON shape of one roster row.
type listEntry struct {
	ID        string `json:"id"`
	RealName  string `json:"real_name"`
	TZ        string `json:"tz"`
	LocalTime string `json:"local_time"`
	TimeOfDay string `json:"time_of_day"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the roster",
	Long: `Fetch the roster, sort it by last name and print every member with
their local time and day/night indicator (💤 outside 8:00-22:00 local time).

Examples:
  modctl list
  modctl list --filter ann
  modctl list -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		client, err := newRosterClient(logger)
		if err != nil {
			return err
		}

		PrintVerbose(cmd, "Fetching roster from %s", client.URL())
		modites, err := client.FetchRoster(context.Background())
		if err != nil {
			return fmt.Errorf("fetch roster: %w", err)
		}

		entries := roster.Entries(roster.SortByLastName(modites), listFilter, now())
		return printEntries(cmd.OutOrStdout(), entries)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "case-insensitive filter on real name")
}

func printEntries(out io.Writer, entries []roster.Entry) error {
	switch GetOutput() {
	case "json":
		rows := make([]listEntry, len(entries))
		for i, e := range entries {
			rows[i] = listEntry{
				ID:        e.Modite.ID,
				RealName:  e.Modite.RealName,
				TZ:        e.Modite.TZ,
				LocalTime: e.LocalTime,
				TimeOfDay: e.TimeOfDay.String(),
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)

	case "plain":
		for _, e := range entries {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", e.Modite.ID, e.TimeOfDay.Emoji(), e.Modite.RealName, e.LocalTime)
		}
		return nil
	}

	nameWidth := terminalWidth(out) - 36
	if nameWidth < 16 {
		nameWidth = 16
	}
	if nameWidth > 40 {
		nameWidth = 40
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No Modites found.")
		return nil
	}

	fmt.Fprintf(out, "%-12s  %-4s  %-*s  %s\n", "ID", "", nameWidth, "NAME", "LOCAL TIME")
	fmt.Fprintln(out, strings.Repeat("-", 12+2+4+2+nameWidth+2+10))
	for _, e := range entries {
		fmt.Fprintf(out, "%-12s  %-3s  %-*s  %s\n",
			truncate(e.Modite.ID, 12), e.TimeOfDay.Emoji(), nameWidth, truncate(e.Modite.RealName, nameWidth), e.LocalTime)
	}
	fmt.Fprintf(out, "\nTotal: %d modite(s)\n", len(entries))
	return nil
}

// terminalWidth returns the width of out when it is a terminal, else 80.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 80
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// truncate truncates a string to the given number of runes.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-2]) + ".."
}
