package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/modites/internal/data"
	"github.com/good-yellow-bee/modites/internal/mapview"
	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/roster"
)

var showHeight int

// showResult is the JSON shape of a member detail.
type showResult struct {
	Modite         *models.Modite    `json:"modite"`
	LocalTime      string            `json:"local_time"`
	TimeOfDay      string            `json:"time_of_day"`
	ProjectHeading string            `json:"project_heading"`
	Projects       []*models.Project `json:"projects"`
	Viewport       models.Viewport   `json:"viewport"`

	indicator roster.TimeOfDay
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a member with projects and map viewport",
	Long: `Fetch the roster and print one member's detail: contact handles,
local time, projects from the project database and the map viewport the
detail page would center on for a window of --height pixels.

Examples:
  modctl show U024BE7LH
  modctl show U024BE7LH --height 1080 -o json`,
	Args: cobra.ExactArgs(1),
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

		var projectSrc data.ProjectSource
		if _, err := os.Stat(dbPath); err == nil {
			db, err := openProjectDB()
			if err != nil {
				return err
			}
			defer db.Close()
			projectSrc = db.Projects()
		} else {
			PrintVerbose(cmd, "No project database at %s", dbPath)
		}

		store := data.NewStore(client, projectSrc, logger)
		if err := store.Load(context.Background()); err != nil {
			return err
		}

		detail, err := store.Detail(args[0])
		if err != nil {
			if data.IsNotFound(err) || errors.Is(err, data.ErrNotLoaded) {
				return fmt.Errorf("modite not found: %s", args[0])
			}
			return err
		}

		t := now()
		tod := roster.TimeOfDayAt(t, detail.Modite.TZ)
		res := showResult{
			Modite:         detail.Modite,
			LocalTime:      roster.LocalTime(t, detail.Modite.TZ),
			TimeOfDay:      tod.String(),
			ProjectHeading: detail.Heading,
			Projects:       detail.Projects,
			Viewport:       mapview.Focus(models.DefaultViewport(), detail.Modite, showHeight),
			indicator:      tod,
		}
		if res.Projects == nil {
			res.Projects = []*models.Project{}
		}
		return printDetail(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVar(&showHeight, "height", 800, "window height in pixels used for the map offset")
}

func printDetail(out io.Writer, res showResult) error {
	if GetOutput() == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	m := res.Modite

	fmt.Fprintf(out, "\n%s\n", m.RealName)
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(out, "  %-12s %s\n", label+":", value)
		}
	}
	field("ID", m.ID)
	field("Location", m.Profile.Fields.Location)
	field("Local time", res.indicator.Emoji()+" "+res.LocalTime)
	field("Title", m.Profile.Fields.Title)
	if m.Profile.DisplayName != "" {
		field("Handle", "@"+m.Profile.DisplayName)
	}
	field("Profile", m.Profile.Title)
	if m.Tacos > 0 {
		field("Tacos", fmt.Sprintf("🌮 %d", m.Tacos))
	}
	field("GitHub", m.GitHubURL())
	field("Skype", m.SkypeURL())

	fmt.Fprintf(out, "\n%s\n", res.ProjectHeading)
	if len(res.Projects) == 0 {
		fmt.Fprintf(out, "  %s\n", roster.NoProjectsMessage)
	}
	for _, p := range res.Projects {
		if p.Description != "" {
			fmt.Fprintf(out, "  %s - %s\n", p.Name, p.Description)
		} else {
			fmt.Fprintf(out, "  %s\n", p.Name)
		}
	}

	vp := res.Viewport
	fmt.Fprintln(out, "\nMap")
	fmt.Fprintf(out, "  Center: %.4f, %.4f (zoom %g)\n", vp.Latitude, vp.Longitude, vp.Zoom)
	if vp.Modite != nil {
		loc := vp.Modite.Location()
		fmt.Fprintf(out, "  Marker: %.4f, %.4f\n", loc.Lat, loc.Lon)
	} else {
		fmt.Fprintln(out, "  Marker: none")
	}
	return nil
}
