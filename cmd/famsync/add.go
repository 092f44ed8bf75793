package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecofamily/famsync/internal/parse"
	"github.com/ecofamily/famsync/internal/week"
)

var (
	addPersonID int
	addDate     string
	addTime     string
	addText     string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add an activity to the family calendar",
	Long:  "Add an activity for a family member on a date. With --text the free-form description is run through the activity parser instead.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().IntVar(&addPersonID, "person", 0,
		"Roster id of the person the activity belongs to")
	addCmd.Flags().StringVar(&addDate, "date", "",
		"Date in YYYY-MM-DD (default: today)")
	addCmd.Flags().StringVar(&addTime, "time", "",
		"Start time in HH:MM (default: the configured activity time)")
	addCmd.Flags().StringVar(&addText, "text", "",
		"Free-form description to parse, e.g. \"Linnéa fotboll onsdag 17\"")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := resolveConnectedClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	title := ""
	if len(args) == 1 {
		title = args[0]
	}

	if addText != "" {
		var parser parse.Parser = parse.NoopParser{}
		result, err := parser.Parse(ctx, addText)
		if err != nil {
			return fmt.Errorf("parse activity text: %w", err)
		}
		if result.Confidence == 0 {
			return fmt.Errorf("could not understand %q, add the activity with --person, --date and --time instead", addText)
		}
		title = result.Title
		addPersonID = result.PersonID
		addDate = result.Date
		addTime = result.Time
	}

	if addDate == "" {
		addDate = time.Now().Format(week.DateFormat)
	}

	activity, err := client.AddActivity(ctx, title, addPersonID, addDate, addTime)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %q on %s at %s (id %s)\n",
		activity.Title, activity.Date, activity.Time, activity.ID)
	return nil
}
