package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecofamily/famsync/internal/config"
	"github.com/ecofamily/famsync/internal/types"
	"github.com/ecofamily/famsync/internal/week"
)

var weekOffset int

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the family week",
	Long:  "Print the activities and meals of the week, Monday first. Use --offset to move whole weeks back or forward.",
	RunE:  runWeek,
}

func init() {
	weekCmd.Flags().IntVar(&weekOffset, "offset", 0,
		"Whole weeks relative to the current one (-1 is last week)")
}

func runWeek(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, cfg, err := resolveConnectedClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	data, err := client.Data()
	if err != nil {
		return err
	}

	renderWeek(cmd.OutOrStdout(), data, cfg.Family, time.Now(), weekOffset)
	return nil
}

// renderWeek prints one calendar week of activities and meals.
func renderWeek(out io.Writer, data types.SharedData, family config.FamilyConfig, now time.Time, offset int) {
	dates := week.Window(now, offset)
	fmt.Fprintf(out, "Vecka %s - %s\n\n",
		week.FormatDate(dates[0]), week.FormatDate(dates[6]))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, date := range dates {
		day := week.FormatDate(date)
		fmt.Fprintf(w, "%s %s\n", week.DayNameLong(date), day)

		planned := false
		activities := activitiesOn(data, day)
		sort.Slice(activities, func(i, j int) bool {
			return activities[i].Time < activities[j].Time
		})
		for _, a := range activities {
			name := fmt.Sprintf("#%d", a.Person)
			if p, ok := family.PersonByID(a.Person); ok {
				name = p.Name
			}
			fmt.Fprintf(w, "\t%s\t%s\t%s\n", a.Time, name, a.Title)
			planned = true
		}
		for _, m := range data.Meals {
			if m.Date == day {
				fmt.Fprintf(w, "\t%s\tMiddag\t%s (%d port)\n",
					family.DefaultMealTime, m.Dish, m.Portions)
				planned = true
			}
		}
		if !planned {
			fmt.Fprintf(w, "\t\t\tInget planerat\n")
		}
	}
	w.Flush()
}

func activitiesOn(data types.SharedData, date string) []types.Activity {
	var out []types.Activity
	for _, a := range data.Activities {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out
}
