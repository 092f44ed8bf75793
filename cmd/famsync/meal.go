package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecofamily/famsync/internal/week"
)

var (
	mealPortions int
	mealDate     string
)

var mealCmd = &cobra.Command{
	Use:   "meal <dish>",
	Short: "Plan a meal",
	Args:  cobra.ExactArgs(1),
	RunE:  runMeal,
}

func init() {
	mealCmd.Flags().IntVar(&mealPortions, "portions", 0,
		"Number of portions (default: the configured portion count)")
	mealCmd.Flags().StringVar(&mealDate, "date", "",
		"Date in YYYY-MM-DD (default: today)")
}

func runMeal(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := resolveConnectedClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if mealDate == "" {
		mealDate = time.Now().Format(week.DateFormat)
	}

	meal, err := client.AddMeal(ctx, args[0], mealPortions, mealDate)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Planned %q (%d portions) on %s (id %s)\n",
		meal.Dish, meal.Portions, meal.Date, meal.ID)
	return nil
}
