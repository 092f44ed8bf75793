package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <collection> <id>",
	Short: "Delete an item from a collection",
	Long:  "Delete the item with the given id from one of: activities, meals, future, wishes, learning.",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := resolveConnectedClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeleteItem(ctx, args[0], args[1]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from %s\n", args[1], args[0])
	return nil
}
