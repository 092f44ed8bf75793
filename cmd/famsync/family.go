package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecofamily/famsync/pkg/famclient"
)

var familyPersonID int

var familyCmd = &cobra.Command{
	Use:   "family",
	Short: "Create or join a family",
}

var familyCreateCmd = &cobra.Command{
	Use:   "create <code>",
	Short: "Create a new family and sign in",
	Long:  "Create a new family namespace with the given code and sign this device in. Codes are case-insensitive and need a minimum length.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFamilyCreate,
}

var familyJoinCmd = &cobra.Command{
	Use:   "join <code>",
	Short: "Join an existing family and sign in",
	Args:  cobra.ExactArgs(1),
	RunE:  runFamilyJoin,
}

func init() {
	familyCmd.PersistentFlags().IntVar(&familyPersonID, "person", 0,
		"Roster id of the family member using this device")
	familyCmd.AddCommand(familyCreateCmd)
	familyCmd.AddCommand(familyJoinCmd)
}

func runFamilyCreate(cmd *cobra.Command, args []string) error {
	client, _, err := resolveClient()
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.CreateFamily(cmd.Context(), args[0], familyPersonID)
	if err != nil {
		if errors.Is(err, famclient.ErrConflict) {
			return fmt.Errorf("family code %q is already in use, join it instead", args[0])
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created family %q, signed in as %s\n",
		session.FamilyCode, session.User.Name)
	return nil
}

func runFamilyJoin(cmd *cobra.Command, args []string) error {
	client, _, err := resolveClient()
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.JoinFamily(cmd.Context(), args[0], familyPersonID)
	if err != nil {
		if errors.Is(err, famclient.ErrNotFound) {
			return fmt.Errorf("no family with code %q, create it first", args[0])
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Joined family %q, signed in as %s\n",
		session.FamilyCode, session.User.Name)
	return nil
}
