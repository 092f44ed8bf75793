package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var logoutYes bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the family on this device",
	Long:  "Tear down the sync subscription and clear the locally stored session. The shared family data is untouched.",
	RunE:  runLogout,
}

func init() {
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false,
		"Skip the confirmation prompt")
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, _, err := resolveClient()
	if err != nil {
		return err
	}
	defer client.Close()

	session := client.Session()
	if session == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
		return nil
	}

	confirm := func() bool {
		if logoutYes {
			return true
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sign out %s from family %q? [y/N] ",
			session.User.Name, session.FamilyCode)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}

	before := client.Session()
	if err := client.Logout(confirm); err != nil {
		return err
	}
	if client.Session() == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Signed out of %q.\n", before.FamilyCode)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Logout cancelled.")
	}
	return nil
}
