package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the persisted session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently signed-in user",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctrl := newController(cfg)
	if _, ok := ctrl.Current(); !ok {
		fmt.Println("Not signed in.")
		return nil
	}

	ctrl.Logout()
	fmt.Println("✓ Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	user, err := requireUser(newController(cfg))
	if err != nil {
		return err
	}

	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	fmt.Printf("  id: %s\n", user.ID)
	if user.AuthMethod != "" {
		fmt.Printf("  signed in via: %s\n", user.AuthMethod)
	}
	return nil
}
