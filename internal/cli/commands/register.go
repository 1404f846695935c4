package commands

import (
	"fmt"
	"os"

	"github.com/churnvision/cvadmin/internal/cli/auth"
	"github.com/churnvision/cvadmin/internal/cli/session"
	"github.com/spf13/cobra"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var email, password, fullName, serverAlias string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an admin account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, email, password, fullName, serverAlias)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CVADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&fullName, "name", "", "Full name")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	return cmd
}

func runRegister(cmd *cobra.Command, email, password, fullName, serverAlias string) error {
	if email == "" {
		email = os.Getenv("CVADMIN_EMAIL")
	}
	if email == "" {
		return fmt.Errorf("email is required (use --email flag or CVADMIN_EMAIL env var)")
	}
	if fullName == "" {
		return fmt.Errorf("full name is required (use --name flag)")
	}

	client, server, err := newClient(serverAlias)
	if err != nil {
		return err
	}

	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	sess := session.New(client, auth.Default)

	fmt.Printf("Registering on %s (%s)...\n", server.Alias, server.URL)

	// Registration auto-logs-in; no separate confirmation step.
	user, err := sess.Register(cmd.Context(), email, password, fullName)
	if err != nil {
		return err
	}

	fmt.Println("✓ Account created and logged in!")
	fmt.Printf("  User: %s (%s)\n", user.FullName, user.Email)

	return nil
}
