package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/churnvision/cvadmin/internal/cli/auth"
	"github.com/churnvision/cvadmin/internal/cli/session"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a ChurnVision admin server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, email, password, serverAlias)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CVADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set CVADMIN_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	return cmd
}

func runLogin(cmd *cobra.Command, email, password, serverAlias string) error {
	// Environment variables are the non-interactive path for CI/CD.
	if email == "" {
		email = os.Getenv("CVADMIN_EMAIL")
	}
	if password == "" {
		password = os.Getenv("CVADMIN_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or CVADMIN_EMAIL env var)")
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
	}

	sess := session.New(client, auth.Default)

	fmt.Printf("Logging in to %s (%s)...\n", server.Alias, server.URL)

	user, err := sess.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", user.FullName, user.Email)
	if user.IsSuperuser {
		fmt.Println("  Role: Superuser")
	}

	return nil
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(label string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or CVADMIN_PASSWORD env var)")
	}

	fmt.Print(label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()
	return string(bytePassword), nil
}
