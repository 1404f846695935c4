package commands

import (
	"fmt"

	"github.com/churnvision/cvadmin/internal/cli/auth"
	"github.com/churnvision/cvadmin/internal/cli/session"
	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var serverAlias, output string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd, serverAlias, output)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json or yaml)")

	return cmd
}

func runWhoami(cmd *cobra.Command, serverAlias, output string) error {
	client, server, err := newClient(serverAlias)
	if err != nil {
		return err
	}

	// Restore validates the stored token against /auth/me and clears it on
	// failure, so a stale credential never survives a whoami.
	sess := session.New(client, auth.Default)
	if err := sess.Restore(cmd.Context()); err != nil {
		return fmt.Errorf("session restore failed: %w\nRun 'cvadmin login' to authenticate", err)
	}

	if sess.State() != session.Authenticated {
		return fmt.Errorf("not authenticated to %s. Run 'cvadmin login' first", server.URL)
	}

	user := sess.User()
	if output != "" {
		return printResource(cmd.OutOrStdout(), user, output)
	}

	fmt.Printf("Server: %s (%s)\n", server.Alias, server.URL)
	fmt.Printf("User:   %s (%s)\n", user.FullName, user.Email)
	if user.IsSuperuser {
		fmt.Println("Role:   Superuser")
	}
	if !user.IsActive {
		fmt.Println("Note:   account is inactive")
	}
	return nil
}
