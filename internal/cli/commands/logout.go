package commands

import (
	"fmt"

	"github.com/churnvision/cvadmin/internal/api"
	"github.com/churnvision/cvadmin/internal/cli/auth"
	"github.com/churnvision/cvadmin/internal/cli/session"
	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential for a server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	return cmd
}

func runLogout(serverAlias string) error {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	// Purely local: clears the keyring entry, no request is sent.
	sess := session.New(api.New(server.URL), auth.Default)
	if err := sess.Logout(); err != nil {
		return err
	}

	fmt.Printf("✓ Logged out of %s (%s)\n", server.Alias, server.URL)
	return nil
}
