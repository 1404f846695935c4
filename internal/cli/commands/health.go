package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health command. The endpoint is unauthenticated,
// so this works before login.
func NewHealthCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the admin server is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, server, err := newClient(serverAlias)
			if err != nil {
				return err
			}

			status, err := client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("server %s is not reachable: %w", server.URL, err)
			}

			fmt.Printf("✓ %s is %s (API %s)\n", server.URL, status.Status, status.APIVersion)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	return cmd
}
