package commands

import (
	"fmt"

	"github.com/churnvision/cvadmin/internal/api"
	"github.com/spf13/cobra"
)

// NewAccountCmd creates the account command group
func NewAccountCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your own admin account",
	}
	cmd.PersistentFlags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	var name, email string
	var changePassword bool
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var update api.UserUpdate
			if cmd.Flags().Changed("name") {
				update.FullName = &name
			}
			if cmd.Flags().Changed("email") {
				update.Email = &email
			}
			if changePassword {
				password, err := promptPassword("New password: ")
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
				update.Password = &password
			}
			if update.FullName == nil && update.Email == nil && update.Password == nil {
				return fmt.Errorf("nothing to update: pass --name, --email or --password")
			}

			client, _, err := newAuthedClient(serverAlias)
			if err != nil {
				return err
			}

			user, err := client.UpdateMe(cmd.Context(), update)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Profile updated: %s (%s)\n", user.FullName, user.Email)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&name, "name", "", "New full name")
	updateCmd.Flags().StringVar(&email, "email", "", "New email address")
	updateCmd.Flags().BoolVar(&changePassword, "password", false, "Prompt for a new password")
	cmd.AddCommand(updateCmd)

	return cmd
}
