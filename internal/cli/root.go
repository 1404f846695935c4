package cli

import (
	"fmt"
	"os"

	"github.com/churnvision/cvadmin/internal/cli/commands"
	"github.com/churnvision/cvadmin/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "cvadmin",
	Short: "ChurnVision - Admin console for the tenant management platform",
	Long: `ChurnVision admin CLI - Manage tenants, licenses, releases and billing.

Operates the ChurnVision management API: tenant onboarding, license
issuance, release tracking, invoicing, contracts and support.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real env vars win over file entries
		_ = godotenv.Load()
		logger.Init(os.Getenv("CVADMIN_LOG_LEVEL"), os.Getenv("CVADMIN_LOG_FORMAT"))
	},
}

func init() {
	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cvadmin version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewAccountCmd())
	rootCmd.AddCommand(commands.NewSelectServerCmd())
	rootCmd.AddCommand(commands.NewHealthCmd())
	rootCmd.AddCommand(commands.NewDashCmd())
	rootCmd.AddCommand(commands.NewDashboardCmd())
	rootCmd.AddCommand(commands.NewTenantsCmd())
	rootCmd.AddCommand(commands.NewLicensesCmd())
	rootCmd.AddCommand(commands.NewReleasesCmd())
	rootCmd.AddCommand(commands.NewBillingCmd())
	rootCmd.AddCommand(commands.NewContractsCmd())
	rootCmd.AddCommand(commands.NewSupportCmd())
	rootCmd.AddCommand(commands.NewWebhooksCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
