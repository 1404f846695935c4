package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/churnvision/cvadmin/internal/api"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewDashboardCmd creates the dashboard command. Stats and the activity
// feed are fetched concurrently; either failure fails the command.
func NewDashboardCmd() *cobra.Command {
	var serverAlias, outputFormat string
	var activityLimit int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Platform overview: tenant counts, MRR, recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(serverAlias)
			if err != nil {
				return err
			}

			var (
				stats    *api.DashboardStats
				activity []api.ActivityItem
			)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				stats, err = client.GetDashboardStats(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				activity, err = client.GetRecentActivity(ctx, activityLimit)
				return err
			})
			if err := g.Wait(); err != nil {
				return withAuthHint(err)
			}

			if outputFormat != "" {
				combined := struct {
					Stats    *api.DashboardStats `json:"stats" yaml:"stats"`
					Activity []api.ActivityItem  `json:"activity" yaml:"activity"`
				}{stats, activity}
				return printResource(os.Stdout, combined, outputFormat)
			}

			fmt.Printf("Tenants:           %d total, %d active, %d trial\n",
				stats.TotalTenants, stats.ActiveTenants, stats.TrialTenants)
			fmt.Printf("MRR:               %.2f\n", stats.MRR)
			fmt.Printf("Latest release:    %s (%d tenants on it)\n",
				orDash(stats.LatestVersion), stats.TenantsOnLatest)
			fmt.Printf("Expiring licenses: %d\n", stats.ExpiringLicensesCount)
			fmt.Printf("Overdue invoices:  %d\n", stats.OverdueInvoicesCount)
			if stats.DeprecatedVersionTenants > 0 {
				fmt.Printf("On deprecated versions: %d tenants\n", stats.DeprecatedVersionTenants)
			}

			if len(activity) > 0 {
				fmt.Println("\nRecent activity:")
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				for _, item := range activity {
					fmt.Fprintf(w, "  %s\t%s\t%s\n",
						item.Timestamp.Format("2006-01-02 15:04"), item.TenantName, item.Action)
				}
				w.Flush()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format (json, yaml)")
	cmd.Flags().IntVar(&activityLimit, "activity", 10, "Number of activity entries to show")

	return cmd
}
