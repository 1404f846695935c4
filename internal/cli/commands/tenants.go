package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/churnvision/cvadmin/internal/api"
	"github.com/spf13/cobra"
)

// NewTenantsCmd creates the tenants command group
func NewTenantsCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:     "tenants",
		Aliases: []string{"tenant"},
		Short:   "Manage tenants",
	}
	cmd.PersistentFlags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	cmd.AddCommand(newTenantsListCmd(&serverAlias))
	cmd.AddCommand(newTenantsGetCmd(&serverAlias))
	cmd.AddCommand(newTenantsCreateCmd(&serverAlias))
	cmd.AddCommand(newTenantsUpdateCmd(&serverAlias))
	cmd.AddCommand(newTenantsDeleteCmd(&serverAlias))
	cmd.AddCommand(newTenantsConfigCmd(&serverAlias))
	cmd.AddCommand(newTenantsDeploymentsCmd(&serverAlias))
	cmd.AddCommand(newTenantsInstallPackageCmd(&serverAlias))

	return cmd
}

func newTenantsListCmd(serverAlias *string) *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			tenants, err := client.ListTenants(cmd.Context(), skip, limit)
			if err != nil {
				return withAuthHint(err)
			}

			if len(tenants) == 0 {
				fmt.Println("No tenants found.")
				fmt.Println("\nOnboard one with: cvadmin tenants create --name <name> --slug <slug>")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME\tSTATUS\tTIER\tMAX USERS\tCREATED")
			for _, t := range tenants {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					t.Slug, t.Name, t.Status, t.Tier, t.MaxUsers, fmtDay(t.CreatedAt))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Number of tenants to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of tenants to return")

	return cmd
}

func newTenantsGetCmd(serverAlias *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <slug>",
		Short: "Show one tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			tenant, err := client.GetTenant(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if output != "" {
				return printResource(cmd.OutOrStdout(), tenant, output)
			}

			fmt.Printf("Tenant:    %s (%s)\n", tenant.Name, tenant.Slug)
			fmt.Printf("Status:    %s\n", tenant.Status)
			fmt.Printf("Tier:      %s\n", tenant.Tier)
			fmt.Printf("Max users: %d\n", tenant.MaxUsers)
			if tenant.MaxEmployees != nil {
				fmt.Printf("Max employees: %d\n", *tenant.MaxEmployees)
			}
			if len(tenant.FeaturesEnabled) > 0 {
				fmt.Printf("Features:  %s\n", strings.Join(tenant.FeaturesEnabled, ", "))
			}
			fmt.Printf("Created:   %s\n", fmtDay(tenant.CreatedAt))
			for _, contact := range tenant.Contacts {
				fmt.Printf("Contact:   %s <%s> %s\n", contact.Name, contact.Email, orDash(contact.Role))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json or yaml)")

	return cmd
}

func newTenantsCreateCmd(serverAlias *string) *cobra.Command {
	var req api.TenantCreate
	var maxUsers int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Onboard a new tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("max-users") {
				req.MaxUsers = &maxUsers
			}

			tenant, err := client.CreateTenant(cmd.Context(), req)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Tenant %s (%s) created with status %s\n", tenant.Name, tenant.Slug, tenant.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Tenant display name")
	cmd.Flags().StringVar(&req.Slug, "slug", "", "URL-safe unique identifier")
	cmd.Flags().StringVar(&req.EmailContact, "email", "", "Primary contact email")
	cmd.Flags().StringVar(&req.Industry, "industry", "", "Industry")
	cmd.Flags().StringVar(&req.Region, "region", "", "Region")
	cmd.Flags().StringVar(&req.Tier, "tier", api.TierStarter, "Pricing tier (STARTER, PROFESSIONAL, ENTERPRISE)")
	cmd.Flags().IntVar(&maxUsers, "max-users", 5, "Maximum admin users")
	cmd.Flags().IntVar(&req.ExpirationDays, "expiration-days", 365, "Initial license validity in days")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("slug")

	return cmd
}

func newTenantsUpdateCmd(serverAlias *string) *cobra.Command {
	var status, tier, name string
	var maxUsers int
	var features []string

	cmd := &cobra.Command{
		Use:   "update <slug>",
		Short: "Update a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			// Only explicitly set flags go in the partial update.
			var req api.TenantUpdate
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("status") {
				req.Status = &status
			}
			if cmd.Flags().Changed("tier") {
				req.Tier = &tier
			}
			if cmd.Flags().Changed("max-users") {
				req.MaxUsers = &maxUsers
			}
			if cmd.Flags().Changed("features") {
				req.FeaturesEnabled = features
			}

			tenant, err := client.UpdateTenant(cmd.Context(), args[0], req)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Tenant %s updated (status %s, tier %s)\n", tenant.Slug, tenant.Status, tenant.Tier)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tenant display name")
	cmd.Flags().StringVar(&status, "status", "", "Lifecycle status (TRIAL, ACTIVE, SUSPENDED, CHURNED)")
	cmd.Flags().StringVar(&tier, "tier", "", "Pricing tier (STARTER, PROFESSIONAL, ENTERPRISE)")
	cmd.Flags().IntVar(&maxUsers, "max-users", 0, "Maximum admin users")
	cmd.Flags().StringSliceVar(&features, "features", nil, "Enabled feature flags (replaces the whole set)")

	return cmd
}

func newTenantsDeleteCmd(serverAlias *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			if err := client.DeleteTenant(cmd.Context(), args[0]); err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Tenant %s deleted\n", args[0])
			return nil
		},
	}

	return cmd
}

func newTenantsConfigCmd(serverAlias *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage per-tenant configuration entries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ls <slug>",
		Short: "List config entries for a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			configs, err := client.ListTenantConfigs(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if len(configs) == 0 {
				fmt.Println("No config entries found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE")
			for _, c := range configs {
				fmt.Fprintf(w, "%s\t%s\n", c.Key, c.Value)
			}
			w.Flush()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <slug> <key>",
		Short: "Show one config value for a tenant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			config, err := client.GetTenantConfig(cmd.Context(), args[0], args[1])
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Println(config.Value)
			return nil
		},
	})

	sectionsCmd := &cobra.Command{
		Use:   "sections <slug>",
		Short: "Show a tenant's config grouped into feature flags, branding and limits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			sections, err := client.GetTenantConfigSections(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			return printResource(cmd.OutOrStdout(), sections, "json")
		},
	}
	cmd.AddCommand(sectionsCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "set <slug> <key> <value>",
		Short: "Set a config value for a tenant",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			config, err := client.SetTenantConfig(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ %s = %s\n", config.Key, config.Value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <slug> <key>",
		Short: "Delete a config entry for a tenant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			if err := client.DeleteTenantConfig(cmd.Context(), args[0], args[1]); err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Config key %s removed\n", args[1])
			return nil
		},
	})

	return cmd
}

func newTenantsDeploymentsCmd(serverAlias *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deployments",
		Short: "Track what versions tenants are running",
	}

	cmd.AddCommand(newDeploymentsListCmd(serverAlias))
	cmd.AddCommand(newDeploymentsGetCmd(serverAlias))
	cmd.AddCommand(newDeploymentsRecordCmd(serverAlias))

	return cmd
}

func newDeploymentsListCmd(serverAlias *string) *cobra.Command {
	var version string
	var unhealthy bool
	var skip, limit int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List deployments across all tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			var deployments []api.TenantDeployment
			switch {
			case unhealthy:
				deployments, err = client.ListUnhealthyDeployments(cmd.Context())
			case version != "":
				deployments, err = client.ListDeploymentsByVersion(cmd.Context(), version)
			default:
				deployments, err = client.ListDeployments(cmd.Context(), skip, limit)
			}
			if err != nil {
				return withAuthHint(err)
			}

			if len(deployments) == 0 {
				fmt.Println("No deployments found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TENANT ID\tVERSION\tENV\tSTATUS\tDEPLOYED")
			for _, d := range deployments {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					d.TenantID, d.CurrentVersion, d.Environment, d.Status, fmtDay(d.DeployedAt))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Only deployments running this version")
	cmd.Flags().BoolVar(&unhealthy, "unhealthy", false, "Only deployments with a non-healthy status")
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of deployments to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of deployments to return")

	return cmd
}

func newDeploymentsGetCmd(serverAlias *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <slug>",
		Short: "Show a tenant's current deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			deployment, err := client.GetTenantDeployment(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if output != "" {
				return printResource(cmd.OutOrStdout(), deployment, output)
			}

			fmt.Printf("Tenant:      %s\n", deployment.TenantID)
			fmt.Printf("Version:     %s\n", deployment.CurrentVersion)
			fmt.Printf("Environment: %s\n", orDash(deployment.Environment))
			fmt.Printf("Status:      %s\n", deployment.Status)
			fmt.Printf("Deployed:    %s by %s\n", fmtDay(deployment.DeployedAt), orDash(deployment.DeployedBy))
			if deployment.LastHealthCheck != nil {
				fmt.Printf("Last check:  %s\n", deployment.LastHealthCheck.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json or yaml)")

	return cmd
}

func newDeploymentsRecordCmd(serverAlias *string) *cobra.Command {
	var req api.TenantDeploymentCreate

	cmd := &cobra.Command{
		Use:   "record <slug>",
		Short: "Record a deployment for a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			deployment, err := client.RecordTenantDeployment(cmd.Context(), args[0], req)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Deployment of %s recorded for %s\n", deployment.CurrentVersion, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&req.CurrentVersion, "version", "", "Deployed version")
	cmd.Flags().StringVar(&req.Environment, "env", "production", "Environment name")
	cmd.Flags().StringVar(&req.DeployedBy, "by", "", "Who performed the deployment")
	cmd.MarkFlagRequired("version")

	return cmd
}

func newTenantsInstallPackageCmd(serverAlias *string) *cobra.Command {
	var opts api.InstallPackageOptions
	var out string

	cmd := &cobra.Command{
		Use:   "install-package <slug>",
		Short: "Download the installation ZIP for a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			dest := out
			if dest == "" {
				dest = fmt.Sprintf("%s-install.zip", args[0])
			}

			if err := client.DownloadInstallPackage(cmd.Context(), args[0], dest, opts); err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Installation package written to %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "f", "", "Destination file (default <slug>-install.zip)")
	cmd.Flags().StringVar(&opts.DockerImage, "docker-image", "", "Docker image to reference in the package")
	cmd.Flags().StringVar(&opts.AdminAPIURL, "admin-api-url", "", "Admin API URL baked into the package")

	return cmd
}
