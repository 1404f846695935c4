package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/churnvision/cvadmin/internal/api"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewLicensesCmd creates the licenses command group
func NewLicensesCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:     "licenses",
		Aliases: []string{"license"},
		Short:   "Issue, extend and revoke licenses",
	}
	cmd.PersistentFlags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	cmd.AddCommand(newLicensesListCmd(&serverAlias))
	cmd.AddCommand(newLicensesGetCmd(&serverAlias))
	cmd.AddCommand(newLicensesIssueCmd(&serverAlias))
	cmd.AddCommand(newLicensesExtendCmd(&serverAlias))
	cmd.AddCommand(newLicensesRevokeCmd(&serverAlias))
	cmd.AddCommand(newLicensesAuditCmd(&serverAlias))
	cmd.AddCommand(newLicensesValidateCmd(&serverAlias))
	cmd.AddCommand(newLicensesInspectCmd())

	return cmd
}

func printLicenseTable(licenses []api.License) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTENANT\tISSUED\tEXPIRES\tREVOKED")
	for _, l := range licenses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n",
			l.ID, l.TenantID, fmtDay(l.IssuedAt), fmtDay(l.ExpiresAt), l.Revoked)
	}
	w.Flush()
}

func newLicensesListCmd(serverAlias *string) *cobra.Command {
	var tenantID string
	var skip, limit int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List licenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			var licenses []api.License
			if tenantID != "" {
				id, err := uuid.Parse(tenantID)
				if err != nil {
					return fmt.Errorf("invalid tenant ID '%s': %w", tenantID, err)
				}
				licenses, err = client.ListTenantLicenses(cmd.Context(), id)
				if err != nil {
					return withAuthHint(err)
				}
			} else {
				licenses, err = client.ListLicenses(cmd.Context(), skip, limit)
				if err != nil {
					return withAuthHint(err)
				}
			}

			if len(licenses) == 0 {
				fmt.Println("No licenses found.")
				return nil
			}

			printLicenseTable(licenses)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Only licenses for this tenant ID")
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of licenses to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of licenses to return")

	return cmd
}

func newLicensesGetCmd(serverAlias *string) *cobra.Command {
	var output string
	var showKey bool

	cmd := &cobra.Command{
		Use:   "get <license-id>",
		Short: "Show one license",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid license ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			license, err := client.GetLicense(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if output != "" {
				return printResource(cmd.OutOrStdout(), license, output)
			}

			fmt.Printf("License: %s\n", license.ID)
			fmt.Printf("Tenant:  %s\n", license.TenantID)
			fmt.Printf("Issued:  %s\n", fmtDay(license.IssuedAt))
			fmt.Printf("Expires: %s\n", fmtDay(license.ExpiresAt))
			fmt.Printf("Revoked: %v\n", license.Revoked)
			if showKey {
				fmt.Printf("Key:     %s\n", license.KeyString)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json or yaml)")
	cmd.Flags().BoolVar(&showKey, "show-key", false, "Print the license key string")

	return cmd
}

func newLicensesIssueCmd(serverAlias *string) *cobra.Command {
	var tenantID string
	var expirationDays, maxEmployees, maxUsers int
	var features []string
	var adminAPIKey string

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a new license for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(tenantID)
			if err != nil {
				return fmt.Errorf("invalid tenant ID '%s': %w", tenantID, err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			req := api.LicenseCreate{
				TenantID:       id,
				ExpirationDays: expirationDays,
				Features:       features,
			}
			if cmd.Flags().Changed("max-employees") {
				req.MaxEmployees = &maxEmployees
			}
			if cmd.Flags().Changed("max-users") {
				req.MaxUsers = &maxUsers
			}
			if adminAPIKey != "" {
				req.EmbeddedKeys = &api.EmbeddedKeys{AdminAPIKey: adminAPIKey}
			}

			license, err := client.IssueLicense(cmd.Context(), req)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ License %s issued, expires %s\n", license.ID, fmtDay(license.ExpiresAt))
			fmt.Printf("  Key: %s\n", license.KeyString)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID to license")
	cmd.Flags().IntVar(&expirationDays, "expiration-days", 365, "Validity in days")
	cmd.Flags().IntVar(&maxEmployees, "max-employees", 0, "Employee cap (omit for unlimited)")
	cmd.Flags().IntVar(&maxUsers, "max-users", 0, "Admin user cap")
	cmd.Flags().StringSliceVar(&features, "features", nil, "Feature flags to enable")
	cmd.Flags().StringVar(&adminAPIKey, "admin-api-key", "", "Admin API key to embed in the license")
	cmd.MarkFlagRequired("tenant")

	return cmd
}

func newLicensesExtendCmd(serverAlias *string) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "extend <license-id>",
		Short: "Extend a license's expiry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid license ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			license, err := client.ExtendLicense(cmd.Context(), args[0], days)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ License %s now expires %s\n", license.ID, fmtDay(license.ExpiresAt))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 365, "Additional days of validity")

	return cmd
}

func newLicensesRevokeCmd(serverAlias *string) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "revoke <license-id>",
		Short: "Revoke a license",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid license ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			license, err := client.RevokeLicense(cmd.Context(), args[0], reason)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ License %s revoked\n", license.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Revocation reason recorded in the audit log")

	return cmd
}

func newLicensesAuditCmd(serverAlias *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <license-id>",
		Short: "Show a license's audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid license ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			logs, err := client.GetLicenseAuditLog(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if len(logs) == 0 {
				fmt.Println("No audit entries found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tACTION\tBY")
			for _, entry := range logs {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					entry.PerformedAt.Format("2006-01-02 15:04"), entry.Action, orDash(entry.PerformedBy))
			}
			w.Flush()
			return nil
		},
	}

	return cmd
}

func newLicensesValidateCmd(serverAlias *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <key-string>",
		Short: "Ask the server for its verdict on a license key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			result, err := client.ValidateLicense(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if !result.Valid {
				fmt.Println("✗ License is NOT valid")
			} else {
				fmt.Println("✓ License is valid")
			}
			fmt.Printf("Company: %s\n", orDash(result.CompanyName))
			fmt.Printf("Tier:    %s\n", orDash(result.LicenseTier))
			fmt.Printf("Expires: %s\n", orDash(result.ExpiresAt))
			if result.DaysUntilExpiry != nil {
				fmt.Printf("Days left: %d\n", *result.DaysUntilExpiry)
			}
			if len(result.Features) > 0 {
				fmt.Printf("Features: %s\n", strings.Join(result.Features, ", "))
			}
			if result.Revoked {
				fmt.Printf("Revoked: yes (%s)\n", orDash(result.RevocationReason))
			}
			return nil
		},
	}

	return cmd
}

// inspect decodes a key locally, so it needs no server or credential.
func newLicensesInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <key-string>",
		Short: "Decode a license key's claims locally (no signature check)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := api.DecodeLicenseKey(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Issuer:   %s\n", orDash(claims.Issuer))
			fmt.Printf("Subject:  %s\n", orDash(claims.Subject))
			fmt.Printf("Issued:   %s\n", fmtDay(claims.IssuedAt))
			fmt.Printf("Expires:  %s\n", fmtDay(claims.Expires))
			if len(claims.Features) > 0 {
				fmt.Printf("Features: %s\n", strings.Join(claims.Features, ", "))
			}
			for k, v := range claims.Limits {
				fmt.Printf("Limit:    %s = %v\n", k, v)
			}
			return nil
		},
	}

	return cmd
}
