package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/churnvision/cvadmin/internal/api"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewContractsCmd creates the contracts command group
func NewContractsCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "contracts",
		Short: "Manage tenant contracts",
	}
	cmd.PersistentFlags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	cmd.AddCommand(newContractsListCmd(&serverAlias))
	cmd.AddCommand(newContractsGetCmd(&serverAlias))
	cmd.AddCommand(newContractsCreateCmd(&serverAlias))
	cmd.AddCommand(newContractsUpdateCmd(&serverAlias))
	cmd.AddCommand(newContractsRenewCmd(&serverAlias))
	cmd.AddCommand(newContractsExpireCmd(&serverAlias))
	cmd.AddCommand(newContractsAssetsCmd(&serverAlias))

	return cmd
}

func printContractTable(contracts []api.Contract) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTENANT\tTYPE\tSTATUS\tENDS\tVALUE\tAUTO-RENEW")
	for _, c := range contracts {
		autoRenew := "no"
		if c.AutoRenew {
			autoRenew = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			c.ID, c.TenantID, c.ContractType, c.Status, c.EndDate, c.TotalContractValue, autoRenew)
	}
	w.Flush()
}

func newContractsListCmd(serverAlias *string) *cobra.Command {
	var tenantID, status string
	var expiringDays, skip, limit int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List contracts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			var contracts []api.Contract
			if cmd.Flags().Changed("expiring") {
				contracts, err = client.ListExpiringContracts(cmd.Context(), expiringDays)
			} else {
				contracts, err = client.ListContracts(cmd.Context(), tenantID, status, skip, limit)
			}
			if err != nil {
				return withAuthHint(err)
			}

			if len(contracts) == 0 {
				fmt.Println("No contracts found.")
				return nil
			}

			printContractTable(contracts)
			return nil
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant", "", "Only contracts for this tenant ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (ACTIVE, PENDING_RENEWAL, EXPIRED)")
	cmd.Flags().IntVar(&expiringDays, "expiring", 90, "Only contracts ending within this many days")
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of contracts to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of contracts to return")

	return cmd
}

func newContractsGetCmd(serverAlias *string) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "get <contract-id>",
		Short: "Show contract details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid contract ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			contract, err := client.GetContract(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if outputFormat != "" {
				return printResource(os.Stdout, contract, outputFormat)
			}

			fmt.Printf("Contract:      %s\n", contract.ID)
			fmt.Printf("Tenant:        %s\n", contract.TenantID)
			fmt.Printf("Type:          %s\n", orDash(contract.ContractType))
			fmt.Printf("Status:        %s\n", contract.Status)
			fmt.Printf("Term:          %s to %s\n", contract.StartDate, contract.EndDate)
			fmt.Printf("Value:         %.2f\n", contract.TotalContractValue)
			fmt.Printf("Payment terms: %s\n", orDash(contract.PaymentTerms))
			fmt.Printf("Auto-renew:    %t (notice %d days)\n", contract.AutoRenew, contract.NoticePeriodDays)
			if contract.DocumentURL != "" {
				fmt.Printf("Document:      %s\n", contract.DocumentURL)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format (json, yaml)")

	return cmd
}

func newContractsCreateCmd(serverAlias *string) *cobra.Command {
	var tenantID, contractType, start, end, paymentTerms, documentURL string
	var value float64
	var autoRenew bool
	var noticeDays int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a new contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(tenantID)
			if err != nil {
				return fmt.Errorf("invalid tenant ID '%s': %w", tenantID, err)
			}
			startDate, err := parseDayFlag("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseDayFlag("end", end)
			if err != nil {
				return err
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			req := api.ContractCreate{
				TenantID:           id,
				ContractType:       contractType,
				StartDate:          startDate,
				EndDate:            endDate,
				NoticePeriodDays:   noticeDays,
				TotalContractValue: value,
				PaymentTerms:       paymentTerms,
				DocumentURL:        documentURL,
			}
			if cmd.Flags().Changed("auto-renew") {
				req.AutoRenew = &autoRenew
			}

			contract, err := client.CreateContract(cmd.Context(), req)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Contract %s recorded, runs until %s\n", contract.ID, contract.EndDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&contractType, "type", "subscription", "Contract type")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&value, "value", 0, "Total contract value")
	cmd.Flags().BoolVar(&autoRenew, "auto-renew", false, "Renew automatically at term end")
	cmd.Flags().IntVar(&noticeDays, "notice-days", 30, "Cancellation notice period in days")
	cmd.Flags().StringVar(&paymentTerms, "payment-terms", "", "Payment terms, e.g. NET30")
	cmd.Flags().StringVar(&documentURL, "document-url", "", "Link to the signed document")
	cmd.MarkFlagRequired("tenant")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")

	return cmd
}

func newContractsUpdateCmd(serverAlias *string) *cobra.Command {
	var end, paymentTerms, documentURL, status string
	var value float64
	var autoRenew bool

	cmd := &cobra.Command{
		Use:   "update <contract-id>",
		Short: "Update contract terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid contract ID '%s': %w", args[0], err)
			}

			var update api.ContractUpdate
			changed := false
			if cmd.Flags().Changed("end") {
				endDate, err := parseDayFlag("end", end)
				if err != nil {
					return err
				}
				update.EndDate = &endDate
				changed = true
			}
			if cmd.Flags().Changed("value") {
				update.TotalContractValue = &value
				changed = true
			}
			if cmd.Flags().Changed("auto-renew") {
				update.AutoRenew = &autoRenew
				changed = true
			}
			if cmd.Flags().Changed("payment-terms") {
				update.PaymentTerms = &paymentTerms
				changed = true
			}
			if cmd.Flags().Changed("document-url") {
				update.DocumentURL = &documentURL
				changed = true
			}
			if cmd.Flags().Changed("status") {
				update.Status = &status
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to update: pass at least one flag")
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			contract, err := client.UpdateContract(cmd.Context(), args[0], update)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Contract %s updated (%s, ends %s)\n", contract.ID, contract.Status, contract.EndDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&end, "end", "", "New end date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&value, "value", 0, "New total contract value")
	cmd.Flags().BoolVar(&autoRenew, "auto-renew", false, "Renew automatically at term end")
	cmd.Flags().StringVar(&paymentTerms, "payment-terms", "", "Payment terms, e.g. NET30")
	cmd.Flags().StringVar(&documentURL, "document-url", "", "Link to the signed document")
	cmd.Flags().StringVar(&status, "status", "", "Status (ACTIVE, PENDING_RENEWAL, EXPIRED)")

	return cmd
}

func newContractsRenewCmd(serverAlias *string) *cobra.Command {
	var end string
	var value float64

	cmd := &cobra.Command{
		Use:   "renew <contract-id>",
		Short: "Renew a contract with a new end date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid contract ID '%s': %w", args[0], err)
			}
			endDate, err := parseDayFlag("end", end)
			if err != nil {
				return err
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			var newValue *float64
			if cmd.Flags().Changed("value") {
				newValue = &value
			}

			contract, err := client.RenewContract(cmd.Context(), args[0], endDate, newValue)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Contract %s renewed until %s\n", contract.ID, contract.EndDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&end, "end", "", "New end date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&value, "value", 0, "New total contract value")
	cmd.MarkFlagRequired("end")

	return cmd
}

func newContractsExpireCmd(serverAlias *string) *cobra.Command {
	return &cobra.Command{
		Use:   "expire <contract-id>",
		Short: "Mark a contract as expired",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid contract ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			contract, err := client.ExpireContract(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Contract %s marked %s\n", contract.ID, contract.Status)
			return nil
		},
	}
}

func newContractsAssetsCmd(serverAlias *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage contract documents and artifacts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls <contract-id>",
		Aliases: []string{"list"},
		Short:   "List assets attached to a contract",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid contract ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			assets, err := client.ListContractAssets(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if len(assets) == 0 {
				fmt.Println("No assets found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tURL")
			for _, a := range assets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.AssetType, orDash(a.URL))
			}
			w.Flush()
			return nil
		},
	})

	var name, assetType, url string
	addCmd := &cobra.Command{
		Use:   "add <contract-id>",
		Short: "Attach an asset to a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid contract ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			asset, err := client.AddContractAsset(cmd.Context(), args[0], api.AssetCreate{
				Name:      name,
				AssetType: assetType,
				URL:       url,
			})
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Asset %s attached\n", asset.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "Asset name")
	addCmd.Flags().StringVar(&assetType, "type", "document", "Asset type")
	addCmd.Flags().StringVar(&url, "url", "", "Asset URL")
	addCmd.MarkFlagRequired("name")
	cmd.AddCommand(addCmd)

	return cmd
}

// parseDayFlag parses a YYYY-MM-DD flag value.
func parseDayFlag(flag, value string) (api.Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return api.Date{}, fmt.Errorf("invalid --%s date '%s': expected YYYY-MM-DD", flag, value)
	}
	return api.NewDate(t.Year(), t.Month(), t.Day()), nil
}
