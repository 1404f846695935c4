package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/churnvision/cvadmin/internal/api"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewBillingCmd creates the billing command group
func NewBillingCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Manage subscriptions and invoices",
	}
	cmd.PersistentFlags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	cmd.AddCommand(newBillingOverviewCmd(&serverAlias))
	cmd.AddCommand(newSubscriptionsCmd(&serverAlias))
	cmd.AddCommand(newInvoicesCmd(&serverAlias))

	return cmd
}

// newBillingOverviewCmd fetches subscriptions, invoices and overdue invoices
// concurrently and renders them together. One failed fetch fails the whole
// view; there is no partial rendering.
func newBillingOverviewCmd(serverAlias *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Combined billing snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			var (
				subs    []api.Subscription
				recent  []api.Invoice
				overdue []api.Invoice
			)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				subs, err = client.ListSubscriptions(ctx, "", 0, 100)
				return err
			})
			g.Go(func() error {
				var err error
				recent, err = client.ListInvoices(ctx, "", 0, 20)
				return err
			})
			g.Go(func() error {
				var err error
				overdue, err = client.ListOverdueInvoices(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return withAuthHint(err)
			}

			active := 0
			for _, s := range subs {
				if s.Status == api.SubscriptionActive {
					active++
				}
			}

			fmt.Printf("Subscriptions: %d total, %d active\n", len(subs), active)
			fmt.Printf("Overdue invoices: %d\n\n", len(overdue))

			if len(recent) > 0 {
				fmt.Println("Recent invoices:")
				printInvoiceTable(recent)
			}
			return nil
		},
	}

	return cmd
}

func newSubscriptionsCmd(serverAlias *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs"},
		Short:   "Manage subscriptions",
	}

	var status, tenantID string
	var skip, limit int
	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			var subs []api.Subscription
			if tenantID != "" {
				id, err := uuid.Parse(tenantID)
				if err != nil {
					return fmt.Errorf("invalid tenant ID '%s': %w", tenantID, err)
				}
				subs, err = client.ListTenantSubscriptions(cmd.Context(), id)
				if err != nil {
					return withAuthHint(err)
				}
			} else {
				subs, err = client.ListSubscriptions(cmd.Context(), status, skip, limit)
				if err != nil {
					return withAuthHint(err)
				}
			}

			if len(subs) == 0 {
				fmt.Println("No subscriptions found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTENANT\tPLAN\tSTATUS\tPRICE\tNEXT INVOICE")
			for _, s := range subs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f %s\t%s\n",
					s.ID, s.TenantID, s.Plan, s.Status, s.BasePrice, s.Currency, s.NextInvoiceDate)
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status (ACTIVE, PAST_DUE, CANCELLED)")
	listCmd.Flags().StringVar(&tenantID, "tenant", "", "Only subscriptions for this tenant ID")
	listCmd.Flags().IntVar(&skip, "skip", 0, "Number of subscriptions to skip")
	listCmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of subscriptions to return")
	cmd.AddCommand(listCmd)

	var createTenant, plan, currency, paymentMethod string
	var basePrice float64
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Start a subscription for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(createTenant)
			if err != nil {
				return fmt.Errorf("invalid tenant ID '%s': %w", createTenant, err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			sub, err := client.CreateSubscription(cmd.Context(), api.SubscriptionCreate{
				TenantID:      id,
				Plan:          plan,
				BasePrice:     basePrice,
				Currency:      currency,
				PaymentMethod: paymentMethod,
			})
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Subscription %s created, next invoice %s\n", sub.ID, sub.NextInvoiceDate)
			return nil
		},
	}
	createCmd.Flags().StringVar(&createTenant, "tenant", "", "Tenant ID")
	createCmd.Flags().StringVar(&plan, "plan", api.PlanMonthly, "Plan (MONTHLY, ANNUAL, MULTI_YEAR)")
	createCmd.Flags().Float64Var(&basePrice, "price", 0, "Base price per cycle")
	createCmd.Flags().StringVar(&currency, "currency", "USD", "Currency code")
	createCmd.Flags().StringVar(&paymentMethod, "payment-method", "invoice", "Payment method")
	createCmd.MarkFlagRequired("tenant")
	createCmd.MarkFlagRequired("price")
	cmd.AddCommand(createCmd)

	var output string
	getCmd := &cobra.Command{
		Use:   "get <subscription-id>",
		Short: "Show subscription details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid subscription ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			sub, err := client.GetSubscription(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if output != "" {
				return printResource(os.Stdout, sub, output)
			}

			fmt.Printf("Subscription: %s\n", sub.ID)
			fmt.Printf("Tenant:       %s\n", sub.TenantID)
			fmt.Printf("Plan:         %s (%s)\n", sub.Plan, sub.Status)
			fmt.Printf("Price:        %.2f %s via %s\n", sub.BasePrice, sub.Currency, sub.PaymentMethod)
			fmt.Printf("Cycle start:  %s\n", sub.BillingCycleStart)
			fmt.Printf("Next invoice: %s\n", sub.NextInvoiceDate)
			return nil
		},
	}
	getCmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json, yaml)")
	cmd.AddCommand(getCmd)

	var updPlan, updStatus string
	var updPrice float64
	updateCmd := &cobra.Command{
		Use:   "update <subscription-id>",
		Short: "Change a subscription's plan, price or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid subscription ID '%s': %w", args[0], err)
			}

			var update api.SubscriptionUpdate
			if cmd.Flags().Changed("plan") {
				update.Plan = &updPlan
			}
			if cmd.Flags().Changed("price") {
				update.BasePrice = &updPrice
			}
			if cmd.Flags().Changed("status") {
				update.Status = &updStatus
			}
			if update == (api.SubscriptionUpdate{}) {
				return fmt.Errorf("nothing to update: pass at least one of --plan, --price, --status")
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			sub, err := client.UpdateSubscription(cmd.Context(), args[0], update)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Subscription %s updated (%s, %.2f %s)\n", sub.ID, sub.Plan, sub.BasePrice, sub.Currency)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&updPlan, "plan", "", "New plan (MONTHLY, ANNUAL, MULTI_YEAR)")
	updateCmd.Flags().Float64Var(&updPrice, "price", 0, "New base price")
	updateCmd.Flags().StringVar(&updStatus, "status", "", "New status (ACTIVE, PAST_DUE, CANCELLED)")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <subscription-id>",
		Short: "Cancel a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid subscription ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			sub, err := client.CancelSubscription(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Subscription %s cancelled\n", sub.ID)
			return nil
		},
	})

	return cmd
}

func printInvoiceTable(invoices []api.Invoice) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tTENANT\tTOTAL\tSTATUS\tDUE")
	for _, inv := range invoices {
		fmt.Fprintf(w, "%s\t%s\t%.2f %s\t%s\t%s\n",
			inv.InvoiceNumber, inv.TenantID, inv.Total, inv.Currency, inv.Status, inv.DueDate)
	}
	w.Flush()
}

func newInvoicesCmd(serverAlias *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Manage invoices",
	}

	var status, tenantID string
	var overdue bool
	var skip, limit int
	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			var invoices []api.Invoice
			switch {
			case overdue:
				invoices, err = client.ListOverdueInvoices(cmd.Context())
			case tenantID != "":
				id, parseErr := uuid.Parse(tenantID)
				if parseErr != nil {
					return fmt.Errorf("invalid tenant ID '%s': %w", tenantID, parseErr)
				}
				invoices, err = client.ListTenantInvoices(cmd.Context(), id)
			default:
				invoices, err = client.ListInvoices(cmd.Context(), status, skip, limit)
			}
			if err != nil {
				return withAuthHint(err)
			}

			if len(invoices) == 0 {
				fmt.Println("No invoices found.")
				return nil
			}

			printInvoiceTable(invoices)
			return nil
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status (DRAFT, SENT, PAID, OVERDUE, VOID)")
	listCmd.Flags().StringVar(&tenantID, "tenant", "", "Only invoices for this tenant ID")
	listCmd.Flags().BoolVar(&overdue, "overdue", false, "Only overdue invoices")
	listCmd.Flags().IntVar(&skip, "skip", 0, "Number of invoices to skip")
	listCmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of invoices to return")
	cmd.AddCommand(listCmd)

	var createTenant, number, currency string
	var subtotal, tax float64
	var dueInDays int
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Issue an invoice to a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(createTenant)
			if err != nil {
				return fmt.Errorf("invalid tenant ID '%s': %w", createTenant, err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			if number == "" {
				number = "INV-" + ulid.Make().String()
			}

			due := time.Now().AddDate(0, 0, dueInDays)
			invoice, err := client.CreateInvoice(cmd.Context(), api.InvoiceCreate{
				TenantID:      id,
				InvoiceNumber: number,
				Subtotal:      subtotal,
				Tax:           tax,
				Total:         subtotal + tax,
				Currency:      currency,
				DueDate:       api.NewDate(due.Year(), due.Month(), due.Day()),
				Status:        api.InvoiceSent,
			})
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Invoice %s issued, due %s\n", invoice.InvoiceNumber, invoice.DueDate)
			return nil
		},
	}
	createCmd.Flags().StringVar(&createTenant, "tenant", "", "Tenant ID")
	createCmd.Flags().StringVar(&number, "number", "", "Invoice number (generated when omitted)")
	createCmd.Flags().Float64Var(&subtotal, "subtotal", 0, "Subtotal amount")
	createCmd.Flags().Float64Var(&tax, "tax", 0, "Tax amount")
	createCmd.Flags().StringVar(&currency, "currency", "USD", "Currency code")
	createCmd.Flags().IntVar(&dueInDays, "due-in", 30, "Days until the invoice is due")
	createCmd.MarkFlagRequired("tenant")
	createCmd.MarkFlagRequired("subtotal")
	cmd.AddCommand(createCmd)

	var output string
	getCmd := &cobra.Command{
		Use:   "get <invoice-id>",
		Short: "Show invoice details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid invoice ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			invoice, err := client.GetInvoice(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if output != "" {
				return printResource(os.Stdout, invoice, output)
			}

			fmt.Printf("Invoice: %s\n", invoice.InvoiceNumber)
			fmt.Printf("Tenant:  %s\n", invoice.TenantID)
			fmt.Printf("Total:   %.2f %s (subtotal %.2f + tax %.2f)\n",
				invoice.Total, invoice.Currency, invoice.Subtotal, invoice.Tax)
			fmt.Printf("Status:  %s\n", invoice.Status)
			fmt.Printf("Due:     %s\n", invoice.DueDate)
			if invoice.PaidAt != nil {
				fmt.Printf("Paid:    %s\n", fmtDay(*invoice.PaidAt))
			}
			for _, item := range invoice.LineItems {
				fmt.Printf("  - %s: %.2f\n", item.Description, item.Amount)
			}
			return nil
		},
	}
	getCmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json, yaml)")
	cmd.AddCommand(getCmd)

	var updStatus, updDue string
	updateCmd := &cobra.Command{
		Use:   "update <invoice-id>",
		Short: "Update an invoice's status or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid invoice ID '%s': %w", args[0], err)
			}

			var update api.InvoiceUpdate
			if cmd.Flags().Changed("status") {
				update.Status = &updStatus
			}
			if cmd.Flags().Changed("due") {
				due, err := parseDayFlag("due", updDue)
				if err != nil {
					return err
				}
				update.DueDate = &due
			}
			if update.Status == nil && update.DueDate == nil {
				return fmt.Errorf("nothing to update: pass at least one of --status, --due")
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			invoice, err := client.UpdateInvoice(cmd.Context(), args[0], update)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Invoice %s updated (%s, due %s)\n", invoice.InvoiceNumber, invoice.Status, invoice.DueDate)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&updStatus, "status", "", "New status (DRAFT, SENT, PAID, OVERDUE, VOID)")
	updateCmd.Flags().StringVar(&updDue, "due", "", "New due date (YYYY-MM-DD)")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "pay <invoice-id>",
		Short: "Mark an invoice as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid invoice ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			invoice, err := client.MarkInvoicePaid(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Invoice %s marked paid\n", invoice.InvoiceNumber)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "void <invoice-id>",
		Short: "Void an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid invoice ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			invoice, err := client.VoidInvoice(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Invoice %s voided\n", invoice.InvoiceNumber)
			return nil
		},
	})

	return cmd
}
