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

// NewWebhooksCmd creates the webhooks command group
func NewWebhooksCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "webhooks",
		Short: "Manage outbound event webhooks",
	}
	cmd.PersistentFlags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	cmd.AddCommand(newWebhooksListCmd(&serverAlias))
	cmd.AddCommand(newWebhooksGetCmd(&serverAlias))
	cmd.AddCommand(newWebhooksCreateCmd(&serverAlias))
	cmd.AddCommand(newWebhooksUpdateCmd(&serverAlias))
	cmd.AddCommand(newWebhooksDeleteCmd(&serverAlias))
	cmd.AddCommand(newWebhooksTestCmd(&serverAlias))
	cmd.AddCommand(newWebhooksTriggerCmd(&serverAlias))
	cmd.AddCommand(newWebhooksDeliveriesCmd(&serverAlias))

	return cmd
}

func newWebhooksListCmd(serverAlias *string) *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List webhooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			webhooks, err := client.ListWebhooks(cmd.Context(), skip, limit)
			if err != nil {
				return withAuthHint(err)
			}

			if len(webhooks) == 0 {
				fmt.Println("No webhooks found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tURL\tEVENTS\tACTIVE")
			for _, wh := range webhooks {
				active := "no"
				if wh.IsActive {
					active = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					wh.ID, wh.Name, wh.URL, strings.Join(wh.Events, ","), active)
			}
			w.Flush()
			return nil
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of webhooks to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of webhooks to return")

	return cmd
}

func newWebhooksCreateCmd(serverAlias *string) *cobra.Command {
	var name, url, tenantID, secret string
	var events []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.WebhookCreate{
				Name:   name,
				URL:    url,
				Events: events,
				Secret: secret,
			}
			if tenantID != "" {
				id, err := uuid.Parse(tenantID)
				if err != nil {
					return fmt.Errorf("invalid tenant ID '%s': %w", tenantID, err)
				}
				req.TenantID = &id
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			webhook, err := client.CreateWebhook(cmd.Context(), req)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Webhook %s registered\n", webhook.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Webhook name")
	cmd.Flags().StringVar(&url, "url", "", "Destination URL")
	cmd.Flags().StringSliceVar(&events, "events", nil, "Event types to deliver (comma-separated)")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "Scope to a single tenant ID")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("url")

	return cmd
}

func newWebhooksUpdateCmd(serverAlias *string) *cobra.Command {
	var name, url string
	var events []string
	var active bool

	cmd := &cobra.Command{
		Use:   "update <webhook-id>",
		Short: "Update a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid webhook ID '%s': %w", args[0], err)
			}

			var update api.WebhookUpdate
			changed := false
			if cmd.Flags().Changed("name") {
				update.Name = &name
				changed = true
			}
			if cmd.Flags().Changed("url") {
				update.URL = &url
				changed = true
			}
			if cmd.Flags().Changed("events") {
				update.Events = events
				changed = true
			}
			if cmd.Flags().Changed("active") {
				update.IsActive = &active
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to update: pass at least one of --name, --url, --events, --active")
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			webhook, err := client.UpdateWebhook(cmd.Context(), args[0], update)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Webhook %s updated\n", webhook.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&url, "url", "", "New destination URL")
	cmd.Flags().StringSliceVar(&events, "events", nil, "New event list (comma-separated)")
	cmd.Flags().BoolVar(&active, "active", true, "Enable or disable delivery")

	return cmd
}

func newWebhooksDeleteCmd(serverAlias *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <webhook-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a webhook",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid webhook ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			if err := client.DeleteWebhook(cmd.Context(), args[0]); err != nil {
				return withAuthHint(err)
			}

			fmt.Println("✓ Webhook deleted")
			return nil
		},
	}
}

func newWebhooksTestCmd(serverAlias *string) *cobra.Command {
	var eventType string

	cmd := &cobra.Command{
		Use:   "test <webhook-id>",
		Short: "Send a test event to a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid webhook ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			result, err := client.TestWebhook(cmd.Context(), args[0], eventType)
			if err != nil {
				return withAuthHint(err)
			}

			if result.Success {
				status := "?"
				if result.StatusCode != nil {
					status = fmt.Sprintf("%d", *result.StatusCode)
				}
				fmt.Printf("✓ Delivered (HTTP %s)\n", status)
				return nil
			}
			return fmt.Errorf("delivery failed: %s", result.Error)
		},
	}
	cmd.Flags().StringVar(&eventType, "event", "ping", "Event type to send")

	return cmd
}

func newWebhooksGetCmd(serverAlias *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <webhook-id>",
		Short: "Show webhook details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid webhook ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			webhook, err := client.GetWebhook(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if output != "" {
				return printResource(os.Stdout, webhook, output)
			}

			fmt.Printf("Webhook: %s\n", webhook.Name)
			fmt.Printf("URL:     %s\n", webhook.URL)
			fmt.Printf("Events:  %s\n", orDash(strings.Join(webhook.Events, ", ")))
			fmt.Printf("Active:  %t\n", webhook.IsActive)
			if webhook.TenantID != nil {
				fmt.Printf("Tenant:  %s\n", webhook.TenantID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format (json, yaml)")

	return cmd
}

// trigger dispatches a real event to every matching webhook, unlike test
// which pings a single endpoint.
func newWebhooksTriggerCmd(serverAlias *string) *cobra.Command {
	var eventType, tenantID string
	var data []string

	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Dispatch an event to all subscribed webhooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.WebhookEventTrigger{EventType: eventType}

			if tenantID != "" {
				id, err := uuid.Parse(tenantID)
				if err != nil {
					return fmt.Errorf("invalid tenant ID '%s': %w", tenantID, err)
				}
				req.TenantID = &id
			}
			if len(data) > 0 {
				req.Data = make(map[string]any, len(data))
				for _, kv := range data {
					key, value, found := strings.Cut(kv, "=")
					if !found {
						return fmt.Errorf("invalid --data entry '%s': expected key=value", kv)
					}
					req.Data[key] = value
				}
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			deliveries, err := client.TriggerWebhookEvent(cmd.Context(), req)
			if err != nil {
				return withAuthHint(err)
			}

			succeeded := 0
			for _, d := range deliveries {
				if d.Success {
					succeeded++
				}
			}
			fmt.Printf("✓ Event %s dispatched to %d webhooks (%d delivered)\n",
				eventType, len(deliveries), succeeded)
			return nil
		},
	}
	cmd.Flags().StringVar(&eventType, "event", "", "Event type to dispatch")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "Scope the event to one tenant ID")
	cmd.Flags().StringSliceVar(&data, "data", nil, "Event payload entries as key=value")
	cmd.MarkFlagRequired("event")

	return cmd
}

func newWebhooksDeliveriesCmd(serverAlias *string) *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "deliveries <webhook-id>",
		Short: "Show recent delivery attempts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid webhook ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			deliveries, err := client.ListWebhookDeliveries(cmd.Context(), args[0], skip, limit)
			if err != nil {
				return withAuthHint(err)
			}

			if len(deliveries) == 0 {
				fmt.Println("No deliveries found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "EVENT\tSTATUS\tSUCCESS\tDELIVERED")
			for _, d := range deliveries {
				success := "no"
				if d.Success {
					success = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					d.EventType, orDash(d.ResponseStatus), success, d.DeliveredAt.Format("2006-01-02 15:04:05"))
			}
			w.Flush()
			return nil
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of deliveries to skip")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of deliveries to return")

	return cmd
}
