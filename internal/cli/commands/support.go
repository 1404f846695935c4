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

// NewSupportCmd creates the support command group
func NewSupportCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "support",
		Short: "Manage support tickets and announcements",
	}
	cmd.PersistentFlags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	cmd.AddCommand(newTicketsCmd(&serverAlias))
	cmd.AddCommand(newAnnouncementsCmd(&serverAlias))

	return cmd
}

func newTicketsCmd(serverAlias *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Manage support tickets",
	}

	var tenantID, status string
	var skip, limit int
	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			tickets, err := client.ListTickets(cmd.Context(), tenantID, status, skip, limit)
			if err != nil {
				return withAuthHint(err)
			}

			if len(tickets) == 0 {
				fmt.Println("No tickets found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTENANT\tSUBJECT\tPRIORITY\tSTATUS\tOPENED")
			for _, t := range tickets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.TenantID, t.Subject, t.Priority, t.Status, fmtDay(t.CreatedAt))
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().StringVar(&tenantID, "tenant", "", "Only tickets for this tenant ID")
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().IntVar(&skip, "skip", 0, "Number of tickets to skip")
	listCmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of tickets to return")
	cmd.AddCommand(listCmd)

	var outputFormat string
	getCmd := &cobra.Command{
		Use:   "get <ticket-id>",
		Short: "Show ticket details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid ticket ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			ticket, err := client.GetTicket(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			if outputFormat != "" {
				return printResource(os.Stdout, ticket, outputFormat)
			}

			fmt.Printf("Ticket:   %s\n", ticket.ID)
			fmt.Printf("Tenant:   %s\n", ticket.TenantID)
			fmt.Printf("Subject:  %s\n", ticket.Subject)
			fmt.Printf("Priority: %s\n", ticket.Priority)
			fmt.Printf("Status:   %s\n", ticket.Status)
			fmt.Printf("Opened:   %s\n", fmtDay(ticket.CreatedAt))
			fmt.Printf("\n%s\n", ticket.Description)
			return nil
		},
	}
	getCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format (json, yaml)")
	cmd.AddCommand(getCmd)

	var createTenant, subject, description, priority string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open a ticket for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(createTenant)
			if err != nil {
				return fmt.Errorf("invalid tenant ID '%s': %w", createTenant, err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			ticket, err := client.CreateTicket(cmd.Context(), api.TicketCreate{
				TenantID:    id,
				Subject:     subject,
				Description: description,
				Priority:    priority,
			})
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Ticket %s opened\n", ticket.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&createTenant, "tenant", "", "Tenant ID")
	createCmd.Flags().StringVar(&subject, "subject", "", "Ticket subject")
	createCmd.Flags().StringVar(&description, "description", "", "Ticket body")
	createCmd.Flags().StringVar(&priority, "priority", "NORMAL", "Priority (LOW, NORMAL, HIGH, URGENT)")
	createCmd.MarkFlagRequired("tenant")
	createCmd.MarkFlagRequired("subject")
	createCmd.MarkFlagRequired("description")
	cmd.AddCommand(createCmd)

	var updStatus, updPriority string
	updateCmd := &cobra.Command{
		Use:   "update <ticket-id>",
		Short: "Update a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid ticket ID '%s': %w", args[0], err)
			}

			var update api.TicketUpdate
			if cmd.Flags().Changed("status") {
				update.Status = &updStatus
			}
			if cmd.Flags().Changed("priority") {
				update.Priority = &updPriority
			}
			if update == (api.TicketUpdate{}) {
				return fmt.Errorf("nothing to update: pass at least one of --status, --priority")
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			ticket, err := client.UpdateTicket(cmd.Context(), args[0], update)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Ticket %s updated (%s/%s)\n", ticket.ID, ticket.Priority, ticket.Status)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&updStatus, "status", "", "New status")
	updateCmd.Flags().StringVar(&updPriority, "priority", "", "New priority (LOW, NORMAL, HIGH, URGENT)")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "close <ticket-id>",
		Short: "Close a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid ticket ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			ticket, err := client.CloseTicket(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Ticket %s closed\n", ticket.ID)
			return nil
		},
	})

	return cmd
}

func newAnnouncementsCmd(serverAlias *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "announcements",
		Short: "Manage platform announcements",
	}

	var includeExpired bool
	var skip, limit int
	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List announcements",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			announcements, err := client.ListAnnouncements(cmd.Context(), includeExpired, skip, limit)
			if err != nil {
				return withAuthHint(err)
			}

			if len(announcements) == 0 {
				fmt.Println("No announcements found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPUBLISHED\tEXPIRES")
			for _, a := range announcements {
				expires := "-"
				if a.ExpiresAt != nil {
					expires = fmtDay(*a.ExpiresAt)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Title, fmtDay(a.PublishedAt), expires)
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().BoolVar(&includeExpired, "include-expired", false, "Include expired announcements")
	listCmd.Flags().IntVar(&skip, "skip", 0, "Number of announcements to skip")
	listCmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of announcements to return")
	cmd.AddCommand(listCmd)

	var title, content, expires string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Publish an announcement",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.AnnouncementCreate{Title: title, Content: content}
			if expires != "" {
				t, err := time.Parse("2006-01-02", expires)
				if err != nil {
					return fmt.Errorf("invalid --expires date '%s': expected YYYY-MM-DD", expires)
				}
				req.ExpiresAt = &t
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			announcement, err := client.CreateAnnouncement(cmd.Context(), req)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Announcement %s published\n", announcement.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&title, "title", "", "Announcement title")
	createCmd.Flags().StringVar(&content, "content", "", "Announcement body")
	createCmd.Flags().StringVar(&expires, "expires", "", "Expiry date (YYYY-MM-DD)")
	createCmd.MarkFlagRequired("title")
	createCmd.MarkFlagRequired("content")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <announcement-id>",
		Short: "Show one announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid announcement ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			announcement, err := client.GetAnnouncement(cmd.Context(), args[0])
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("%s\n", announcement.Title)
			fmt.Printf("Published: %s\n", fmtDay(announcement.PublishedAt))
			if announcement.ExpiresAt != nil {
				fmt.Printf("Expires:   %s\n", fmtDay(*announcement.ExpiresAt))
			}
			fmt.Printf("\n%s\n", announcement.Content)
			return nil
		},
	})

	var updTitle, updContent string
	updateCmd := &cobra.Command{
		Use:   "update <announcement-id>",
		Short: "Edit an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid announcement ID '%s': %w", args[0], err)
			}

			var update api.AnnouncementUpdate
			if cmd.Flags().Changed("title") {
				update.Title = &updTitle
			}
			if cmd.Flags().Changed("content") {
				update.Content = &updContent
			}
			if update.Title == nil && update.Content == nil {
				return fmt.Errorf("nothing to update: pass at least one of --title, --content")
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			announcement, err := client.UpdateAnnouncement(cmd.Context(), args[0], update)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Announcement %s updated\n", announcement.ID)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&updTitle, "title", "", "New title")
	updateCmd.Flags().StringVar(&updContent, "content", "", "New body")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <announcement-id>",
		Aliases: []string{"delete"},
		Short:   "Delete an announcement",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid announcement ID '%s': %w", args[0], err)
			}

			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			if err := client.DeleteAnnouncement(cmd.Context(), args[0]); err != nil {
				return withAuthHint(err)
			}

			fmt.Println("✓ Announcement deleted")
			return nil
		},
	})

	return cmd
}
