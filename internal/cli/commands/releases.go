package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/churnvision/cvadmin/internal/api"
	"github.com/spf13/cobra"
)

// NewReleasesCmd creates the releases command group
func NewReleasesCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:     "releases",
		Aliases: []string{"release"},
		Short:   "Track product releases",
	}
	cmd.PersistentFlags().StringVar(&serverAlias, "server", "", "Server alias from churnvision.json")

	cmd.AddCommand(newReleasesListCmd(&serverAlias))
	cmd.AddCommand(newReleasesCreateCmd(&serverAlias))
	cmd.AddCommand(newReleasesUpdateCmd(&serverAlias))

	return cmd
}

func newReleasesListCmd(serverAlias *string) *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			releases, err := client.ListReleases(cmd.Context(), skip, limit)
			if err != nil {
				return withAuthHint(err)
			}

			if len(releases) == 0 {
				fmt.Println("No releases found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tTRACK\tSTATUS\tDOWNTIME\tPUBLISHED")
			for _, r := range releases {
				published := "-"
				if r.PublishedAt != nil {
					published = fmtDay(*r.PublishedAt)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n",
					r.Version, r.Track, r.Status, r.RequiresDowntime, published)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Number of releases to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of releases to return")

	return cmd
}

func newReleasesCreateCmd(serverAlias *string) *cobra.Command {
	var req api.ReleaseCreate

	cmd := &cobra.Command{
		Use:   "create <version>",
		Short: "Register a new release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			req.Version = args[0]
			release, err := client.CreateRelease(cmd.Context(), req)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Release %s registered on track %s (%s)\n", release.Version, release.Track, release.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Track, "track", api.TrackStable, "Release track (STABLE, BETA, LTS)")
	cmd.Flags().StringVar(&req.Status, "status", api.ReleaseDraft, "Initial status (DRAFT, PUBLISHED)")
	cmd.Flags().StringSliceVar(&req.DockerImages, "docker-images", nil, "Docker images shipped by this release")
	cmd.Flags().BoolVar(&req.RequiresDowntime, "requires-downtime", false, "Whether upgrading requires downtime")
	cmd.Flags().StringSliceVar(&req.BreakingChanges, "breaking-changes", nil, "Breaking change notes")
	cmd.Flags().StringVar(&req.ReleaseNotes, "notes", "", "Release notes")

	return cmd
}

func newReleasesUpdateCmd(serverAlias *string) *cobra.Command {
	var status, notes string
	var dockerImages []string

	cmd := &cobra.Command{
		Use:   "update <version>",
		Short: "Update a release (e.g. publish or deprecate it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAuthedClient(*serverAlias)
			if err != nil {
				return err
			}

			var req api.ReleaseUpdate
			if cmd.Flags().Changed("status") {
				req.Status = &status
			}
			if cmd.Flags().Changed("notes") {
				req.ReleaseNotes = &notes
			}
			if cmd.Flags().Changed("docker-images") {
				req.DockerImages = dockerImages
			}

			release, err := client.UpdateRelease(cmd.Context(), args[0], req)
			if err != nil {
				return withAuthHint(err)
			}

			fmt.Printf("✓ Release %s is now %s\n", release.Version, release.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "New status (DRAFT, PUBLISHED, DEPRECATED)")
	cmd.Flags().StringVar(&notes, "notes", "", "Release notes")
	cmd.Flags().StringSliceVar(&dockerImages, "docker-images", nil, "Docker images shipped by this release")

	return cmd
}
