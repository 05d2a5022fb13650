package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func notificationsCommand(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show notifications",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := cli.notifications.List(cmd.Context(), cli.session)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, n := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", n.ID, n.Status, formatTime(n.CreatedAt), n.Message)
			}
			return tw.Flush()
		},
	})
	return cmd
}
