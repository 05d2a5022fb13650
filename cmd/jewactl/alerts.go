package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/jewa/internal/services"
)

func alertsCommand(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Raise and list security alerts",
	}

	var in services.AlertInput
	raise := &cobra.Command{
		Use:   "raise",
		Short: "Raise a security alert",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.alerts.Raise(cmd.Context(), cli.session, in); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Alert raised.")
			return nil
		},
	}
	raise.Flags().StringVar(&in.Subject, "subject", "", "short subject")
	raise.Flags().StringVar(&in.Description, "description", "", "what is happening")

	list := &cobra.Command{
		Use:   "list",
		Short: "List alerts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			alerts, err := cli.alerts.List(cmd.Context(), cli.session)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, a := range alerts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.ID, a.Status, formatTime(a.CreatedAt), a.Subject)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(raise, list)
	return cmd
}
