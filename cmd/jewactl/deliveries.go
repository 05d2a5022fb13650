package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/services"
)

func deliveriesCommand(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deliveries",
		Short: "List and answer deliveries",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the delivery board",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := cli.presenter.Deliveries(cmd.Context(), cli.session)
			if err != nil && !errors.Is(err, services.ErrMalformedResponse) {
				return err
			}
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "warning:", describeError(err))
			}
			return printDeliveryBoard(cmd.OutOrStdout(), board)
		},
	}

	respond := &cobra.Command{
		Use:   "respond <notification-id> approve|deny|leave-at-gate",
		Short: "Answer a delivery notification",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notifID, err := models.ParseID(args[0])
			if err != nil {
				return err
			}
			decision, err := services.ParseDecision(args[1])
			if err != nil {
				return err
			}

			result, err := cli.deliveries.Decide(cmd.Context(), cli.session, notifID, decision)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Delivery %d: %s sent.\n", notifID, decision)
			if result.PickupOTP != "" {
				fmt.Fprintf(out, "Pickup OTP: %s\n", result.PickupOTP)
			}
			return nil
		},
	}

	cmd.AddCommand(list, respond)
	return cmd
}
