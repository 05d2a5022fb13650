package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/services"
)

func visitorsCommand(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visitors",
		Short: "List, pre-authorise and revoke visitors",
	}
	cmd.AddCommand(visitorsListCommand(cli), visitorsAddCommand(cli), visitorsRevokeCommand(cli))
	return cmd
}

func visitorsListCommand(cli *cliContext) *cobra.Command {
	var watch time.Duration

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the visitor board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			for {
				board, err := cli.presenter.Visitors(ctx, cli.session)
				if err != nil && !errors.Is(err, services.ErrMalformedResponse) {
					return err
				}
				if err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "warning:", describeError(err))
				}
				if err := printVisitorBoard(cmd.OutOrStdout(), board); err != nil {
					return err
				}
				if watch <= 0 {
					return nil
				}

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(watch):
					fmt.Fprintln(cmd.OutOrStdout())
				}
			}
		},
	}
	cmd.Flags().DurationVar(&watch, "watch", 0, "refresh every interval until interrupted")
	return cmd
}

func visitorsAddCommand(cli *cliContext) *cobra.Command {
	var req services.PreAuthorization

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Pre-authorise a visitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := cli.preauth.Submit(cmd.Context(), cli.session, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Visitor %s pre-authorised", req.Name)
			if sub.VisitorID != 0 {
				fmt.Fprintf(out, " (id %d)", sub.VisitorID)
			}
			if sub.OTP != "" {
				fmt.Fprintf(out, ", OTP %s", sub.OTP)
			}
			fmt.Fprintln(out)
			if sub.RefreshErr != nil {
				fmt.Fprintln(out, "warning: could not refresh the visitor list:", describeError(sub.RefreshErr))
				return nil
			}
			return printVisitorBoard(out, sub.Visitors)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Name, "name", "", "visitor name")
	flags.StringVar(&req.Phone, "phone", "", "visitor phone number")
	flags.StringVar(&req.ModeOfEntry, "mode", string(models.ModeWalk), "walk, vehicle or motorcycle")
	flags.StringVar(&req.VehicleNumber, "vehicle", "", "vehicle number")
	flags.IntVar(&req.ValidityDays, "validity", 1, "days the pass is valid")
	flags.StringVar(&req.VerificationNumber, "verification", "", "verification number")
	return cmd
}

func visitorsRevokeCommand(cli *cliContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "revoke <visitor-id>",
		Short: "Invalidate a visitor's OTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			visitorID, err := models.ParseID(args[0])
			if err != nil {
				return err
			}

			var confirmer services.Confirmer = services.PromptConfirmer{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
			if yes {
				confirmer = services.AlwaysConfirm
			}

			result, err := cli.revocation.Revoke(cmd.Context(), cli.session, visitorID, confirmer)
			if errors.Is(err, services.ErrConfirmationDeclined) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err != nil {
				return err
			}

			if !result.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "OTP for %s is already invalid.\n", result.Visitor.Name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OTP for %s revoked.\n", result.Visitor.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
