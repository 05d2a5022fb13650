package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/example/jewa/internal/config"
	applog "github.com/example/jewa/internal/logger"
	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/otp"
	"github.com/example/jewa/internal/services"
)

// cliContext holds what every subcommand needs. Services are built once the
// flags are parsed.
type cliContext struct {
	v   *viper.Viper
	in  io.Reader
	out io.Writer

	// clientOptions are applied to the community service client.
	clientOptions []services.ClientOption

	log           *zap.Logger
	session       models.Session
	presenter     *services.Presenter
	preauth       *services.PreauthService
	revocation    *services.RevocationService
	deliveries    *services.DeliveryService
	notifications *services.NotificationService
	alerts        *services.AlertService
}

func newCLIContext(in io.Reader, out io.Writer) *cliContext {
	v := config.NewViper()
	// Keep the terminal quiet unless asked.
	v.SetDefault("LOG_LEVEL", "warn")
	return &cliContext{v: v, in: in, out: out}
}

func newRootCommand(cli *cliContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jewactl",
		Short:         "Manage visitors and deliveries for a Jewa resident",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(cli.out)
	rootCmd.SetIn(cli.in)

	flags := rootCmd.PersistentFlags()
	flags.String("base-url", "", "community service base URL (JEWA_BASE_URL)")
	flags.Int64("resident-id", 0, "resident id (JEWA_RESIDENT_ID)")
	flags.Int64("house-id", 0, "house id (JEWA_HOUSE_ID)")
	flags.String("community-code", "", "community code (JEWA_COMMUNITY_CODE)")
	flags.Duration("timeout", 0, "upstream request timeout, 0 for none (UPSTREAM_TIMEOUT)")
	flags.String("log-level", "", "log level (LOG_LEVEL)")

	bindings := map[string]string{
		"JEWA_BASE_URL":       "base-url",
		"JEWA_RESIDENT_ID":    "resident-id",
		"JEWA_HOUSE_ID":       "house-id",
		"JEWA_COMMUNITY_CODE": "community-code",
		"UPSTREAM_TIMEOUT":    "timeout",
		"LOG_LEVEL":           "log-level",
	}
	for key, name := range bindings {
		if err := cli.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return cli.initialize()
	}

	rootCmd.AddCommand(
		visitorsCommand(cli),
		deliveriesCommand(cli),
		notificationsCommand(cli),
		alertsCommand(cli),
	)
	return rootCmd
}

func (cli *cliContext) initialize() error {
	cfg := config.FromViper(cli.v)

	log, err := applog.New(applog.Config{Level: cfg.LogLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}
	cli.log = log

	cli.session = models.Session{
		ResidentID:    models.ID(cli.v.GetInt64("JEWA_RESIDENT_ID")),
		HouseID:       models.ID(cli.v.GetInt64("JEWA_HOUSE_ID")),
		CommunityCode: cli.v.GetString("JEWA_COMMUNITY_CODE"),
	}
	if !cli.session.Valid() {
		return errors.New("a resident id is required (--resident-id or JEWA_RESIDENT_ID)")
	}

	codes, err := otp.NewGenerator(cfg.OTPLength)
	if err != nil {
		return err
	}

	client := services.NewJewaClient(cfg.JewaBaseURL, cfg.UpstreamTimeout, log, cli.clientOptions...)
	cli.presenter = services.NewPresenter(client, log)
	cli.notifications = services.NewNotificationService(client, log)
	cli.preauth = services.NewPreauthService(client, cli.presenter, nil, cfg.RequireVehicleNumber, log)
	cli.revocation = services.NewRevocationService(client, cli.presenter, nil, log)
	cli.deliveries = services.NewDeliveryService(client, cli.presenter, cli.notifications, codes, nil, log)
	cli.alerts = services.NewAlertService(client, nil, log)
	return nil
}

// describeError turns service errors into a line for the terminal.
func describeError(err error) string {
	var (
		validation   services.ValidationErrors
		transportErr *services.TransportError
		backendErr   *services.BackendError
	)
	switch {
	case errors.As(err, &validation):
		msg := "invalid input:"
		for _, fe := range validation {
			msg += fmt.Sprintf("\n  %s %s", fe.Field, fe.Message)
		}
		return msg
	case errors.As(err, &transportErr):
		return "unable to reach the community service"
	case errors.As(err, &backendErr) && backendErr.Message != "":
		return backendErr.Message
	case errors.As(err, &backendErr):
		return "the community service rejected the request"
	default:
		return err.Error()
	}
}
