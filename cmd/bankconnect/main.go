package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-bank-connect/internal/client"
	"github.com/MKhiriev/go-bank-connect/internal/config"
	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	info := models.NewBuildInfo(buildVersion, buildDate, buildCommit)

	cmd := &cobra.Command{
		Use:   "bankconnect",
		Short: "Connect German bank accounts and sync their transactions",
		Long: `bankconnect links bank accounts through an online-banking backend,
imports them into the ledger and keeps their transactions in sync.

Run without a subcommand to start the interactive connection wizard.`,
		Version:       info.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConnect(cmd)
		},
	}

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(connectCmd())
	cmd.AddCommand(syncCmd())
	cmd.AddCommand(modelCmd())
	cmd.AddCommand(historyCmd())

	return cmd
}

// newApp loads the configuration from flags, environment and the optional
// JSON file, then opens the client application.
func newApp(cmd *cobra.Command) (*client.App, *logger.Logger, error) {
	cfg, err := config.GetClientConfig(cmd.Flags())
	if err != nil {
		return nil, nil, fmt.Errorf("error getting configs: %w", err)
	}

	log := logger.NewClientLogger("bankconnect", cfg.App.LogLevel)
	log.Info().Str("command", cmd.Name()).Msg("starting")

	info := models.NewBuildInfo(buildVersion, buildDate, buildCommit)
	app, err := client.NewApp(cmd.Context(), cfg, info, log)
	if err != nil {
		log.Err(err).Msg("init client app error")
		return nil, nil, err
	}
	return app, log, nil
}
