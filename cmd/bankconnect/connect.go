package main

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-bank-connect/internal/tui"
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/spf13/cobra"
)

func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Connect a bank with the interactive wizard",
		Long: `Walks through bank lookup, login, TAN method selection, account review
and the initial transaction sync.`,
		Example: `  # Connect against a local fake backend
  bankconnect connect --address http://localhost:8090 --token "$APP_TOKEN"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConnect(cmd)
		},
	}
}

func runConnect(cmd *cobra.Command) error {
	app, log, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := app.Close(); cErr != nil {
			log.Err(cErr).Msg("error closing app")
		}
	}()

	state, err := app.Connect(cmd.Context())
	switch {
	case errors.Is(err, tui.ErrUserQuit):
		return nil
	case err != nil:
		return fmt.Errorf("connection wizard: %w", err)
	}

	if state.Step == models.StepSuccess && state.Result != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Connected %d account(s).\n", len(state.Result.ImportedAccounts))
	}
	return nil
}
