package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/config"
	"github.com/MKhiriev/go-bank-connect/internal/fakebank"
	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/spf13/pflag"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	fs := pflag.NewFlagSet("fakebank", pflag.ExitOnError)
	config.BindFlags(fs)
	eventDelay := fs.Duration("event-delay", 400*time.Millisecond, "Pause between two streamed events")
	gatewayDisabled := fs.Bool("gateway-disabled", false, "Answer every bank call with banking_gateway_not_configured")
	failingIBANs := fs.StringSlice("fail-iban", nil, "IBANs whose sync fails with account_failed")
	failSync := fs.String("fail-sync", "", "End every sync with sync_failed and this message")
	pin := fs.String("pin", "", "Only accept this PIN (empty accepts any)")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.GetFakeBankConfig(fs)
	if err != nil {
		logger.NewLogger("fakebank").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("fakebank", cfg.LogLevel)
	log.Debug().Str("address", cfg.Address).Dur("token_duration", cfg.TokenDuration).Msg("received configs")

	opts := fakebank.DefaultOptions()
	opts.GatewayDisabled = *gatewayDisabled
	opts.FailingIBANs = *failingIBANs
	opts.FailSync = *failSync
	opts.PIN = *pin

	auth := fakebank.NewAuth(cfg.TokenSignKey, cfg.TokenIssuer, cfg.TokenDuration)
	access, refresh, err := auth.IssuePair("demo")
	if err != nil {
		log.Fatal().Err(err).Msg("error issuing demo tokens")
	}
	fmt.Printf("APP_TOKEN=%s\nAPP_REFRESH_TOKEN=%s\n", access, refresh)

	handler := fakebank.NewHandler(fakebank.NewBank(opts), auth, *eventDelay, log)
	server := fakebank.NewServer(handler, cfg.Address, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server run error")
	}
}

func printBuildInfo() {
	info := models.NewBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Printf("Build version: %s\n", info.Version)
	fmt.Printf("Build date: %s\n", info.Date)
	fmt.Printf("Build commit: %s\n", info.Commit)
}
