package main

import (
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/stream"
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	var (
		days     int
		blz      string
		iban     string
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync transactions of connected accounts",
		Long: `Streams a transaction sync from the backend and shows its progress.

Without --days the backend picks the range from the last import of every
account.`,
		Example: `  # Adaptive sync of every connected account
  bankconnect sync

  # Last 30 days of one bank
  bankconnect sync --blz 12030000 --days 30

  # Keep syncing every 10 minutes
  bankconnect sync --watch --interval 10m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, log, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if cErr := app.Close(); cErr != nil {
					log.Err(cErr).Msg("error closing app")
				}
			}()

			req := models.SyncStreamRequest{BLZ: blz, IBAN: iban}
			if cmd.Flags().Changed("days") {
				req.Days = &days
			}

			out := cmd.OutOrStdout()
			bar := newSyncBar(out)
			result, err := app.Sync(cmd.Context(), req, bar.update)
			bar.finish()
			if err != nil {
				if stream.IsCanceled(err) {
					return fmt.Errorf("sync canceled: %w", err)
				}
				return err
			}
			printSyncResult(out, result)

			if !watch {
				return nil
			}
			fmt.Fprintln(out, "Watching for new transactions, press Ctrl+C to stop.")
			app.Watch(cmd.Context(), req, interval, func(r models.SyncResult, err error) {
				if err != nil {
					fmt.Fprintf(out, "%s scheduled sync failed: %v\n", time.Now().Format(time.TimeOnly), err)
					return
				}
				fmt.Fprintf(out, "%s ", time.Now().Format(time.TimeOnly))
				printSyncResult(out, r)
			})
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "number of days to fetch (default: adaptive)")
	cmd.Flags().StringVar(&blz, "blz", "", "only sync accounts of this bank")
	cmd.Flags().StringVar(&iban, "iban", "", "only sync this account")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and sync periodically")
	cmd.Flags().DurationVar(&interval, "interval", 0, "period of --watch (default: --sync-interval, then 5m)")

	return cmd
}

func printSyncResult(w io.Writer, r models.SyncResult) {
	fmt.Fprintf(w, "%d transaction(s) imported from %d account(s).\n", r.TotalImported, r.AccountsSynced)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  ! %s\n", e)
	}
}

// syncBar renders sync snapshots as a transaction counter of the current
// account.
type syncBar struct {
	out     io.Writer
	bar     *progressbar.ProgressBar
	account string
}

func newSyncBar(out io.Writer) *syncBar {
	return &syncBar{out: out}
}

func (b *syncBar) update(p models.SyncProgress) {
	if p.CurrentAccount != b.account || b.bar == nil {
		b.finish()
		b.account = p.CurrentAccount
		b.bar = progressbar.NewOptions(max(p.TransactionsTotal, 1),
			progressbar.OptionSetWriter(b.out),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(describe(p)),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(b.out)
			}),
		)
	}

	if p.TransactionsTotal > 0 && p.TransactionsTotal != b.bar.GetMax() {
		b.bar.ChangeMax(p.TransactionsTotal)
	}
	b.bar.Describe(describe(p))
	_ = b.bar.Set(p.TransactionsCurrent)
}

func (b *syncBar) finish() {
	if b.bar != nil && !b.bar.IsFinished() {
		_ = b.bar.Finish()
	}
}

func describe(p models.SyncProgress) string {
	if p.TotalAccounts == 0 || p.CurrentAccount == "" {
		return "[cyan]" + p.LastMessage + "[reset]"
	}
	name := p.CurrentAccountName
	if name == "" {
		name = p.CurrentAccount
	}
	return fmt.Sprintf("[cyan]Account %d of %d:[reset] %s", p.AccountIndex, p.TotalAccounts, name)
}
