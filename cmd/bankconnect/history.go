package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent syncs",
		Args:  cobra.NoArgs,
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

			runs, err := app.History(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list sync history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No syncs recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tBLZ\tDAYS\tSTATUS\tIMPORTED\tACCOUNTS\tERROR")
			for _, r := range runs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
					r.ID,
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
					orDash(r.BLZ),
					formatDays(r),
					status(r),
					r.TotalImported,
					r.AccountsSynced,
					r.Error,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show (0 for all)")

	return cmd
}

func formatDays(r models.SyncRun) string {
	if r.Days == nil {
		return "auto"
	}
	return strconv.Itoa(*r.Days)
}

func status(r models.SyncRun) string {
	if r.Success {
		return "ok"
	}
	return "failed"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
