package main

import (
	"fmt"

	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func modelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage the classification model on the backend",
	}
	cmd.AddCommand(modelPullCmd())
	return cmd
}

func modelPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "pull <name>",
		Short:   "Download a classification model",
		Example: `  bankconnect model pull qwen3:4b`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, log, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if cErr := app.Close(); cErr != nil {
					log.Err(cErr).Msg("error closing app")
				}
			}()

			out := cmd.OutOrStdout()
			var (
				bar    *progressbar.ProgressBar
				digest string
				status string
			)
			err = app.PullModel(cmd.Context(), args[0], func(p models.ModelPullProgress) {
				if p.Total > 0 {
					if bar == nil || p.Digest != digest {
						if bar != nil {
							_ = bar.Finish()
						}
						digest = p.Digest
						bar = progressbar.DefaultBytes(p.Total, "pulling "+shortDigest(p.Digest))
					}
					_ = bar.Set64(p.Completed)
					return
				}
				if p.Status != "" && p.Status != status {
					status = p.Status
					fmt.Fprintln(out, p.Status)
				}
			})
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return fmt.Errorf("pull %s: %w", args[0], err)
			}
			return nil
		},
	}
}

func shortDigest(digest string) string {
	const n = 12
	if len(digest) <= n {
		return digest
	}
	return digest[len(digest)-n:]
}
