package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download and extract the model archives of the configured variant",
		Long: "Archives whose cache directory already exists are skipped.\n" +
			"Select the variant with --variant (full|lite).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			graphs, err := ensureGraphs(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("model download failed: %w", err)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "acoustic: %s\n", graphs.Acoustic)
			_, _ = fmt.Fprintf(w, "vocoder:  %s\n", graphs.Vocoder)

			return nil
		},
	}

	return cmd
}
