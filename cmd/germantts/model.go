package main

import "github.com/spf13/cobra"

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Fetch and check the German Tacotron2 and MB-MelGAN archives",
		Long: `Manage the pinned German model archives in the cache directory.

The full variant pairs Tacotron2 with MB-MelGAN; the lite variant
uses their TFLite exports. Each archive is extracted to its own
subdirectory, which must hold a converted <subdir>.onnx graph before
synthesis can run.`,
	}

	cmd.AddCommand(newModelDownloadCmd(), newModelVerifyCmd())
	return cmd
}
