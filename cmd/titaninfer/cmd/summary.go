package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HamoodiM/TitanInfer/serialize"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the loaded model's layer-by-layer shape and parameter summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, modelPath, err := buildHandleWithPath(cmd)
		if err != nil {
			return err
		}
		s, err := h.Summary()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), s)

		if sum, err := serialize.FileChecksum(modelPath); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "sha256: %x\n", sum)
		}
		return nil
	},
}
