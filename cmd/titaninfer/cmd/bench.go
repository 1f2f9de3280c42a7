package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HamoodiM/TitanInfer/tensor"
)

var benchRuns int

func init() {
	benchCmd.Flags().IntVar(&benchRuns, "runs", 100, "number of predict calls to time")
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run repeated predicts over a zero-filled input and report latency stats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flagProfile = true
		h, err := buildHandle(cmd)
		if err != nil {
			return err
		}

		input := tensor.MustNew(h.ExpectedInputShape())
		for i := 0; i < benchRuns; i++ {
			if _, err := h.Predict(input); err != nil {
				return err
			}
		}

		stats := h.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "runs:  %d\n", stats.InferenceCount)
		fmt.Fprintf(out, "mean:  %s\n", stats.MeanLatency)
		fmt.Fprintf(out, "min:   %s\n", stats.MinLatency)
		fmt.Fprintf(out, "max:   %s\n", stats.MaxLatency)
		for i, us := range stats.PerLayerMicros() {
			fmt.Fprintf(out, "layer %d: %dus cumulative\n", i, us)
		}
		return nil
	},
}
