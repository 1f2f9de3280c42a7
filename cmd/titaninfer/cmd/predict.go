package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HamoodiM/TitanInfer/tensor"
)

var predictCmd = &cobra.Command{
	Use:   "predict <comma-separated input values>",
	Short: "Run a single input through the loaded model and print the output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := buildHandle(cmd)
		if err != nil {
			return err
		}

		values, err := parseFloats(args[0])
		if err != nil {
			return err
		}
		expected := h.ExpectedInputShape()
		if len(values) != expected.Size() {
			return fmt.Errorf("titaninfer: input has %d values, model expects %d (shape %v)", len(values), expected.Size(), []int(expected))
		}
		input := tensor.MustNew(expected)
		copy(input.Data(), values)

		out, err := h.Predict(input)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatTensor(out))
		return nil
	},
}

func formatTensor(t *tensor.Tensor) string {
	s := "["
	for i, v := range t.Data() {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%g", v)
	}
	return s + "]"
}
