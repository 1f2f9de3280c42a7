// Command titaninfer is the CLI demo collaborator for the inference
// engine: load a .titan model and predict, bench, or summarize it.
package main

import (
	"fmt"
	"os"

	"github.com/HamoodiM/TitanInfer/cmd/titaninfer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
