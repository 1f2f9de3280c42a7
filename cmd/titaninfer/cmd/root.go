// Package cmd implements the titaninfer CLI's cobra command tree: load,
// predict, bench, and summary, each built on the same ModelHandle
// construction path with a titaninfer.yaml config-file overlay applied
// before flags.
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	titaninfer "github.com/HamoodiM/TitanInfer"
	"github.com/HamoodiM/TitanInfer/internal/logging"
	"github.com/HamoodiM/TitanInfer/tensor"
)

var (
	flagModelPath  string
	flagConfigPath string
	flagProfile    bool
	flagMetrics    bool
	flagWarmup     int
	flagLogLevel   string
	flagInputShape string
)

var rootCmd = &cobra.Command{
	Use:   "titaninfer",
	Short: "Load and run TitanInfer .titan models",
	Long: "titaninfer loads a self-describing .titan model file and runs " +
		"inference against it: predict a single input, benchmark steady-" +
		"state latency, or print the compiled layer summary.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagModelPath, "model", "", "path to a .titan model file")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to a titaninfer.yaml overlay (optional)")
	rootCmd.PersistentFlags().BoolVar(&flagProfile, "profile", false, "enable per-layer latency profiling")
	rootCmd.PersistentFlags().BoolVar(&flagMetrics, "metrics", false, "enable Prometheus instrumentation")
	rootCmd.PersistentFlags().IntVar(&flagWarmup, "warmup", 0, "number of warm-up predicts to run after load")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug|info|warning|error|silent")
	rootCmd.PersistentFlags().StringVar(&flagInputShape, "input-shape", "", "comma-separated dimensions, e.g. 1,28,28 (inferred from first Dense if omitted)")

	rootCmd.AddCommand(predictCmd, benchCmd, summaryCmd)
}

// Execute runs the titaninfer CLI's root command.
func Execute() error {
	return rootCmd.Execute()
}

// buildHandle merges the optional config-file overlay with whatever
// flags the user actually passed (flags win) and constructs a
// ModelHandle from the result.
func buildHandle(cmd *cobra.Command) (*titaninfer.ModelHandle, error) {
	h, _, err := buildHandleWithPath(cmd)
	return h, err
}

// buildHandleWithPath is buildHandle plus the resolved model path, for
// callers (such as the summary command) that need to act on the file
// directly in addition to the constructed handle.
func buildHandleWithPath(cmd *cobra.Command) (*titaninfer.ModelHandle, string, error) {
	cfg, err := loadFileConfig(flagConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("titaninfer: reading config: %w", err)
	}

	modelPath := flagModelPath
	if modelPath == "" {
		modelPath = cfg.ModelPath
	}
	if modelPath == "" {
		return nil, "", fmt.Errorf("titaninfer: --model is required (or set model_path in --config)")
	}

	profiling := flagProfile
	if !cmd.Flags().Changed("profile") {
		profiling = profiling || cfg.Profiling
	}
	warmup := flagWarmup
	if !cmd.Flags().Changed("warmup") && cfg.WarmupRuns > 0 {
		warmup = cfg.WarmupRuns
	}
	logLevelStr := flagLogLevel
	if logLevelStr == "" {
		logLevelStr = cfg.LogLevel
	}

	b := titaninfer.NewBuilder().
		ModelPath(modelPath).
		EnableProfiling(profiling).
		EnableMetrics(flagMetrics).
		WarmupRuns(warmup)

	shapeStr := flagInputShape
	if shapeStr == "" && len(cfg.InputShape) > 0 {
		b = b.InputShape(tensor.Shape(cfg.InputShape))
	} else if shapeStr != "" {
		shape, err := parseShape(shapeStr)
		if err != nil {
			return nil, "", err
		}
		b = b.InputShape(shape)
	}

	if logLevelStr != "" {
		level, err := logging.ParseLevel(logLevelStr)
		if err != nil {
			return nil, "", err
		}
		b = b.LogLevel(level)
	}

	h, err := b.Build()
	return h, modelPath, err
}

func parseShape(s string) (tensor.Shape, error) {
	parts := strings.Split(s, ",")
	shape := make(tensor.Shape, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("titaninfer: invalid --input-shape %q: %w", s, err)
		}
		shape[i] = d
	}
	return shape, nil
}

func parseFloats(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("titaninfer: invalid input value %q: %w", p, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}
