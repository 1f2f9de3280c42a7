package engine

import (
	"fmt"

	"github.com/HamoodiM/TitanInfer/internal/logging"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// Builder fluently configures and constructs an InferenceEngine.
type Builder struct {
	modelPath      string
	profiling      bool
	metricsEnabled bool
	warmupRuns     int
	inputShape     tensor.Shape
	logLevel       logging.Level
	logLevelSet    bool
}

// NewBuilder returns an empty Builder; ModelPath must be set before Build.
func NewBuilder() *Builder {
	return &Builder{}
}

// ModelPath sets the path to a .titan model file. Required.
func (b *Builder) ModelPath(path string) *Builder {
	b.modelPath = path
	return b
}

// EnableProfiling turns on latency profiling (default off).
func (b *Builder) EnableProfiling(enable bool) *Builder {
	b.profiling = enable
	return b
}

// EnableMetrics turns on Prometheus instrumentation (default off).
func (b *Builder) EnableMetrics(enable bool) *Builder {
	b.metricsEnabled = enable
	return b
}

// WarmupRuns sets the number of warm-up forward passes to run after load
// (default 0, meaning no warm-up).
func (b *Builder) WarmupRuns(count int) *Builder {
	b.warmupRuns = count
	return b
}

// InputShape overrides the shape inferred from the first Dense layer.
func (b *Builder) InputShape(shape tensor.Shape) *Builder {
	b.inputShape = shape
	return b
}

// LogLevel sets the global logger's filter level as a side effect of Build.
func (b *Builder) LogLevel(level logging.Level) *Builder {
	b.logLevel = level
	b.logLevelSet = true
	return b
}

// Build loads the configured model path, allocates buffers, and runs any
// configured warm-up passes.
func (b *Builder) Build() (*InferenceEngine, error) {
	if b.modelPath == "" {
		return nil, fmt.Errorf("engine: builder: model path not set")
	}
	if b.logLevelSet {
		logging.SetLevel(b.logLevel)
	}

	e, err := loadModel(b.modelPath, b.inputShape, b.profiling, b.metricsEnabled)
	if err != nil {
		return nil, err
	}
	if b.warmupRuns > 0 {
		if err := e.Warmup(b.warmupRuns); err != nil {
			return nil, err
		}
	}
	return e, nil
}
