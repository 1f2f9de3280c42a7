package titaninfer

import (
	"github.com/HamoodiM/TitanInfer/engine"
	"github.com/HamoodiM/TitanInfer/internal/logging"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// Builder fluently configures and constructs a ModelHandle — the single
// entry point client code needs into a loaded model. It wraps
// engine.Builder, translating load failures into the public ModelLoad
// taxonomy at this boundary.
type Builder struct {
	inner *engine.Builder
}

// NewBuilder returns an empty Builder; ModelPath must be set before Build.
func NewBuilder() *Builder {
	return &Builder{inner: engine.NewBuilder()}
}

// ModelPath sets the path to a .titan model file. Required.
func (b *Builder) ModelPath(path string) *Builder {
	b.inner.ModelPath(path)
	return b
}

// EnableProfiling turns on latency profiling (default off).
func (b *Builder) EnableProfiling(enable bool) *Builder {
	b.inner.EnableProfiling(enable)
	return b
}

// EnableMetrics turns on Prometheus instrumentation (default off).
func (b *Builder) EnableMetrics(enable bool) *Builder {
	b.inner.EnableMetrics(enable)
	return b
}

// WarmupRuns sets the number of warm-up forward passes to run after load.
func (b *Builder) WarmupRuns(count int) *Builder {
	b.inner.WarmupRuns(count)
	return b
}

// InputShape overrides the shape inferred from the first Dense layer.
func (b *Builder) InputShape(shape tensor.Shape) *Builder {
	b.inner.InputShape(shape)
	return b
}

// LogLevel sets the global logger's filter level as a side effect of Build.
func (b *Builder) LogLevel(level logging.Level) *Builder {
	b.inner.LogLevel(level)
	return b
}

// Build loads the configured model path and returns a ready-to-use
// ModelHandle, or a *Error with KindModelLoad on failure.
func (b *Builder) Build() (*ModelHandle, error) {
	e, err := b.inner.Build()
	if err != nil {
		return nil, translateLoadError(err)
	}
	return newHandle(e), nil
}
