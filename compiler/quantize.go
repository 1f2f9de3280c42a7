package compiler

import (
	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/model"
)

// applyQuantization replaces every remaining *layer.Dense in m with a
// QuantizedDense built from its trained weights. Layers already fused
// into FusedDenseReLU/FusedDenseSigmoid by an earlier fusion pass are
// left alone — quantization only ever targets a bare, unfused Dense.
func applyQuantization(m *model.Sequential) (*model.Sequential, error) {
	result := model.NewSequential()
	for i := 0; i < m.Len(); i++ {
		current := m.Layer(i)
		if dense, ok := current.(*layer.Dense); ok {
			quantized, err := layer.NewQuantizedDenseFromDense(dense)
			if err != nil {
				return nil, err
			}
			result.Add(quantized)
			continue
		}
		result.Add(current.Clone())
	}
	return result, nil
}
