package compiler

import (
	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/model"
)

// applyFusion scans m left to right, merging each Dense immediately
// followed by a ReLU or Sigmoid into a single FusedDenseReLU or
// FusedDenseSigmoid layer. Every other layer, including an unpaired
// trailing Dense, is cloned through unchanged. m itself is not modified.
func applyFusion(m *model.Sequential) *model.Sequential {
	result := model.NewSequential()
	n := m.Len()

	for i := 0; i < n; {
		current := m.Layer(i)

		if dense, ok := current.(*layer.Dense); ok && i+1 < n {
			switch m.Layer(i + 1).(type) {
			case *layer.ReLU:
				result.Add(layer.NewFusedDenseReLU(dense))
				i += 2
				continue
			case *layer.Sigmoid:
				result.Add(layer.NewFusedDenseSigmoid(dense))
				i += 2
				continue
			}
		}

		result.Add(current.Clone())
		i++
	}

	return result
}
