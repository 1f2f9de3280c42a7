package serialize

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/HamoodiM/TitanInfer/kernels"
	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/model"
)

// Write serializes m to w in the TITN binary format. Only the nine
// on-disk layer kinds are representable — FusedDenseReLU,
// FusedDenseSigmoid, and QuantizedDense are compiler output, not
// serializable source layers, and writing one is an error.
func Write(w io.Writer, m *model.Sequential) error {
	if _, err := io.WriteString(w, Magic); err != nil {
		return headerError(fmt.Errorf("writing magic: %w", err))
	}
	if err := binary.Write(w, binary.LittleEndian, CurrentVersion); err != nil {
		return headerError(fmt.Errorf("writing version: %w", err))
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.Len())); err != nil {
		return headerError(fmt.Errorf("writing layer count: %w", err))
	}

	for i := 0; i < m.Len(); i++ {
		if err := writeLayer(w, m.Layer(i)); err != nil {
			return layerError(i, err)
		}
	}
	return nil
}

func writeLayer(w io.Writer, l layer.Layer) error {
	switch v := l.(type) {
	case *layer.Dense:
		return writeTyped(w, TypeDense, func() error { return writeDense(w, v) })
	case *layer.ReLU:
		return writeTag(w, TypeReLU)
	case *layer.Sigmoid:
		return writeTag(w, TypeSigmoid)
	case *layer.Tanh:
		return writeTag(w, TypeTanh)
	case *layer.Softmax:
		return writeTag(w, TypeSoftmax)
	case *layer.Conv2D:
		return writeTyped(w, TypeConv2D, func() error { return writeConv2D(w, v) })
	case *layer.MaxPool2D:
		return writeTyped(w, TypeMaxPool2D, func() error { return writePooling(w, v) })
	case *layer.AvgPool2D:
		return writeTyped(w, TypeAvgPool2D, func() error { return writePooling(w, v) })
	case *layer.Flatten:
		return writeTag(w, TypeFlatten)
	default:
		return fmt.Errorf("layer kind %T has no on-disk representation", l)
	}
}

func writeTag(w io.Writer, tag LayerType) error {
	return binary.Write(w, binary.LittleEndian, uint32(tag))
}

func writeTyped(w io.Writer, tag LayerType, body func() error) error {
	if err := writeTag(w, tag); err != nil {
		return err
	}
	return body()
}

func writeDense(w io.Writer, d *layer.Dense) error {
	if err := writeU32s(w, uint32(d.InFeatures()), uint32(d.OutFeatures())); err != nil {
		return err
	}
	if err := writeBool(w, d.HasBias()); err != nil {
		return err
	}
	if err := writeFloats(w, d.Weights().Data()); err != nil {
		return err
	}
	if d.HasBias() {
		return writeFloats(w, d.Bias().Data())
	}
	return nil
}

func writeConv2D(w io.Writer, c *layer.Conv2D) error {
	if err := writeU32s(w, uint32(c.InChannels()), uint32(c.OutChannels()), uint32(c.KH()), uint32(c.KW()), uint32(c.SH()), uint32(c.SW())); err != nil {
		return err
	}
	mode := paddingModeValid
	if c.Padding() == kernels.PaddingSame {
		mode = paddingModeSame
	}
	if err := writeBytes(w, mode); err != nil {
		return err
	}
	if err := writeBool(w, c.HasBias()); err != nil {
		return err
	}
	if err := writeFloats(w, c.Weights().Data()); err != nil {
		return err
	}
	if c.HasBias() {
		return writeFloats(w, c.Bias().Data())
	}
	return nil
}

// poolingLayer is the minimal accessor surface writePooling needs;
// satisfied by layer.MaxPool2D and layer.AvgPool2D via their embedded
// geometry methods.
type poolingLayer interface {
	KernelSize() (int, int)
	Stride() (int, int)
	Padding() int
}

func writePooling(w io.Writer, p poolingLayer) error {
	kH, kW := p.KernelSize()
	sH, sW := p.Stride()
	if kH != kW || sH != sW {
		return fmt.Errorf("serialize: pooling layer has non-square kernel/stride (%dx%d / %dx%d); on-disk format requires square", kH, kW, sH, sW)
	}
	return writeU32s(w, uint32(kH), uint32(sH), uint32(p.Padding()))
}

func writeU32s(w io.Writer, values ...uint32) error {
	for _, v := range values {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func writeBool(w io.Writer, b bool) error {
	var v uint8
	if b {
		v = 1
	}
	return binary.Write(w, binary.LittleEndian, v)
}

func writeBytes(w io.Writer, b uint8) error {
	return binary.Write(w, binary.LittleEndian, b)
}

func writeFloats(w io.Writer, data []float32) error {
	return binary.Write(w, binary.LittleEndian, data)
}
