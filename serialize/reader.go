package serialize

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/HamoodiM/TitanInfer/kernels"
	"github.com/HamoodiM/TitanInfer/layer"
	"github.com/HamoodiM/TitanInfer/model"
	"github.com/HamoodiM/TitanInfer/tensor"
)

// Read parses a TITN model from r. Any version <= CurrentVersion is
// accepted; a newer version, a bad magic, an unknown layer type tag, or
// a premature EOF are all reported as a *FormatError wrapping one of the
// package's sentinel errors.
func Read(r io.Reader) (*model.Sequential, error) {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, headerError(fmt.Errorf("%w: %v", ErrTruncated, err))
	}
	if string(magic) != Magic {
		return nil, headerError(ErrInvalidMagic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, headerError(fmt.Errorf("%w: %v", ErrTruncated, err))
	}
	if version > CurrentVersion {
		return nil, headerError(ErrUnsupportedVersion)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, headerError(fmt.Errorf("%w: %v", ErrTruncated, err))
	}

	layers := make([]layer.Layer, 0, count)
	for i := uint32(0); i < count; i++ {
		l, err := readLayer(r)
		if err != nil {
			return nil, layerError(int(i), err)
		}
		layers = append(layers, l)
	}
	return model.NewSequential(layers...), nil
}

func readLayer(r io.Reader) (layer.Layer, error) {
	var tag uint32
	if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	switch LayerType(tag) {
	case TypeDense:
		return readDense(r)
	case TypeReLU:
		return layer.NewReLU(), nil
	case TypeSigmoid:
		return layer.NewSigmoid(), nil
	case TypeTanh:
		return layer.NewTanh(), nil
	case TypeSoftmax:
		return layer.NewSoftmax(), nil
	case TypeConv2D:
		return readConv2D(r)
	case TypeMaxPool2D:
		return readMaxPool2D(r)
	case TypeAvgPool2D:
		return readAvgPool2D(r)
	case TypeFlatten:
		return layer.NewFlatten(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownLayerType, tag)
	}
}

func readDense(r io.Reader) (*layer.Dense, error) {
	in, out, err := readU32Pair(r)
	if err != nil {
		return nil, err
	}
	hasBias, err := readBool(r)
	if err != nil {
		return nil, err
	}
	d, err := layer.NewDense(int(in), int(out), hasBias)
	if err != nil {
		return nil, err
	}
	weights, err := readFloatTensor(r, tensor.Shape{int(out), int(in)})
	if err != nil {
		return nil, err
	}
	if err := d.SetWeights(weights); err != nil {
		return nil, err
	}
	if hasBias {
		bias, err := readFloatTensor(r, tensor.Shape{int(out)})
		if err != nil {
			return nil, err
		}
		if err := d.SetBias(bias); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func readConv2D(r io.Reader) (*layer.Conv2D, error) {
	var inC, outC, kH, kW, sH, sW uint32
	for _, dst := range []*uint32{&inC, &outC, &kH, &kW, &sH, &sW} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
	}
	var modeByte uint8
	if err := binary.Read(r, binary.LittleEndian, &modeByte); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	mode := kernels.PaddingValid
	if modeByte == paddingModeSame {
		mode = kernels.PaddingSame
	}
	hasBias, err := readBool(r)
	if err != nil {
		return nil, err
	}

	c, err := layer.NewConv2D(int(inC), int(outC), int(kH), int(kW), int(sH), int(sW), mode, hasBias)
	if err != nil {
		return nil, err
	}
	weights, err := readFloatTensor(r, tensor.Shape{int(outC), int(inC), int(kH), int(kW)})
	if err != nil {
		return nil, err
	}
	if err := c.SetWeights(weights); err != nil {
		return nil, err
	}
	if hasBias {
		bias, err := readFloatTensor(r, tensor.Shape{int(outC)})
		if err != nil {
			return nil, err
		}
		if err := c.SetBias(bias); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func readPoolingGeometry(r io.Reader) (kernel, stride, padding uint32, err error) {
	for _, dst := range []*uint32{&kernel, &stride, &padding} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
	}
	return kernel, stride, padding, nil
}

func readMaxPool2D(r io.Reader) (*layer.MaxPool2D, error) {
	kernel, stride, padding, err := readPoolingGeometry(r)
	if err != nil {
		return nil, err
	}
	return layer.NewMaxPool2D(int(kernel), int(kernel), int(stride), int(stride), int(padding))
}

func readAvgPool2D(r io.Reader) (*layer.AvgPool2D, error) {
	kernel, stride, padding, err := readPoolingGeometry(r)
	if err != nil {
		return nil, err
	}
	return layer.NewAvgPool2D(int(kernel), int(kernel), int(stride), int(stride), int(padding))
}

func readU32Pair(r io.Reader) (a, b uint32, err error) {
	if err := binary.Read(r, binary.LittleEndian, &a); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &b); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return a, b, nil
}

func readBool(r io.Reader) (bool, error) {
	var v uint8
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return false, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return v != 0, nil
}

func readFloatTensor(r io.Reader, shape tensor.Shape) (*tensor.Tensor, error) {
	t, err := tensor.New(shape)
	if err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, t.Data()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return t, nil
}
