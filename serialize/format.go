// Package serialize reads and writes the TITN binary model format: a
// magic number, a version, a layer count, and a flat sequence of
// per-layer type tags and type-specific records, little-endian
// throughout.
package serialize

// Magic is the 4-byte file signature every TITN model begins with.
const Magic = "TITN"

// CurrentVersion is the format version this package writes. A reader
// accepts any version <= CurrentVersion.
const CurrentVersion uint32 = 2

// LayerType enumerates the on-disk layer type tags. Tags are stable
// across versions; a new layer kind gets a new tag, never a reused one.
type LayerType uint32

const (
	TypeDense     LayerType = 1
	TypeReLU      LayerType = 2
	TypeSigmoid   LayerType = 3
	TypeTanh      LayerType = 4
	TypeSoftmax   LayerType = 5
	TypeConv2D    LayerType = 6
	TypeMaxPool2D LayerType = 7
	TypeAvgPool2D LayerType = 8
	TypeFlatten   LayerType = 9
)

// paddingMode mirrors kernels.PaddingMode's on-disk encoding for Conv2D:
// 0 = VALID, 1 = SAME.
const (
	paddingModeValid uint8 = 0
	paddingModeSame  uint8 = 1
)
