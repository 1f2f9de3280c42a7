package serialize

import (
	"bytes"
	"fmt"
	"os"

	"github.com/HamoodiM/TitanInfer/model"
)

// ReadFile loads a TITN model from path via a read-only memory mapping
// instead of buffering the whole file through an *os.File, so repeated
// loads of the same model share pages through the OS page cache rather
// than each paying a fresh copy. The mapping is released before ReadFile
// returns — Read already copies every tensor's bytes into its own
// Tensor, so nothing in the returned model aliases the mapping.
func ReadFile(path string) (*model.Sequential, error) {
	//nolint:gosec // path is operator-supplied, same trust level as os.Open
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("serialize: opening %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("serialize: stat %s: %w", path, err)
	}

	data, err := mmapFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("serialize: mapping %s: %w", path, err)
	}
	defer munmapFile(data)

	return Read(bytes.NewReader(data))
}
