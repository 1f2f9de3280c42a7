package serialize

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// FileChecksum returns the SHA-256 digest of the raw model file at path,
// for callers (such as the CLI's summary command) that want to display
// or log a stable fingerprint of exactly what was loaded.
func FileChecksum(path string) ([32]byte, error) {
	//nolint:gosec // path is operator-supplied, same trust level as os.Open
	f, err := os.Open(path)
	if err != nil {
		return [32]byte{}, fmt.Errorf("serialize: opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return [32]byte{}, fmt.Errorf("serialize: hashing %s: %w", path, err)
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
