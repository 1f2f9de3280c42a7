//go:build !unix

package serialize

import "os"

// mmapFile falls back to a plain read on platforms without a shared mmap
// syscall signature (syscall.Mmap is unix-only).
func mmapFile(f *os.File, size int64) ([]byte, error) {
	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil {
		return nil, err
	}
	return data, nil
}

// munmapFile is a no-op here since mmapFile above never maps anything.
func munmapFile(data []byte) error {
	return nil
}
