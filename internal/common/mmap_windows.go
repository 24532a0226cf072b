//go:build windows

package common

import (
	"fmt"
	"os"
)

// MmapWritable has no simple cross-platform equivalent via the standard
// library on Windows (proper support needs syscall.CreateFileMapping +
// MapViewOfFile). Following the teacher's own mmap_windows.go fallback,
// we size the file and let the generator fall back to buffered writes.
func MmapWritable(f *os.File, size int64) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	if err := f.Truncate(size); err != nil {
		return nil, fmt.Errorf("truncate %s to %d: %w", f.Name(), size, err)
	}
	return nil, nil
}

// MunmapWritable is a no-op on the Windows fallback path.
func MunmapWritable(data []byte) error {
	return nil
}
