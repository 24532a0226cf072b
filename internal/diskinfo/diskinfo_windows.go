//go:build windows

package diskinfo

// DefaultBlockSize is returned unconditionally on Windows, where this
// package has no statfs equivalent wired up (see mmap_windows.go for the
// same fallback pattern applied to memory mapping).
const DefaultBlockSize = 4096

// BlockSize always returns DefaultBlockSize on this platform.
func BlockSize(dir string) (int64, error) {
	return DefaultBlockSize, nil
}
