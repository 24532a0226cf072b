//go:build linux || darwin || freebsd || openbsd || netbsd

package common

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MmapWritable memory-maps the first size bytes of f for read-write
// access, growing the file to size first if needed. It is used by the
// random input generator (internal/genbin) to fill very large files
// without a buffered-write syscall per chunk; the sorters themselves
// never use it, since their block transfers must go through BlockIO so
// the I/O counter stays meaningful.
func MmapWritable(f *os.File, size int64) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	if err := f.Truncate(size); err != nil {
		return nil, fmt.Errorf("truncate %s to %d: %w", f.Name(), size, err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", f.Name(), err)
	}
	return data, nil
}

// MunmapWritable unmaps data previously returned by MmapWritable,
// flushing dirty pages back to disk first.
func MunmapWritable(data []byte) error {
	if data == nil {
		return nil
	}
	if err := unix.Msync(data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("msync: %w", err)
	}
	return unix.Munmap(data)
}
