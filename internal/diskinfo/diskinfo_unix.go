//go:build linux || darwin || freebsd || openbsd || netbsd

// Package diskinfo discovers a reasonable default block size B for the
// filesystem backing a path. It is an out-of-scope collaborator per
// spec.md §1: only cmd/extsort's CLI calls it, to pick B (the CLI takes
// no block-size argument) — the sorters, the arity optimizer, and the
// harness never call it themselves.
package diskinfo

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// BlockSize returns the optimal I/O transfer block size reported by the
// filesystem holding dir, following the same golang.org/x/sys/unix
// family used for memory-mapping in internal/common.
func BlockSize(dir string) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, fmt.Errorf("diskinfo: statfs %s: %w", dir, err)
	}
	if st.Bsize <= 0 {
		return DefaultBlockSize, nil
	}
	return int64(st.Bsize), nil
}

// DefaultBlockSize is returned when statfs reports an unusable value.
const DefaultBlockSize = 4096
