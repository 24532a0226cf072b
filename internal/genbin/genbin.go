// Package genbin generates random binary files of little-endian signed
// 64-bit integers for use as sorter test fixtures, grounded in the
// original input_generator.cpp's two-level buffer-fill loop. This is an
// out-of-scope collaborator per spec.md §1 — the harness depends on it to
// build its own test inputs, but no sorter or optimizer imports it.
package genbin

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/extsort/extsort/internal/common"
)

// defaultBufElems matches the original's "buffer of M/2 elements" choice
// when callers do not have a natural buffer size of their own.
const defaultBufElems = 1 << 16

// Generate writes nBytes worth of uniformly random signed 64-bit
// integers to path. seed == 0 means "use a process-random seed"
// (mirroring the original's commented-out mt19937_64 rng(42) vs.
// random_device choice in input_generator.cpp); any other value makes
// the output reproducible, which the harness's own tests rely on.
func Generate(path string, nBytes int64, seed int64) error {
	if nBytes%common.KeySize != 0 {
		return fmt.Errorf("genbin: nBytes %d is not a multiple of %d", nBytes, common.KeySize)
	}
	n := nBytes / common.KeySize

	var src rand.Source
	if seed != 0 {
		src = rand.NewSource(seed)
	} else {
		src = rand.NewSource(time.Now().UnixNano())
	}
	rng := rand.New(src)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("genbin: create %s: %w", path, err)
	}
	defer f.Close()

	if mapped, err := common.MmapWritable(f, nBytes); err == nil && mapped != nil {
		fillMapped(mapped, n, rng)
		return common.MunmapWritable(mapped)
	}

	return fillBuffered(f, n, rng)
}

// fillMapped writes random values directly into a memory-mapped file
// region, one key at a time, without any write() syscall.
func fillMapped(mapped []byte, n int64, rng *rand.Rand) {
	buf := make([]byte, common.KeySize)
	for i := int64(0); i < n; i++ {
		v := rng.Uint64()
		binary.LittleEndian.PutUint64(buf, v)
		copy(mapped[i*common.KeySize:(i+1)*common.KeySize], buf)
	}
}

// fillBuffered is the portable fallback (used on platforms without a
// writable mmap, e.g. Windows): fill a buffer of defaultBufElems keys,
// flush, repeat — the same two-level loop shape as
// generate_binary_file's outer/inner loops, just expressed with a
// bufio.Writer instead of a raw vector and a single big fwrite.
func fillBuffered(f *os.File, n int64, rng *rand.Rand) error {
	w := bufio.NewWriterSize(f, defaultBufElems*common.KeySize)
	buf := make([]byte, common.KeySize)
	for i := int64(0); i < n; i++ {
		binary.LittleEndian.PutUint64(buf, rng.Uint64())
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("genbin: write key %d: %w", i, err)
		}
	}
	return w.Flush()
}
