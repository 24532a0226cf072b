package common

import (
	"fmt"
	"os"
	"sort"
)

// SortInMemory implements the shared base case used by both external
// sorters: when a range's byte size fits in the memory budget, read it
// in block-sized chunks, sort with an in-memory comparison sort, and
// write it back out in block-sized chunks. Exactly one I/O is counted
// per block read and per block write, giving the 2*ceil(n/b) I/O count
// (b = keys per block)
// spec.md §8 requires for this path.
//
// n is the number of keys in inputPath, which is always read from its
// own key 0: every recursive call operates on a standalone temp file
// holding exactly its fragment's keys, never an offset into a larger
// shared file. The backing array is released before returning, per the
// memory discipline in spec.md §5.
func SortInMemory(bio *BlockIO, inputPath, outputPath string, n int64) error {
	if n == 0 {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create empty output %s: %w", outputPath, err)
		}
		return f.Close()
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input %s: %w", inputPath, err)
	}
	defer in.Close()

	keys := make([]int64, n)
	b := int64(bio.KeysPerBlock())
	buf := make([]int64, b)
	for pos := int64(0); pos < n; pos += b {
		chunk := b
		if pos+chunk > n {
			chunk = n - pos
		}
		blockIdx := pos / b
		got, err := bio.ReadBlock(in, buf[:chunk], blockIdx)
		if err != nil {
			return fmt.Errorf("read %s at block %d: %w", inputPath, blockIdx, err)
		}
		copy(keys[pos:pos+int64(got)], buf[:got])
		if int64(got) < chunk {
			break
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output %s: %w", outputPath, err)
	}
	defer out.Close()

	for pos := int64(0); pos < n; pos += b {
		chunk := b
		if pos+chunk > n {
			chunk = n - pos
		}
		blockIdx := pos / b
		if chunk == b {
			if err := bio.WriteBlock(out, keys[pos:pos+chunk], blockIdx); err != nil {
				return fmt.Errorf("write block %d: %w", blockIdx, err)
			}
		} else {
			if err := bio.WriteTail(out, keys[pos:pos+chunk]); err != nil {
				return fmt.Errorf("write tail at %d: %w", pos, err)
			}
		}
	}
	return nil
}
