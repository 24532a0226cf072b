package quicksort

import (
	"fmt"
	"os"
)

// concat writes the sorted partition files in order into outPath,
// skipping empty partitions, per spec.md §4.3 step 5. Each block read
// from a partition and each block written to outPath counts as one I/O,
// matching the original's concatenation accounting.
func (s *Sorter) concat(partPaths []string, counts []int64, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create concat output %s: %w", outPath, err)
	}
	defer out.Close()

	keysPerBlock := int64(s.bio.KeysPerBlock())
	buf := make([]int64, keysPerBlock)

	for i, path := range partPaths {
		n := counts[i]
		if n == 0 {
			continue
		}
		in, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open partition %s for concat: %w", path, err)
		}
		for pos := int64(0); pos < n; {
			toRead := min(keysPerBlock, n-pos)
			blockIdx := pos / keysPerBlock
			got, err := s.bio.ReadBlock(in, buf[:toRead], blockIdx)
			if err != nil {
				in.Close()
				return fmt.Errorf("concat read of %s: %w", path, err)
			}
			if got == 0 {
				break
			}
			if err := s.bio.WriteTail(out, buf[:got]); err != nil {
				in.Close()
				return fmt.Errorf("concat write to %s: %w", outPath, err)
			}
			pos += int64(got)
		}
		in.Close()
	}
	return nil
}
