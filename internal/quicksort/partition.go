package quicksort

import (
	"fmt"
	"os"
	"sort"

	"github.com/extsort/extsort/internal/common"
)

// partitionFile implements spec.md §4.3 step 3: scan the n keys of path
// block by block, classify each key against pivots, and append it to an
// in-memory output buffer of capacity b for its partition, flushing a
// buffer to its temp file whenever it fills. There are len(pivots)+1
// partitions. Returns the partition file names (always len(pivots)+1 of
// them, tracked by tracker) and each partition's key count.
//
// Memory envelope: one input buffer of b keys plus a output buffers of b
// keys, per spec.md §4.3's "(a+1)*b keys".
func (s *Sorter) partitionFile(path string, n int64, pivots []int64, tracker *common.TempTracker) ([]string, []int64, error) {
	numParts := len(pivots) + 1
	names := make([]string, numParts)
	files := make([]*os.File, numParts)
	counts := make([]int64, numParts)
	outBufs := make([][]int64, numParts)

	keysPerBlock := s.bio.KeysPerBlock()
	for i := range names {
		names[i] = tracker.New("part")
		f, err := os.Create(names[i])
		if err != nil {
			for _, g := range files[:i] {
				g.Close()
			}
			return nil, nil, fmt.Errorf("create partition temp %s: %w", names[i], err)
		}
		files[i] = f
		outBufs[i] = make([]int64, 0, keysPerBlock)
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	in, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s for partitioning: %w", path, err)
	}
	defer in.Close()

	flush := func(i int) error {
		if len(outBufs[i]) == 0 {
			return nil
		}
		if err := s.bio.WriteTail(files[i], outBufs[i]); err != nil {
			return fmt.Errorf("partition flush to %s: %w", names[i], err)
		}
		outBufs[i] = outBufs[i][:0]
		return nil
	}

	inBuf := make([]int64, keysPerBlock)
	kpb := int64(keysPerBlock)
	for pos := int64(0); pos < n; {
		toRead := min(kpb, n-pos)
		blockIdx := pos / kpb
		got, err := s.bio.ReadBlock(in, inBuf[:toRead], blockIdx)
		if err != nil {
			return nil, nil, fmt.Errorf("partition read of %s: %w", path, err)
		}
		if got == 0 {
			break
		}

		for i := 0; i < got; i++ {
			x := inBuf[i]
			// Smallest j such that x < pivots[j], or numParts-1 if x >= last pivot.
			j := sort.Search(len(pivots), func(k int) bool { return x < pivots[k] })
			outBufs[j] = append(outBufs[j], x)
			counts[j]++
			if len(outBufs[j]) == keysPerBlock {
				if err := flush(j); err != nil {
					return nil, nil, err
				}
			}
		}
		pos += int64(got)
	}

	for i := range outBufs {
		if err := flush(i); err != nil {
			return nil, nil, err
		}
	}

	return names, counts, nil
}
