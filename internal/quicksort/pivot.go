package quicksort

import (
	"fmt"
	"os"
	"sort"
)

// selectPivots implements spec.md §4.3 step 2: read one uniformly random
// block from the range [0, n) of path, then pick a-1 distinct positions
// from that block without replacement (all of them if the block holds
// fewer than a-1 keys), and return them sorted ascending.
//
// Reading one block costs exactly one I/O, bounding per-level sampling
// cost regardless of a, per the rationale in spec.md §4.3.
func (s *Sorter) selectPivots(path string, n int64) ([]int64, error) {
	keysPerBlock := int64(s.bio.KeysPerBlock())
	numBlocks := (n + keysPerBlock - 1) / keysPerBlock
	if numBlocks == 0 {
		return nil, nil
	}

	blockIdx := int64(s.rng.Int63n(numBlocks))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s for pivot sampling: %w", path, err)
	}
	defer f.Close()

	buf := make([]int64, keysPerBlock)
	got, err := s.bio.ReadBlock(f, buf, blockIdx)
	if err != nil {
		return nil, fmt.Errorf("pivot sample read of %s: %w", path, err)
	}
	if got == 0 {
		return nil, nil
	}
	block := buf[:got]

	want := s.arity - 1
	if want > got {
		want = got
	}

	order := s.rng.Perm(got)
	pivots := make([]int64, want)
	for i := 0; i < want; i++ {
		pivots[i] = block[order[i]]
	}
	sort.Slice(pivots, func(i, j int) bool { return pivots[i] < pivots[j] })
	return pivots, nil
}
