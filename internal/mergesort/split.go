package mergesort

import (
	"fmt"
	"os"

	"github.com/extsort/extsort/internal/common"
)

// splitFile divides the n keys in path into s.arity standalone temp
// files of ceil(n/a) keys each (the last gets the remainder), tracked by
// tracker. The split is contiguous: element i of the source goes to
// file floor(i / ceil(n/a)), per spec.md §4.2 step 2 — including the
// case where a single input block straddles a destination-file
// boundary, which the source implementation (mergesort_externo.cpp)
// does not handle and spec.md §9 flags as a fencepost risk to avoid.
//
// Each read and each write is one I/O, matching spec.md's accounting:
// a write here is a sequential append to a destination file's current
// end, not a block-index-aligned write, since a destination file may
// receive a sub-block-sized slice when a source block straddles its
// boundary.
func (s *Sorter) splitFile(path string, n int64, tracker *common.TempTracker) ([]string, []int64, error) {
	names := make([]string, s.arity)
	counts := make([]int64, s.arity)
	files := make([]*os.File, s.arity)
	for i := range names {
		names[i] = tracker.New("temp")
		f, err := os.Create(names[i])
		if err != nil {
			for _, g := range files[:i] {
				g.Close()
			}
			return nil, nil, fmt.Errorf("create split temp %s: %w", names[i], err)
		}
		files[i] = f
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	in, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s for split: %w", path, err)
	}
	defer in.Close()

	keysPerBlock := int64(s.bio.KeysPerBlock())
	perFile := (n + int64(s.arity) - 1) / int64(s.arity)
	buf := make([]int64, keysPerBlock)

	for i := int64(0); i < n; {
		toRead := min(keysPerBlock, n-i)
		blockIdx := i / keysPerBlock
		got, err := s.bio.ReadBlock(in, buf[:toRead], blockIdx)
		if err != nil {
			return nil, nil, fmt.Errorf("split read of %s: %w", path, err)
		}
		if got == 0 {
			break
		}

		pos := int64(0)
		for pos < int64(got) {
			globalIdx := i + pos
			fileIdx := globalIdx / perFile
			if fileIdx >= int64(s.arity) {
				fileIdx = int64(s.arity) - 1
			}
			segEnd := min((fileIdx+1)*perFile-globalIdx, int64(got)-pos)
			if err := s.bio.WriteTail(files[fileIdx], buf[pos:pos+segEnd]); err != nil {
				return nil, nil, fmt.Errorf("split write to %s: %w", names[fileIdx], err)
			}
			counts[fileIdx] += segEnd
			pos += segEnd
		}
		i += int64(got)
	}

	return names, counts, nil
}
