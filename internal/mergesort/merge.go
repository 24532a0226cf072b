package mergesort

import (
	"fmt"
	"os"

	"github.com/extsort/extsort/internal/common"
)

// mergeItem is one candidate key in the k-way merge heap: its value and
// the index of the stream it came from. Kept as a plain struct slice
// rather than container/heap's interface-based Heap to avoid per-push
// interface boxing, following the manual heap in the teacher's
// internal/indexer/sorter.go (manualHeap/mergeItem).
type mergeItem struct {
	val    int64
	stream int
}

type mergeHeap []mergeItem

func (h mergeHeap) Len() int            { return len(h) }
func (h mergeHeap) less(i, j int) bool  { return h[i].val < h[j].val }
func (h mergeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) push(x mergeItem) {
	*h = append(*h, x)
	h.up(len(*h) - 1)
}

func (h *mergeHeap) pop() mergeItem {
	old := *h
	n := len(old)
	x := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]
	h.down(0, n-1)
	return x
}

func (h *mergeHeap) up(j int) {
	for {
		i := (j - 1) / 2
		if i == j || !(*h).less(j, i) {
			break
		}
		h.Swap(i, j)
		j = i
	}
}

func (h *mergeHeap) down(i0, n int) {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < n && (*h).less(j2, j1) {
			j = j2
		}
		if !(*h).less(j, i) {
			break
		}
		h.Swap(i, j)
		i = j
	}
}

// mergeStream is one sorted input file's live read state during a k-way
// merge: a filled block buffer, a cursor into it, and the index of the
// next block to read on refill.
type mergeStream struct {
	f        *os.File
	buf      []int64
	pos      int
	filled   int
	nextIdx  int64
	done     bool
}

func openMergeStream(path string, keysPerBlock int, bio *common.BlockIO) (*mergeStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open merge input %s: %w", path, err)
	}
	st := &mergeStream{f: f, buf: make([]int64, keysPerBlock)}
	got, err := bio.ReadBlock(f, st.buf, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	st.filled = got
	st.nextIdx = 1
	st.done = got == 0
	return st, nil
}

func (st *mergeStream) refill(bio *common.BlockIO) error {
	got, err := bio.ReadBlock(st.f, st.buf, st.nextIdx)
	if err != nil {
		return err
	}
	st.nextIdx++
	st.pos = 0
	st.filled = got
	st.done = got == 0
	return nil
}

// kWayMerge merges the sorted files at paths into outPath, maintaining
// one input buffer of b keys per stream plus one output buffer of b
// keys (spec.md §4.2's "memory envelope for merge": (a+1)*b keys). Ties
// are broken arbitrarily; the sort is not required to be stable.
func (s *Sorter) kWayMerge(paths []string, outPath string) error {
	keysPerBlock := s.bio.KeysPerBlock()
	streams := make([]*mergeStream, len(paths))
	for i, p := range paths {
		st, err := openMergeStream(p, keysPerBlock, s.bio)
		if err != nil {
			for _, prev := range streams[:i] {
				if prev != nil {
					prev.f.Close()
				}
			}
			return err
		}
		streams[i] = st
	}
	defer func() {
		for _, st := range streams {
			st.f.Close()
		}
	}()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create merge output %s: %w", outPath, err)
	}
	defer out.Close()

	h := make(mergeHeap, 0, len(streams))
	for i, st := range streams {
		if !st.done {
			h.push(mergeItem{val: st.buf[st.pos], stream: i})
		}
	}

	outBuf := make([]int64, 0, keysPerBlock)
	outBlockIdx := int64(0)

	for len(h) > 0 {
		item := h.pop()
		outBuf = append(outBuf, item.val)

		st := streams[item.stream]
		st.pos++
		if st.pos >= st.filled {
			if err := st.refill(s.bio); err != nil {
				return fmt.Errorf("merge refill stream %d: %w", item.stream, err)
			}
		}
		if !st.done {
			h.push(mergeItem{val: st.buf[st.pos], stream: item.stream})
		}

		if len(outBuf) == keysPerBlock {
			if err := s.bio.WriteBlock(out, outBuf, outBlockIdx); err != nil {
				return fmt.Errorf("merge write block %d: %w", outBlockIdx, err)
			}
			outBlockIdx++
			outBuf = outBuf[:0]
		}
	}

	if len(outBuf) > 0 {
		if err := s.bio.WriteTail(out, outBuf); err != nil {
			return fmt.Errorf("merge write tail: %w", err)
		}
	}
	return nil
}
