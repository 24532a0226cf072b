// Package quicksort implements an external quicksort over a flat file of
// little-endian signed 64-bit integers: sample a-1 pivots from one random
// block, partition the range into a temporary files, recurse, then
// concatenate. See spec.md §4.3.
package quicksort

import (
	"fmt"
	"math/rand"

	"github.com/extsort/extsort/internal/common"
	"github.com/extsort/extsort/internal/mergesort"
)

// Sorter holds the configuration and reusable I/O state for one external
// quicksort instance, plus a mergesort instance kept on hand for the
// degenerate-pivot fallback (spec.md §4.3: a partition that makes zero
// progress is handed to mergesort rather than recursed into again).
type Sorter struct {
	blockBytes int64
	memBytes   int64
	arity      int
	bio        *common.BlockIO
	rng        *rand.Rand
	fallback   *mergesort.Sorter
	fallbackIO int64
}

// NewSorter constructs an external quicksort instance for block size
// blockBytes, memory budget memBytes, and fan-out arity.
func NewSorter(blockBytes, memBytes int64, arity int) (*Sorter, error) {
	fb, err := mergesort.NewSorter(blockBytes, memBytes, arity)
	if err != nil {
		return nil, err
	}
	s := &Sorter{
		blockBytes: blockBytes,
		memBytes:   memBytes,
		bio:        common.NewBlockIO(blockBytes),
		// Per spec.md §9 the pivot sampler "must not depend on process-global
		// mutable state that leaks across sorter instances" — each Sorter
		// gets its own *rand.Rand rather than calling the package-level
		// math/rand functions.
		rng:      rand.New(rand.NewSource(rand.Int63())),
		fallback: fb,
	}
	if err := s.SetArity(arity); err != nil {
		return nil, err
	}
	return s, nil
}

// SetArity updates the fan-out used by subsequent Sort calls, validating
// the new value and propagating it to the fallback mergesort instance.
func (s *Sorter) SetArity(arity int) error {
	b := common.KeysPerBlock(s.blockBytes)
	if arity < 2 {
		return fmt.Errorf("quicksort: arity must be >= 2, got %d", arity)
	}
	if arity > b {
		return fmt.Errorf("quicksort: arity %d exceeds keys per block %d", arity, b)
	}
	if err := s.fallback.SetArity(arity); err != nil {
		return err
	}
	s.arity = arity
	return nil
}

// Arity returns the sorter's current fan-out.
func (s *Sorter) Arity() int { return s.arity }

// IOCount returns the number of block reads plus writes since the last
// reset, including any I/O spent in mergesort fallbacks triggered by
// degenerate partitions.
func (s *Sorter) IOCount() int64 { return s.bio.IO.Count() + s.fallbackIO }

// ResetIOCount zeroes both the sorter's own I/O counter and the
// accumulated fallback I/O.
func (s *Sorter) ResetIOCount() {
	s.bio.IO.Reset()
	s.fallbackIO = 0
}

// ClearBuffer zeroes the reusable scratch buffer between sorts.
func (s *Sorter) ClearBuffer() { s.bio.ClearBuffer() }
