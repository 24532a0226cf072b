// Package mergesort implements an a-way external mergesort over a flat
// file of little-endian signed 64-bit integers: recursive divide into a
// temporary files, recurse, then k-way merge back together. See
// spec.md §4.2.
package mergesort

import (
	"fmt"

	"github.com/extsort/extsort/internal/common"
)

// Sorter holds the configuration and reusable I/O state for one external
// mergesort instance. Per spec.md §5 it exclusively owns its buffer and
// I/O counter and must not be used from two goroutines at once.
type Sorter struct {
	blockBytes int64
	memBytes   int64
	arity      int
	bio        *common.BlockIO
}

// NewSorter constructs a mergesort instance for block size blockBytes,
// memory budget memBytes, and fan-out arity. arity must be at least 2
// and at most b = blockBytes/8, per spec.md §9 ("the integer arity
// parameter must be >= 2").
func NewSorter(blockBytes, memBytes int64, arity int) (*Sorter, error) {
	s := &Sorter{
		blockBytes: blockBytes,
		memBytes:   memBytes,
		bio:        common.NewBlockIO(blockBytes),
	}
	if err := s.SetArity(arity); err != nil {
		return nil, err
	}
	return s, nil
}

// SetArity updates the fan-out used by subsequent Sort calls, validating
// the new value. Exposed separately from NewSorter so the arity
// optimizer (internal/arity) can reuse one Sorter across many trial
// evaluations instead of reallocating its buffer each time.
func (s *Sorter) SetArity(arity int) error {
	b := common.KeysPerBlock(s.blockBytes)
	if arity < 2 {
		return fmt.Errorf("mergesort: arity must be >= 2, got %d", arity)
	}
	if arity > b {
		return fmt.Errorf("mergesort: arity %d exceeds keys per block %d", arity, b)
	}
	s.arity = arity
	return nil
}

// Arity returns the sorter's current fan-out.
func (s *Sorter) Arity() int { return s.arity }

// IOCount returns the number of block reads plus writes since the last
// reset.
func (s *Sorter) IOCount() int64 { return s.bio.IO.Count() }

// ResetIOCount zeroes the I/O counter, for reuse across independent sort
// calls (e.g. by the arity optimizer between trial evaluations).
func (s *Sorter) ResetIOCount() { s.bio.IO.Reset() }

// ClearBuffer zeroes the reusable scratch buffer between sorts.
func (s *Sorter) ClearBuffer() { s.bio.ClearBuffer() }
