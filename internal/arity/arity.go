// Package arity implements the ternary-search arity optimizer: given a
// reference input, find the fan-out a* in [2, B/8] that minimizes the
// external mergesort's I/O count. See spec.md §4.4.
package arity

import (
	"fmt"
	"os"

	"github.com/extsort/extsort/internal/mergesort"
)

// FindBestArity returns an integer a* in [2, blockBytes/8] that minimizes
// the I/O counter produced by sorting inputPath with an a-way mergesort,
// using unimodal ternary search over that interval. It evaluates f at
// most O(log(B/8)) times plus a final linear scan of at most 5 integers,
// per spec.md §4.4.
func FindBestArity(inputPath string, nBytes, blockBytes, memBytes int64) (int, error) {
	l := 2
	r := int(blockBytes / 8)
	if r < l {
		return 0, fmt.Errorf("arity: block %d too small for any valid arity", blockBytes)
	}

	scratch, err := os.CreateTemp("", "arity-scratch-*.bin")
	if err != nil {
		return 0, fmt.Errorf("arity: create scratch file: %w", err)
	}
	scratchPath := scratch.Name()
	scratch.Close()
	defer os.Remove(scratchPath)

	s, err := mergesort.NewSorter(blockBytes, memBytes, l)
	if err != nil {
		return 0, fmt.Errorf("arity: construct probe sorter: %w", err)
	}

	evaluate := func(a int) (int64, error) {
		// Reset between evaluations per spec.md §4.4: the mergesort
		// instance's I/O counter and reusable buffer must be cleared
		// before each f evaluation.
		if err := s.SetArity(a); err != nil {
			return 0, err
		}
		s.ResetIOCount()
		s.ClearBuffer()
		if err := s.Sort(inputPath, scratchPath, nBytes); err != nil {
			return 0, fmt.Errorf("arity: probe sort at a=%d: %w", a, err)
		}
		return s.IOCount(), nil
	}

	for r-l > 4 {
		m1 := l + (r-l)/3
		m2 := r - (r-l)/3
		f1, err := evaluate(m1)
		if err != nil {
			return 0, err
		}
		f2, err := evaluate(m2)
		if err != nil {
			return 0, err
		}
		if f1 < f2 {
			r = m2
		} else {
			l = m1
		}
	}

	best := l
	bestIO, err := evaluate(l)
	if err != nil {
		return 0, err
	}
	for a := l + 1; a <= r; a++ {
		io, err := evaluate(a)
		if err != nil {
			return 0, err
		}
		if io < bestIO {
			bestIO = io
			best = a
		}
	}
	return best, nil
}

// FindBestArityExhaustive scans every integer in [2, blockBytes/8] and
// returns the argmin directly. It exists to verify ternary search's
// unimodality assumption against brute force for small B/8, per spec.md
// §4.4's testable-property requirement; production code should prefer
// FindBestArity.
func FindBestArityExhaustive(inputPath string, nBytes, blockBytes, memBytes int64) (int, error) {
	l := 2
	r := int(blockBytes / 8)
	if r < l {
		return 0, fmt.Errorf("arity: block %d too small for any valid arity", blockBytes)
	}

	scratch, err := os.CreateTemp("", "arity-scan-*.bin")
	if err != nil {
		return 0, fmt.Errorf("arity: create scratch file: %w", err)
	}
	scratchPath := scratch.Name()
	scratch.Close()
	defer os.Remove(scratchPath)

	s, err := mergesort.NewSorter(blockBytes, memBytes, l)
	if err != nil {
		return 0, fmt.Errorf("arity: construct probe sorter: %w", err)
	}

	best := l
	var bestIO int64 = -1
	for a := l; a <= r; a++ {
		if err := s.SetArity(a); err != nil {
			return 0, err
		}
		s.ResetIOCount()
		s.ClearBuffer()
		if err := s.Sort(inputPath, scratchPath, nBytes); err != nil {
			return 0, fmt.Errorf("arity: scan sort at a=%d: %w", a, err)
		}
		io := s.IOCount()
		if bestIO < 0 || io < bestIO {
			bestIO = io
			best = a
		}
	}
	return best, nil
}
