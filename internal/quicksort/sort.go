package quicksort

import (
	"fmt"
	"os"

	"github.com/extsort/extsort/internal/common"
)

// Sort produces a file at outputPath containing the same multiset as the
// first nBytes/8 keys of inputPath, sorted non-decreasing, via recursive
// partitioning per spec.md §4.3.
func (s *Sorter) Sort(inputPath, outputPath string, nBytes int64) error {
	n := nBytes / common.KeySize

	if n*common.KeySize <= s.memBytes {
		return common.SortInMemory(s.bio, inputPath, outputPath, n)
	}

	tracker := common.NewTempTracker(outputPath)
	defer tracker.Release()

	return s.quicksortRange(inputPath, outputPath, n, tracker)
}

// quicksortRange sorts the n keys of path into outPath, recursing through
// partitionFile, or falling back to mergesort when a partition makes zero
// progress (spec.md §4.3's degenerate-pivot handling).
func (s *Sorter) quicksortRange(path, outPath string, n int64, tracker *common.TempTracker) error {
	if n*common.KeySize <= s.memBytes {
		return common.SortInMemory(s.bio, path, outPath, n)
	}

	pivots, err := s.selectPivots(path, n)
	if err != nil {
		return fmt.Errorf("quicksort pivot selection: %w", err)
	}

	partNames, counts, err := s.partitionFile(path, n, pivots, tracker)
	if err != nil {
		return fmt.Errorf("quicksort partition: %w", err)
	}

	if zeroProgress(counts, n) {
		for i, name := range partNames {
			os.Remove(name)
			tracker.Forget(name)
			_ = i
		}
		return s.fallbackSort(path, outPath, n)
	}

	sortedParts := make([]string, len(partNames))
	for i, name := range partNames {
		if counts[i] == 0 {
			os.Remove(name)
			tracker.Forget(name)
			continue
		}
		sortedName := tracker.New("qsorted")
		if err := s.quicksortRange(name, sortedName, counts[i], tracker); err != nil {
			return err
		}
		os.Remove(name)
		tracker.Forget(name)
		sortedParts[i] = sortedName
	}

	if err := s.concat(sortedParts, counts, outPath); err != nil {
		return fmt.Errorf("quicksort concatenate: %w", err)
	}
	for i, name := range sortedParts {
		if counts[i] > 0 {
			os.Remove(name)
			tracker.Forget(name)
		}
	}
	return nil
}

// zeroProgress reports whether a partition pass made no progress: exactly
// one non-empty child holding every key of the parent range. Per spec.md
// §4.3 this is the only case that can cause nontermination, since every
// other outcome shrinks at least one recursive call below n.
func zeroProgress(counts []int64, n int64) bool {
	nonEmpty := 0
	for _, c := range counts {
		if c > 0 {
			nonEmpty++
			if c == n {
				return true
			}
		}
	}
	return nonEmpty == 1
}

// fallbackSort hands a degenerate range to the mergesort instance kept
// alongside this quicksort Sorter, accumulating its I/O into this
// Sorter's own count.
func (s *Sorter) fallbackSort(path, outPath string, n int64) error {
	s.fallback.ResetIOCount()
	err := s.fallback.Sort(path, outPath, n*common.KeySize)
	s.fallbackIO += s.fallback.IOCount()
	if err != nil {
		return fmt.Errorf("quicksort degenerate fallback: %w", err)
	}
	return nil
}
