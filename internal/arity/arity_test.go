package arity

import (
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/extsort/extsort/internal/common"
)

func writeInts(t *testing.T, path string, keys []int64) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	buf := make([]byte, common.KeySize)
	for _, k := range keys {
		binary.LittleEndian.PutUint64(buf, uint64(k))
		if _, err := f.Write(buf); err != nil {
			t.Fatal(err)
		}
	}
}

// TestFindBestArityAgreesWithExhaustiveScan verifies spec.md §8's arity
// optimizer agreement property: for a small B/8, ternary search and a
// brute-force linear scan must return the same arity.
func TestFindBestArityAgreesWithExhaustiveScan(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")

	r := rand.New(rand.NewSource(55))
	n := 600
	input := make([]int64, n)
	for i := range input {
		input[i] = r.Int63n(1 << 30)
	}
	writeInts(t, in, input)

	blockBytes := int64(64) // B/8 = 8, small enough to exhaustively scan
	memBytes := int64(256)
	nBytes := int64(n) * common.KeySize

	ternary, err := FindBestArity(in, nBytes, blockBytes, memBytes)
	if err != nil {
		t.Fatalf("FindBestArity failed: %v", err)
	}
	exhaustive, err := FindBestArityExhaustive(in, nBytes, blockBytes, memBytes)
	if err != nil {
		t.Fatalf("FindBestArityExhaustive failed: %v", err)
	}
	if ternary != exhaustive {
		t.Errorf("ternary search picked a=%d, exhaustive scan picked a=%d", ternary, exhaustive)
	}
}

func TestFindBestArityInRange(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")

	r := rand.New(rand.NewSource(88))
	n := 2000
	input := make([]int64, n)
	for i := range input {
		input[i] = r.Int63n(1 << 40)
	}
	writeInts(t, in, input)

	blockBytes := int64(256)
	memBytes := int64(1024)
	nBytes := int64(n) * common.KeySize

	a, err := FindBestArity(in, nBytes, blockBytes, memBytes)
	if err != nil {
		t.Fatalf("FindBestArity failed: %v", err)
	}
	maxArity := int(blockBytes / 8)
	if a < 2 || a > maxArity {
		t.Errorf("arity %d out of range [2, %d]", a, maxArity)
	}
}
