package genbin

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/extsort/extsort/internal/common"
)

func readInts(t *testing.T, path string) []int64 {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	n := len(raw) / common.KeySize
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = int64(binary.LittleEndian.Uint64(raw[i*common.KeySize : i*common.KeySize+common.KeySize]))
	}
	return out
}

func TestGenerateLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gen.bin")

	nBytes := int64(800)
	if err := Generate(path, nBytes, 1); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != nBytes {
		t.Errorf("expected file of %d bytes, got %d", nBytes, info.Size())
	}
}

func TestGenerateDeterministicWithFixedSeed(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.bin")
	p2 := filepath.Join(dir, "b.bin")

	if err := Generate(p1, 400, 42); err != nil {
		t.Fatal(err)
	}
	if err := Generate(p2, 400, 42); err != nil {
		t.Fatal(err)
	}

	a := readInts(t, p1)
	b := readInts(t, p2)
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different output at index %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestGenerateRejectsMisalignedSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.bin")
	if err := Generate(path, 7, 1); err == nil {
		t.Error("expected error for a size that is not a multiple of 8")
	}
}
