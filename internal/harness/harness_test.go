package harness

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestRunProducesFourCSVs(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "graphs")

	h := New(Config{
		BlockBytes: 32,
		MemBytes:   128,
		Arity:      2,
		Trials:     2,
		Multiplier: []int{1, 2},
		OutputDir:  outDir,
		Seed:       7,
	})

	res, err := h.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.MergesortTime) != 2 || len(res.QuicksortIO) != 2 {
		t.Fatalf("expected 2 aggregated points per series, got %d / %d", len(res.MergesortTime), len(res.QuicksortIO))
	}

	for _, name := range []string{"mergesort-time", "mergesort-io", "quicksort-time", "quicksort-io"} {
		path := filepath.Join(outDir, name+".csv")
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("missing CSV %s: %v", path, err)
		}
		rows, err := csv.NewReader(f).ReadAll()
		f.Close()
		if err != nil {
			t.Fatalf("invalid CSV %s: %v", path, err)
		}
		if len(rows) != 2 {
			t.Errorf("%s: expected 2 rows, got %d", name, len(rows))
		}
		for _, row := range rows {
			if len(row) != 2 {
				t.Errorf("%s: expected 2 columns per row, got %d", name, len(row))
			}
		}
	}
}
