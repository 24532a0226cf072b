// Package harness implements the experimental driver that generates
// random inputs across a spread of sizes, times both external sorters,
// and aggregates the results into CSV files. See spec.md §4.5.
package harness

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/extsort/extsort/internal/genbin"
	"github.com/extsort/extsort/internal/mergesort"
	"github.com/extsort/extsort/internal/quicksort"
)

// Config holds the harness's run parameters, defaulted the way the
// teacher's IndexerConfig is: a plain struct constructed by the CLI and
// passed by value, with missing fields filled in by New.
type Config struct {
	BlockBytes int64  // B
	MemBytes   int64  // M
	Arity      int    // a, used for both sorters
	Trials     int    // trials per N, defaults to 5 per spec.md §4.5
	Multiplier []int  // the "N_multiplier" values swept, defaults to {4,8,...,60}
	OutputDir  string // where the four CSVs land, defaults to "graphs"
	Seed       int64  // 0 means process-random per trial
	Verbose    bool
}

// Harness runs the sweep described by a Config.
type Harness struct {
	cfg Config
}

// New constructs a Harness, defaulting any zero-valued Config fields.
func New(cfg Config) *Harness {
	if cfg.Trials <= 0 {
		cfg.Trials = 5
	}
	if len(cfg.Multiplier) == 0 {
		cfg.Multiplier = make([]int, 0, 15)
		for m := 4; m <= 60; m += 4 {
			cfg.Multiplier = append(cfg.Multiplier, m)
		}
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "graphs"
	}
	return &Harness{cfg: cfg}
}

// point is one aggregated (N_multiplier, value) row.
type point struct {
	multiplier int
	value      float64
}

// Result holds the four aggregated series the harness produces.
type Result struct {
	MergesortTime []point
	MergesortIO   []point
	QuicksortTime []point
	QuicksortIO   []point
}

// Run executes the full sweep and writes the four CSV files into
// cfg.OutputDir, returning the aggregated series for callers that want
// them without re-reading the CSVs.
func (h *Harness) Run() (*Result, error) {
	cfg := h.cfg
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║     EXTERNAL SORT BENCHMARK HARNESS                                       ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nBlock size: %d bytes\n", cfg.BlockBytes)
	fmt.Printf("Memory:     %d bytes\n", cfg.MemBytes)
	fmt.Printf("Arity:      %d\n", cfg.Arity)
	fmt.Printf("Trials:     %d\n\n", cfg.Trials)

	res := &Result{}

	dir, err := os.MkdirTemp("", "extsort-harness")
	if err != nil {
		return nil, fmt.Errorf("harness: create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	ms, err := mergesort.NewSorter(cfg.BlockBytes, cfg.MemBytes, cfg.Arity)
	if err != nil {
		return nil, fmt.Errorf("harness: construct mergesort: %w", err)
	}
	qs, err := quicksort.NewSorter(cfg.BlockBytes, cfg.MemBytes, cfg.Arity)
	if err != nil {
		return nil, fmt.Errorf("harness: construct quicksort: %w", err)
	}

	for _, m := range cfg.Multiplier {
		nBytes := int64(m) * cfg.MemBytes

		var msTimeSum, qsTimeSum time.Duration
		var msIOSum, qsIOSum int64

		for trial := 0; trial < cfg.Trials; trial++ {
			if cfg.Verbose {
				fmt.Printf("\r\033[K[N=%dM] trial %d/%d", m, trial+1, cfg.Trials)
			}

			inPath := filepath.Join(dir, "input.bin")
			seed := cfg.Seed
			if seed != 0 {
				seed = seed + int64(m)*int64(cfg.Trials) + int64(trial)
			}
			if err := genbin.Generate(inPath, nBytes, seed); err != nil {
				return nil, fmt.Errorf("harness: generate input for N=%dM: %w", m, err)
			}

			msOut := filepath.Join(dir, "merge.out")
			ms.ResetIOCount()
			start := time.Now()
			if err := ms.Sort(inPath, msOut, nBytes); err != nil {
				return nil, fmt.Errorf("harness: mergesort at N=%dM: %w", m, err)
			}
			msTimeSum += time.Since(start)
			msIOSum += ms.IOCount()

			qsOut := filepath.Join(dir, "quick.out")
			qs.ResetIOCount()
			start = time.Now()
			if err := qs.Sort(inPath, qsOut, nBytes); err != nil {
				return nil, fmt.Errorf("harness: quicksort at N=%dM: %w", m, err)
			}
			qsTimeSum += time.Since(start)
			qsIOSum += qs.IOCount()

			os.Remove(inPath)
			os.Remove(msOut)
			os.Remove(qsOut)
		}
		if cfg.Verbose {
			fmt.Println()
		}

		trials := float64(cfg.Trials)
		res.MergesortTime = append(res.MergesortTime, point{m, msTimeSum.Seconds() / trials})
		res.MergesortIO = append(res.MergesortIO, point{m, float64(msIOSum) / trials})
		res.QuicksortTime = append(res.QuicksortTime, point{m, qsTimeSum.Seconds() / trials})
		res.QuicksortIO = append(res.QuicksortIO, point{m, float64(qsIOSum) / trials})
	}

	if err := h.writeCSVs(res); err != nil {
		return nil, err
	}
	fmt.Printf("\nResults written to %s\n", cfg.OutputDir)
	return res, nil
}

// writeCSVs emits the four headerless CSVs per spec.md §4.5/§6, using
// encoding/csv the way the teacher's internal/writer/writer.go builds
// CSV output: directory creation followed by a csv.Writer, not manual
// string concatenation.
func (h *Harness) writeCSVs(res *Result) error {
	if err := os.MkdirAll(h.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("harness: create output dir %s: %w", h.cfg.OutputDir, err)
	}
	series := []struct {
		name string
		pts  []point
	}{
		{"mergesort-time", res.MergesortTime},
		{"mergesort-io", res.MergesortIO},
		{"quicksort-time", res.QuicksortTime},
		{"quicksort-io", res.QuicksortIO},
	}
	for _, s := range series {
		if err := writeCSV(filepath.Join(h.cfg.OutputDir, s.name+".csv"), s.pts); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, pts []point) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("harness: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, p := range pts {
		row := []string{
			fmt.Sprintf("%d", p.multiplier),
			fmt.Sprintf("%g", p.value),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("harness: write row to %s: %w", path, err)
		}
	}
	return w.Error()
}
