package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/extsort/extsort/internal/diskinfo"
	"github.com/extsort/extsort/internal/harness"
)

func main() {
	memMB := 8 // default memory budget per sweep step, in MB
	if len(os.Args) > 1 {
		v, err := strconv.Atoi(os.Args[1])
		if err != nil {
			fmt.Println("Usage: extsort [memory_mb]")
			os.Exit(1)
		}
		memMB = v
	}

	blockBytes, err := diskinfo.BlockSize(".")
	if err != nil {
		// Out-of-scope collaborator failing is not fatal: fall back to its
		// own documented default rather than aborting the run.
		blockBytes = diskinfo.DefaultBlockSize
	}

	cfg := harness.Config{
		BlockBytes: blockBytes,
		MemBytes:   int64(memMB) * 1024 * 1024,
		Arity:      8,
		Verbose:    true,
	}

	h := harness.New(cfg)
	if _, err := h.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "extsort: %v\n", err)
		os.Exit(1)
	}
}
