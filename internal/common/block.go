// Package common holds the low-level pieces shared by every sorter:
// block-aligned binary I/O against a signed 64-bit integer file, and the
// I/O counter that all sort algorithms are measured against.
package common

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// KeySize is the on-disk width of one key: a little-endian signed 64-bit
// integer.
const KeySize = 8

// IOCounter is a monotonic count of block-sized reads and writes. It is
// owned exclusively by one sorter instance and reset between sorts; it is
// not safe for concurrent use.
type IOCounter struct {
	n int64
}

// Add increments the counter by delta.
func (c *IOCounter) Add(delta int64) { c.n += delta }

// Count returns the counter's current value.
func (c *IOCounter) Count() int64 { return c.n }

// Reset zeroes the counter.
func (c *IOCounter) Reset() { c.n = 0 }

// KeysPerBlock returns b = blockBytes / KeySize. blockBytes must be a
// positive multiple of KeySize.
func KeysPerBlock(blockBytes int64) int {
	return int(blockBytes / KeySize)
}

// BlockIO bundles the reusable byte scratch buffer and I/O counter used
// for every block transfer performed by one sorter instance. Per spec.md
// §9, the buffer is not reentrant: no two concurrent calls against the
// same BlockIO are permitted, and the recursive split/partition pass must
// not interleave with the k-way merge pass.
type BlockIO struct {
	blockBytes int64
	keys       int // keys per block (b)
	IO         IOCounter
	scratch    []byte // len == blockBytes, reused across every transfer
}

// NewBlockIO constructs a BlockIO for blocks of blockBytes bytes.
// blockBytes must be a positive multiple of KeySize.
func NewBlockIO(blockBytes int64) *BlockIO {
	return &BlockIO{
		blockBytes: blockBytes,
		keys:       KeysPerBlock(blockBytes),
		scratch:    make([]byte, blockBytes),
	}
}

// KeysPerBlock returns b, the number of keys that fit in one block.
func (bio *BlockIO) KeysPerBlock() int { return bio.keys }

// ClearBuffer zeroes the reusable scratch buffer. Exposed so the arity
// optimizer can reset sorter state between trial evaluations.
func (bio *BlockIO) ClearBuffer() {
	for i := range bio.scratch {
		bio.scratch[i] = 0
	}
}

// ReadBlock seeks to block index idx (idx*blockBytes bytes into f) and
// reads up to len(buf) keys into buf. The number of keys actually read is
// returned; it is less than len(buf) only on a short read at end of
// file. Exactly one I/O is counted regardless of short read.
func (bio *BlockIO) ReadBlock(f *os.File, buf []int64, idx int64) (int, error) {
	if _, err := f.Seek(idx*bio.blockBytes, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek to block %d: %w", idx, err)
	}
	want := len(buf) * KeySize
	raw := bio.scratch
	if len(raw) < want {
		raw = make([]byte, want)
	}
	n, err := io.ReadFull(f, raw[:want])
	bio.IO.Add(1)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("read block %d: %w", idx, err)
	}
	nkeys := n / KeySize
	for i := 0; i < nkeys; i++ {
		buf[i] = int64(binary.LittleEndian.Uint64(raw[i*KeySize : i*KeySize+KeySize]))
	}
	return nkeys, nil
}

// WriteBlock seeks to block index idx and writes exactly len(buf) keys
// (the caller is expected to pass a full b-key buffer). One I/O is
// counted.
func (bio *BlockIO) WriteBlock(f *os.File, buf []int64, idx int64) error {
	if _, err := f.Seek(idx*bio.blockBytes, io.SeekStart); err != nil {
		return fmt.Errorf("seek to block %d: %w", idx, err)
	}
	return bio.writeKeys(f, buf, idx)
}

// WriteTail writes a short, k < b key buffer at the file's current write
// position without seeking to a block index. Used to flush the final
// partial block of a sequential write pass. One I/O is counted.
func (bio *BlockIO) WriteTail(f *os.File, buf []int64) error {
	return bio.writeKeys(f, buf, -1)
}

func (bio *BlockIO) writeKeys(f *os.File, buf []int64, idxForErr int64) error {
	need := len(buf) * KeySize
	raw := bio.scratch
	if len(raw) < need {
		raw = make([]byte, need)
	}
	for i, k := range buf {
		binary.LittleEndian.PutUint64(raw[i*KeySize:i*KeySize+KeySize], uint64(k))
	}
	if _, err := f.Write(raw[:need]); err != nil {
		if idxForErr >= 0 {
			return fmt.Errorf("write block %d: %w", idxForErr, err)
		}
		return fmt.Errorf("write tail block: %w", err)
	}
	bio.IO.Add(1)
	return nil
}
