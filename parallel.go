// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe

import (
	"bytes"
	"container/heap"
	"context"
	"encoding/binary"
	"io"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Progress reports per-block statistics from a Compressor or Decompressor,
// delivered on the channel supplied via CompressorSendUpdates or
// DecompressorSendUpdates.
type Progress struct {
	Block    int
	RawSize  int
	CompSize int
	Duration time.Duration
}

// activeWorkers counts goroutines currently inside compressBlock or
// expandBlock, across every Compressor and Decompressor in the process.
// It exists to let tests assert that workers are actually released once a
// stream finishes, in the style of the teacher's goroutine-count checks.
var activeWorkers int64

// ActiveWorkers returns the number of block-codec goroutines currently
// running.
func ActiveWorkers() int64 { return atomic.LoadInt64(&activeWorkers) }

func defaultConcurrency() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

// --- ordered reassembly -----------------------------------------------

type orderedItem struct {
	index    int
	frame    []byte // fully serialized frame (compress) or decoded bytes (expand)
	progress Progress
	err      error
}

type itemHeap []orderedItem

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return h[i].index < h[j].index }
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x interface{}) { *h = append(*h, x.(orderedItem)) }
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// assemble reorders items arriving out of order on in, writing each one's
// frame to pw in strict index order as soon as it becomes the next
// expected index. It mirrors the teacher's heap-based reassembly of
// out-of-order parallel block results.
func assemble(pw *io.PipeWriter, in <-chan orderedItem, updates chan<- Progress) {
	pending := &itemHeap{}
	heap.Init(pending)
	next := 0
	for item := range in {
		heap.Push(pending, item)
		for pending.Len() > 0 {
			top := (*pending)[0]
			if top.err != nil {
				pw.CloseWithError(top.err)
				return
			}
			if top.index != next {
				break
			}
			it := heap.Pop(pending).(orderedItem)
			if _, err := pw.Write(it.frame); err != nil {
				pw.CloseWithError(err)
				return
			}
			if updates != nil {
				updates <- it.progress
			}
			next++
		}
	}
	pw.Close()
}

// --- Compressor ----------------------------------------------------------

type compressorOpts struct {
	concurrency int
	verbose     bool
	strategy    CountStrategy
	updates     chan<- Progress
}

// CompressorOption configures a Compressor.
type CompressorOption func(*compressorOpts)

// CompressorConcurrency sets the number of blocks compressed in parallel.
// The default is runtime.GOMAXPROCS(0).
func CompressorConcurrency(n int) CompressorOption {
	return func(o *compressorOpts) { o.concurrency = n }
}

// CompressorVerbose enables per-block trace logging to the standard error
// stream via log.Printf; it never alters the compressed output.
func CompressorVerbose(v bool) CompressorOption {
	return func(o *compressorOpts) { o.verbose = v }
}

// CompressorCountStrategy selects the pair-count engine. The default is
// DenseCounts.
func CompressorCountStrategy(s CountStrategy) CompressorOption {
	return func(o *compressorOpts) { o.strategy = s }
}

// CompressorSendUpdates requests a Progress value per completed block on
// ch. The caller must drain ch or compression will stall.
func CompressorSendUpdates(ch chan<- Progress) CompressorOption {
	return func(o *compressorOpts) { o.updates = ch }
}

// Compressor reads raw bytes from an underlying source, a block at a
// time, and compresses independent blocks concurrently across a bounded
// worker pool, reassembling the wire-format frames in original block
// order. It implements io.Reader.
type Compressor struct {
	opts compressorOpts
	pr   *io.PipeReader
}

// NewCompressor starts compressing r in the background and returns a
// Compressor from which the compressed byte stream can be Read.
func NewCompressor(ctx context.Context, r io.Reader, opts ...CompressorOption) *Compressor {
	o := compressorOpts{concurrency: defaultConcurrency()}
	for _, fn := range opts {
		fn(&o)
	}

	pr, pw := io.Pipe()
	c := &Compressor{opts: o, pr: pr}

	jobs := make(chan RawBlock)
	results := make(chan orderedItem)

	var wg sync.WaitGroup
	wg.Add(o.concurrency)
	for i := 0; i < o.concurrency; i++ {
		go func() {
			defer wg.Done()
			for blk := range jobs {
				atomic.AddInt64(&activeWorkers, 1)
				start := time.Now()
				occ := blk.Occupied
				table, data := compressBlock(blk.Data, &occ, o.strategy)
				dur := time.Since(start)
				atomic.AddInt64(&activeWorkers, -1)

				if o.verbose {
					log.Printf("bpe: compressed block %d: %d -> %d bytes in %s", blk.Index, len(blk.Data), len(data), dur)
				}

				var frame []byte
				buf := bytes.NewBuffer(newFrameBuffer())
				if _, err := table.WriteTo(buf); err != nil {
					results <- orderedItem{index: blk.Index, err: &IoError{Op: "buffer pair table", Err: err}}
					continue
				}
				var sizeField [2]byte
				binary.BigEndian.PutUint16(sizeField[:], uint16(len(data)))
				buf.Write(sizeField[:])
				buf.Write(data)
				frame = buf.Bytes()

				results <- orderedItem{
					index: blk.Index,
					frame: frame,
					progress: Progress{
						Block:    blk.Index,
						RawSize:  len(blk.Data),
						CompSize: len(data),
						Duration: dur,
					},
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go assemble(pw, results, o.updates)

	go func() {
		defer close(jobs)
		sc := NewBlockScanner(r)
		for sc.Scan(ctx) {
			select {
			case jobs <- sc.Block():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			// Delivered through a synthetic result, indexed after every
			// block, so that only the assembler closes the pipe; it fails
			// the stream as soon as this item is the lowest index it holds.
			results <- orderedItem{index: 1 << 30, err: err}
		}
	}()

	return c
}

func (c *Compressor) Read(p []byte) (int, error) { return c.pr.Read(p) }

// newFrameBuffer returns a byte slice suitable for accumulating one
// serialized frame; it is a tiny indirection kept so the allocation
// strategy can change in one place.
func newFrameBuffer() []byte { return make([]byte, 0, 512) }

// --- Decompressor ----------------------------------------------------------

type decompressorOpts struct {
	concurrency int
	verbose     bool
	updates     chan<- Progress
}

// DecompressorOption configures a Decompressor.
type DecompressorOption func(*decompressorOpts)

// DecompressorConcurrency sets the number of blocks expanded in parallel.
func DecompressorConcurrency(n int) DecompressorOption {
	return func(o *decompressorOpts) { o.concurrency = n }
}

// DecompressorVerbose enables per-block trace logging to the standard
// error stream; it never alters the expanded output.
func DecompressorVerbose(v bool) DecompressorOption {
	return func(o *decompressorOpts) { o.verbose = v }
}

// DecompressorSendUpdates requests a Progress value per completed block
// on ch. The caller must drain ch or expansion will stall.
func DecompressorSendUpdates(ch chan<- Progress) DecompressorOption {
	return func(o *decompressorOpts) { o.updates = ch }
}

// Decompressor reads wire-format frames from an underlying source and
// expands independent blocks concurrently, reassembling output bytes in
// original block order. It implements io.Reader.
type Decompressor struct {
	opts decompressorOpts
	pr   *io.PipeReader
}

// NewDecompressor starts expanding r in the background and returns a
// Decompressor from which the expanded byte stream can be Read.
func NewDecompressor(ctx context.Context, r io.Reader, opts ...DecompressorOption) *Decompressor {
	o := decompressorOpts{concurrency: defaultConcurrency()}
	for _, fn := range opts {
		fn(&o)
	}

	pr, pw := io.Pipe()
	d := &Decompressor{opts: o, pr: pr}

	jobs := make(chan CompressedFrame)
	results := make(chan orderedItem)

	var wg sync.WaitGroup
	wg.Add(o.concurrency)
	for i := 0; i < o.concurrency; i++ {
		go func() {
			defer wg.Done()
			for frame := range jobs {
				if err := frame.Table.Validate(frame.Index); err != nil {
					results <- orderedItem{index: frame.Index, err: err}
					continue
				}

				atomic.AddInt64(&activeWorkers, 1)
				start := time.Now()
				out := expandBlock(&frame.Table, frame.Data)
				dur := time.Since(start)
				atomic.AddInt64(&activeWorkers, -1)

				if o.verbose {
					log.Printf("bpe: expanded block %d: %d -> %d bytes in %s", frame.Index, len(frame.Data), len(out), dur)
				}

				results <- orderedItem{
					index: frame.Index,
					frame: out,
					progress: Progress{
						Block:    frame.Index,
						RawSize:  len(out),
						CompSize: len(frame.Data),
						Duration: dur,
					},
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go assemble(pw, results, o.updates)

	go func() {
		defer close(jobs)
		sc := NewFrameScanner(r)
		for sc.Scan(ctx) {
			select {
			case jobs <- sc.Block():
			case <-ctx.Done():
				results <- orderedItem{index: 1 << 30, err: ctx.Err()}
				return
			}
		}
		if err := sc.Err(); err != nil {
			results <- orderedItem{index: 1 << 30, err: err}
		}
	}()

	return d
}

func (d *Decompressor) Read(p []byte) (int, error) { return d.pr.Read(p) }
