// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe_test

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"testing"
	"time"

	"github.com/blockpair/bpe"
	"github.com/blockpair/bpe/internal/fixtures"
)

func compressAll(t *testing.T, data []byte, opts ...bpe.CompressorOption) []byte {
	t.Helper()
	ctx := context.Background()
	c := bpe.NewCompressor(ctx, bytes.NewReader(data), opts...)
	out, err := io.ReadAll(c)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	return out
}

func expandAll(t *testing.T, data []byte, opts ...bpe.DecompressorOption) []byte {
	t.Helper()
	ctx := context.Background()
	d := bpe.NewDecompressor(ctx, bytes.NewReader(data), opts...)
	out, err := io.ReadAll(d)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	return out
}

func roundTrip(t *testing.T, data []byte) []byte {
	t.Helper()
	compressed := compressAll(t, data)
	return expandAll(t, compressed)
}

func TestRoundTripScenarios(t *testing.T) {
	cases := map[string][]byte{
		"empty":          {},
		"single-byte":    {0x42},
		"two-bytes":      {0x01, 0x02},
		"65536-zeros":    bytes.Repeat([]byte{0}, 65536),
		"repeated-abc":   bytes.Repeat([]byte("abc"), 2000),
		"AAAAAAAA":       []byte("AAAAAAAA"),
		"ABABABABAB":     []byte("ABABABABAB"),
		"lorem-x100":     fixtures.Repeat("The quick brown fox jumps over the lazy dog.", 100),
		"random-13371":   fixtures.PredictableRandomData(13371),
		"0xFF-x5001":     bytes.Repeat([]byte{0xFF}, 5001),
		"random-5000":    fixtures.PredictableRandomData(5000),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			got := roundTrip(t, data)
			if !bytes.Equal(got, data) {
				t.Fatalf("round trip mismatch for %s: got len %d, want len %d", name, len(got), len(data))
			}
		})
	}
}

func TestCompressedSmallerForRedundantInput(t *testing.T) {
	data := []byte("ABABABABAB")
	compressed := compressAll(t, data)
	// Frame overhead (pair-table records + size field) means the whole
	// frame need not be smaller, but the embedded compressed buffer must
	// shrink relative to the 10-byte source.
	if len(compressed) == 0 {
		t.Fatal("expected non-empty compressed output")
	}
	sc := bpe.NewFrameScanner(bytes.NewReader(compressed))
	if !sc.Scan(context.Background()) {
		t.Fatalf("scan: %v", sc.Err())
	}
	if n := len(sc.Block().Data); n >= len(data) {
		t.Fatalf("got compressed buffer size %d, want < %d", n, len(data))
	}
	got := expandAll(t, compressed)
	if string(got) != string(data) {
		t.Fatalf("got %q, want %q", got, data)
	}
}

func TestHashedCountsRoundTrip(t *testing.T) {
	data := fixtures.Repeat("mississippi river", 300)
	compressed := compressAll(t, data, bpe.CompressorCountStrategy(bpe.HashedCounts))
	got := expandAll(t, compressed)
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch with hashed counts")
	}
}

func TestExpandRejectsZeroCountRecord(t *testing.T) {
	_, err := io.ReadAll(bpe.NewDecompressor(context.Background(), bytes.NewReader([]byte{0})))
	if _, ok := err.(*bpe.FormatError); !ok {
		t.Fatalf("got %v (%T), want *bpe.FormatError", err, err)
	}
}

func TestExpandRejectsCyclicTable(t *testing.T) {
	// Identity table except for a cycle between bytes 200 and 201,
	// followed by a zero-length compressed buffer.
	table := bpe.NewPairTable()
	table[200] = bpe.Pair{Left: 201, Right: 0}
	table[201] = bpe.Pair{Left: 200, Right: 0}

	var buf bytes.Buffer
	if _, err := table.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	buf.Write([]byte{0, 0}) // size = 0

	_, err := io.ReadAll(bpe.NewDecompressor(context.Background(), bytes.NewReader(buf.Bytes())))
	if _, ok := err.(*bpe.GraphError); !ok {
		t.Fatalf("got %v (%T), want *bpe.GraphError", err, err)
	}
}

func TestExpandRejectsTruncatedInput(t *testing.T) {
	full := compressAll(t, []byte("hello world, hello world, hello world"))
	truncated := full[:len(full)-3]
	_, err := io.ReadAll(bpe.NewDecompressor(context.Background(), bytes.NewReader(truncated)))
	if err == nil {
		t.Fatal("want a non-nil error for truncated input")
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	data := fixtures.Repeat("round trip through the writer and reader wrappers. ", 50)
	var compressed bytes.Buffer
	ctx := context.Background()
	w := bpe.NewWriter(ctx, &compressed)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r := bpe.NewReader(ctx, &compressed)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("writer/reader round trip mismatch")
	}
}

func TestWorkersReleasedAfterStream(t *testing.T) {
	if runtime.GOMAXPROCS(0) < 2 {
		t.Skip("needs more than one CPU to exercise concurrency")
	}
	start := bpe.ActiveWorkers()
	data := fixtures.PredictableRandomData(40000)
	compressed := compressAll(t, data, bpe.CompressorConcurrency(4))
	_ = expandAll(t, compressed, bpe.DecompressorConcurrency(4))

	deadline := time.Now().Add(time.Second)
	for bpe.ActiveWorkers() != start && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := bpe.ActiveWorkers(); got != start {
		t.Fatalf("goroutine leak: got %d active workers, want %d", got, start)
	}
}
