// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/blockpair/bpe"
	"github.com/blockpair/bpe/internal/fixtures"
)

func TestCompressorReportsProgressInOrder(t *testing.T) {
	// Five distinct byte values stay under MaxChars, so blocks are cut
	// only at BlockSize: exactly three of them.
	data := fixtures.Repeat("abcde", 3*bpe.BlockSize/5)
	updates := make(chan bpe.Progress, 8)

	ctx := context.Background()
	c := bpe.NewCompressor(ctx, bytes.NewReader(data),
		bpe.CompressorConcurrency(4),
		bpe.CompressorSendUpdates(updates))

	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(io.Discard, c)
		close(updates)
		done <- err
	}()

	next := 0
	for p := range updates {
		if p.Block != next {
			t.Fatalf("got out-of-order block %d, want %d", p.Block, next)
		}
		next++
	}
	if err := <-done; err != nil {
		t.Fatalf("copy: %v", err)
	}
	if next != 3 {
		t.Fatalf("got %d progress updates, want 3", next)
	}
}

func TestDecompressorConcurrencyOptionAccepted(t *testing.T) {
	data := fixtures.PredictableRandomData(2 * bpe.BlockSize)
	ctx := context.Background()
	c := bpe.NewCompressor(ctx, bytes.NewReader(data))
	compressed, err := io.ReadAll(c)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	d := bpe.NewDecompressor(ctx, bytes.NewReader(compressed), bpe.DecompressorConcurrency(1))
	got, err := io.ReadAll(d)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip mismatch with concurrency=1")
	}
}
