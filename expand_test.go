// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe

import (
	"bytes"
	"testing"
)

func TestExpandBlockRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x01, 0x02},
		bytes.Repeat([]byte{0}, 65536),
		bytes.Repeat([]byte("abc"), 2000),
		[]byte("The quick brown fox jumps over the lazy dog."),
	}
	for _, original := range cases {
		occ := occupancyOf(original)
		table, compressed := compressBlock(original, &occ, DenseCounts)
		if err := table.Validate(0); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		got := expandBlock(&table, compressed)
		if !bytes.Equal(got, original) {
			t.Fatalf("round trip mismatch: got len %d, want len %d", len(got), len(original))
		}
	}
}

func TestExpandBlockNestedSubstitution(t *testing.T) {
	table := NewPairTable()
	// 255 -> "AB", 254 -> (255)(255) i.e. "ABAB"
	table[255] = Pair{Left: 'A', Right: 'B'}
	table[254] = Pair{Left: 255, Right: 255}
	got := expandBlock(&table, []byte{254})
	if string(got) != "ABAB" {
		t.Fatalf("got %q, want %q", got, "ABAB")
	}
}
