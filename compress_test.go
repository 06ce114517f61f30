// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe

import (
	"bytes"
	"testing"
)

func occupancyOf(buf []byte) [256]bool {
	var occ [256]bool
	for _, b := range buf {
		occ[b] = true
	}
	return occ
}

func TestCompressBlockReducesRepeatedPair(t *testing.T) {
	buf := []byte("ABABABABAB")
	occ := occupancyOf(buf)
	_, out := compressBlock(buf, &occ, DenseCounts)
	if len(out) >= len(buf) {
		t.Fatalf("got size %d, want < %d", len(out), len(buf))
	}
}

func TestCompressBlockSingleByteRun(t *testing.T) {
	buf := bytes.Repeat([]byte("A"), 8)
	occ := occupancyOf(buf)
	table, out := compressBlock(buf, &occ, DenseCounts)
	if len(out) > 4 {
		t.Fatalf("got size %d, want <= 4 after substituting AA", len(out))
	}
	if err := table.Validate(0); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestCompressBlockNoPairsBelowMinPairs(t *testing.T) {
	buf := []byte("AB")
	occ := occupancyOf(buf)
	_, out := compressBlock(buf, &occ, DenseCounts)
	if len(out) != 2 {
		t.Fatalf("got size %d, want 2 (below MINPAIRS, no substitution)", len(out))
	}
}

func TestCompressBlockHashedAgreesOnReduction(t *testing.T) {
	buf := bytes.Repeat([]byte("ab"), 200)
	occDense := occupancyOf(buf)
	occHash := occupancyOf(buf)
	_, dense := compressBlock(buf, &occDense, DenseCounts)
	_, hashed := compressBlock(buf, &occHash, HashedCounts)
	if len(dense) >= len(buf) {
		t.Fatalf("dense: got size %d, want < %d", len(dense), len(buf))
	}
	if len(hashed) >= len(buf) {
		t.Fatalf("hashed: got size %d, want < %d", len(hashed), len(buf))
	}
}

func TestAllocateCodeScansHighToLow(t *testing.T) {
	table := NewPairTable()
	var occ [256]bool
	y, ok := allocateCode(&table, &occ)
	if !ok || y != 255 {
		t.Fatalf("got (%d, %v), want (255, true)", y, ok)
	}
	occ[255] = true
	y, ok = allocateCode(&table, &occ)
	if !ok || y != 254 {
		t.Fatalf("got (%d, %v), want (254, true)", y, ok)
	}
}

func TestSubstituteNonOverlapping(t *testing.T) {
	buf := []byte("AAAA")
	size := substitute(buf, len(buf), 'A', 'A', 'X')
	if size != 2 || string(buf[:size]) != "XX" {
		t.Fatalf("got %q, want %q", buf[:size], "XX")
	}
}
