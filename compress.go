// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe

import "github.com/blockpair/bpe/internal/counting"

// CountStrategy selects which pair-count engine compressBlock uses.
type CountStrategy int

const (
	// DenseCounts uses the 256x256 saturating array. It is the default,
	// matching the reference implementation's own conclusion that the
	// hash table "ended up being twice as slow".
	DenseCounts CountStrategy = iota
	// HashedCounts uses an open-addressed hash table keyed by
	// (33*L + R) mod N, trading time for a smaller working set.
	HashedCounts
)

func newCounter(strategy CountStrategy) counting.Counter {
	if strategy == HashedCounts {
		return counting.NewHashed()
	}
	return counting.NewDense()
}

// compressBlock runs the compression inner loop (spec §4.2-§4.3) to
// completion over one already-read block. occupied records every byte
// value present in buf, plus every value already allocated as a
// substitution code by an earlier pass; it is updated in place as new
// codes are allocated. compressBlock never spawns a goroutine and blocks
// on nothing: it is the synchronous core the spec requires.
func compressBlock(buf []byte, occupied *[256]bool, strategy CountStrategy) (PairTable, []byte) {
	table := NewPairTable()
	work := make([]byte, len(buf))
	copy(work, buf)
	size := len(work)

	counter := newCounter(strategy)
	for pass := 0; pass < MaxPass; pass++ {
		counter.Reset()
		counter.Observe(work[:size])
		l, r, count, ok := counter.Best()
		if !ok || count < MinPairs {
			break
		}
		y, found := allocateCode(&table, occupied)
		if !found {
			break
		}
		size = substitute(work, size, l, r, y)
		table[y] = Pair{Left: l, Right: r}
		occupied[y] = true
	}
	return table, work[:size]
}

// allocateCode scans byte values from 255 downward and returns the first
// one that is still a leaf in table and not yet occupied (spec §4.3). High
// to low is a convention that keeps low, typically printable, byte values
// free for as long as possible; any scan order is semantically equivalent.
func allocateCode(table *PairTable, occupied *[256]bool) (byte, bool) {
	for y := 255; y >= 0; y-- {
		if table[y].Left == byte(y) && !occupied[y] {
			return byte(y), true
		}
	}
	return 0, false
}

// substitute rewrites buf[:size] in place, replacing every non-overlapping
// occurrence of (l, r) scanned left to right with y, and returns the new
// size. The write index never exceeds the read index, so the in-place
// rewrite is safe (spec §4.3).
func substitute(buf []byte, size int, l, r, y byte) int {
	w := 0
	for rd := 0; rd < size; {
		if rd+1 < size && buf[rd] == l && buf[rd+1] == r {
			buf[w] = y
			w++
			rd += 2
			continue
		}
		buf[w] = buf[rd]
		w++
		rd++
	}
	return w
}
