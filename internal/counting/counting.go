// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package counting implements the two pair-count engines a block
// compressor may choose between: a dense 256x256 array and an
// open-addressed hash table keyed by (33*L + R) mod N. Both are valid per
// the specification; the dense engine is faster and is the default, the
// hashed engine trades time for a smaller working set and is kept because
// it is the documented alternative in the reference implementation.
package counting

// Counter accumulates adjacent-byte-pair counts over a block buffer and
// selects the most frequent pair. Each implementation must be
// deterministic, but the two engines are not required to agree on a tie
// break between equally-frequent pairs.
type Counter interface {
	// Reset clears all counts, preparing for a fresh Observe.
	Reset()
	// Observe scans buf and accumulates counts for every adjacent pair,
	// saturating at 255.
	Observe(buf []byte)
	// Best returns the highest-count pair seen since the last Reset. ok is
	// false if no pair was observed.
	Best() (l, r, count byte, ok bool)
}
