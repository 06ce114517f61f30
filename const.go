// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe

const (
	// BlockSize is the maximum number of raw bytes admitted into one block.
	BlockSize = 5000

	// MaxChars is the maximum number of distinct byte values admitted into
	// one block before the reader cuts the block early. This guarantees at
	// least 56 free byte values remain available as substitution codes.
	MaxChars = 200

	// MinPairs is the minimum pair count required to justify a further
	// substitution pass.
	MinPairs = 3

	// MaxPass is a belt-and-braces limit on the number of substitution
	// passes performed within a single block; MinPairs and the exhaustion
	// of free codes are what actually terminate the loop in practice.
	MaxPass = 200
)
