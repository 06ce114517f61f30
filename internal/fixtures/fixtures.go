// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fixtures provides reproducible test data generators shared by
// this module's test files.
package fixtures

import "math/rand"

// predictableSeed is shared across test files that need byte-identical
// random data from run to run.
const predictableSeed = 0x1234

// PredictableRandomData generates random bytes from a fixed, known seed.
func PredictableRandomData(size int) []byte {
	gen := rand.New(rand.NewSource(predictableSeed))
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(gen.Intn(256))
	}
	return out
}

// Repeat returns s repeated n times as a single byte slice.
func Repeat(s string, n int) []byte {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return out
}

// FirstN returns at most the first n bytes of b.
func FirstN(n int, b []byte) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
