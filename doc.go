// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bpe implements a block-oriented byte-pair-encoding codec: a
// lossless compressor and its inverse expander communicating through a
// self-delimiting binary frame format.
//
// The source byte stream is split into bounded blocks. Within each block
// the compressor repeatedly replaces the most frequent adjacent byte pair
// with an otherwise-unused byte value, recording the substitution in a
// 256-entry pair table. The expander inverts this with a small stack and
// constant auxiliary memory per block.
//
// Compressor and Decompressor drive the per-block codec concurrently over
// independent blocks; NewWriter and NewReader wrap them behind the
// standard io.WriteCloser / io.Reader interfaces.
package bpe
