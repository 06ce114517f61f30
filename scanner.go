// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe

import (
	"bufio"
	"context"
	"io"
)

// RawBlock is one block of uncompressed source bytes handed to the
// compressor, together with the alphabet occupancy the reader built up
// while accumulating it (spec §4.1, §3 "Alphabet occupancy vector").
type RawBlock struct {
	Index    int
	Data     []byte
	Occupied [256]bool
	// More is false iff end-of-input was observed while reading this
	// block; it may still carry data (a final partial block is legal).
	More bool
}

// BlockScanner accumulates the source byte stream into blocks bounded by
// BlockSize and MaxChars (spec §4.1). Its Scan/Block/Err shape follows
// the style of a conventional bufio.Scanner-like reader: call Scan in a
// loop, read Block after each true return, check Err once Scan returns
// false.
type BlockScanner struct {
	br   *bufio.Reader
	idx  int
	done bool
	err  error
	blk  RawBlock
}

// NewBlockScanner returns a BlockScanner reading from r.
func NewBlockScanner(r io.Reader) *BlockScanner {
	return &BlockScanner{br: bufio.NewReaderSize(r, BlockSize)}
}

// Scan reads and buffers the next block. It returns false once the source
// is exhausted or ctx is cancelled; callers must check Err afterwards.
func (s *BlockScanner) Scan(ctx context.Context) bool {
	if s.done || s.err != nil {
		return false
	}
	select {
	case <-ctx.Done():
		s.err = ctx.Err()
		return false
	default:
	}

	var occ [256]bool
	buf := make([]byte, 0, BlockSize)
	used := 0
	for len(buf) < BlockSize && used < MaxChars {
		c, err := s.br.ReadByte()
		if err != nil {
			if err == io.EOF {
				break
			}
			s.err = &IoError{Op: "read block", Err: err}
			return false
		}
		if !occ[c] {
			occ[c] = true
			used++
		}
		buf = append(buf, c)
	}

	_, peekErr := s.br.Peek(1)
	more := peekErr == nil
	if len(buf) == 0 && !more {
		s.done = true
		return false
	}

	s.blk = RawBlock{Index: s.idx, Data: buf, Occupied: occ, More: more}
	s.idx++
	if !more {
		s.done = true
	}
	return true
}

// Block returns the block most recently produced by Scan.
func (s *BlockScanner) Block() RawBlock { return s.blk }

// Err returns the first error encountered by Scan, if any.
func (s *BlockScanner) Err() error { return s.err }
