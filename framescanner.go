// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
)

// CompressedFrame is one on-wire block frame: a pair table plus the
// compressed buffer it decodes (spec §6, "Block frame").
type CompressedFrame struct {
	Index int
	Table PairTable
	Data  []byte
}

// FrameScanner parses the self-delimiting block-frame stream produced by
// a Compressor/Writer (spec §4.5, §6). Unlike a format with magic
// numbers, finding the next frame never requires searching the bitstream:
// each frame declares its own length.
type FrameScanner struct {
	br   *bufio.Reader
	idx  int
	done bool
	err  error
	frm  CompressedFrame
}

// NewFrameScanner returns a FrameScanner reading from r.
func NewFrameScanner(r io.Reader) *FrameScanner {
	return &FrameScanner{br: bufio.NewReaderSize(r, BlockSize+512)}
}

// Scan parses the next frame. It returns false at clean end-of-stream or
// on error; callers must check Err afterwards.
func (s *FrameScanner) Scan(ctx context.Context) bool {
	if s.done || s.err != nil {
		return false
	}
	select {
	case <-ctx.Done():
		s.err = ctx.Err()
		return false
	default:
	}

	table, err := readPairTable(s.br, s.idx)
	if err == io.EOF {
		s.done = true
		return false
	}
	if err != nil {
		s.err = err
		return false
	}

	var sizeBuf [2]byte
	if _, err := io.ReadFull(s.br, sizeBuf[:]); err != nil {
		s.err = &FormatError{Block: s.idx, Msg: "truncated size field"}
		return false
	}
	size := int(binary.BigEndian.Uint16(sizeBuf[:]))

	data := make([]byte, size)
	if _, err := io.ReadFull(s.br, data); err != nil {
		s.err = &FormatError{Block: s.idx, Msg: "truncated compressed buffer"}
		return false
	}

	s.frm = CompressedFrame{Index: s.idx, Table: table, Data: data}
	s.idx++
	return true
}

// Block returns the frame most recently produced by Scan.
func (s *FrameScanner) Block() CompressedFrame { return s.frm }

// Err returns the first error encountered by Scan, if any.
func (s *FrameScanner) Err() error { return s.err }
