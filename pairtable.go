// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe

import (
	"bufio"
	"io"
)

// Pair is one entry of a PairTable: byte value b expands to L R when
// L != b, or to itself (a leaf) when L == b.
type Pair struct {
	Left, Right byte
}

// PairTable is the 256-entry substitution table built during compression
// of one block and consumed during its expansion.
type PairTable [256]Pair

// NewPairTable returns the identity table: every byte is a leaf.
func NewPairTable() PairTable {
	var t PairTable
	for b := 0; b < 256; b++ {
		t[b] = Pair{Left: byte(b), Right: 0}
	}
	return t
}

// Leaf reports whether byte value b expands to itself.
func (t *PairTable) Leaf(b byte) bool { return t[b].Left == b }

// WriteTo serializes the table as run-length-encoded records (spec §4.4):
// leaf runs as a negative length byte followed by one trailing pair, pair
// runs as a positive length byte followed by that many (L, R) pairs.
//
// A leaf run that advances the walk to exactly 256 still emits a trailing
// pair of zero bytes; the reader consumes but discards it (§6, §9).
func (t *PairTable) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 0, 258)
	c := 0
	for c < 256 {
		if t[c].Left == byte(c) {
			count := 0
			for c < 256 && t[c].Left == byte(c) && count < 128 {
				c++
				count++
			}
			buf = append(buf, byte(int8(-count)))
			var trailing Pair
			if c < 256 {
				trailing = t[c]
				c++
			}
			buf = append(buf, trailing.Left, trailing.Right)
		} else {
			start := c
			count := 0
			for c < 256 && t[c].Left != byte(c) && count < 127 {
				c++
				count++
			}
			buf = append(buf, byte(count))
			for b := start; b < c; b++ {
				buf = append(buf, t[b].Left, t[b].Right)
			}
		}
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// readPairTable parses one run-length-encoded pair table from r (spec
// §4.5). It returns io.EOF, unwrapped, only when the stream ends cleanly
// at the very first byte of the table — the legal "no more blocks"
// signal. Any other truncation is a *FormatError.
func readPairTable(r *bufio.Reader, block int) (PairTable, error) {
	table := NewPairTable()
	b := 0
	pair := make([]byte, 2)
	for b < 256 {
		c, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && b == 0 {
				return table, io.EOF
			}
			return table, &FormatError{Block: block, Msg: "unexpected end of input in pair table"}
		}
		count := int(int8(c))
		switch {
		case count == 0:
			return table, &FormatError{Block: block, Msg: "zero-length pair-table record"}
		case count < 0:
			b += -count
			if b > 256 {
				return table, &FormatError{Block: block, Msg: "pair-table advance overruns 256"}
			}
			if _, err := io.ReadFull(r, pair); err != nil {
				return table, &FormatError{Block: block, Msg: "truncated pair after leaf run"}
			}
			if b < 256 {
				table[b] = Pair{pair[0], pair[1]}
				b++
			}
		default:
			end := b + count
			if end > 256 {
				return table, &FormatError{Block: block, Msg: "pair-table advance overruns 256"}
			}
			for ; b < end; b++ {
				if _, err := io.ReadFull(r, pair); err != nil {
					return table, &FormatError{Block: block, Msg: "truncated pair run"}
				}
				table[b] = Pair{pair[0], pair[1]}
			}
		}
	}
	return table, nil
}

// tableColor marks DFS visitation state for Validate.
type tableColor uint8

const (
	white tableColor = iota
	grey
	black
)

// Validate rejects pair tables that are structurally malformed or whose
// expansion graph contains a cycle (spec §4.7). It must be called before
// expandBlock runs over untrusted input.
func (t *PairTable) Validate(block int) error {
	var color [256]tableColor
	var graphErr *GraphError

	var visit func(b byte)
	visit = func(b byte) {
		if graphErr != nil || color[b] == black {
			return
		}
		if color[b] == grey {
			graphErr = &GraphError{Block: block, Byte: b}
			return
		}
		color[b] = grey
		if t[b].Left != b {
			visit(t[b].Left)
			if graphErr == nil {
				visit(t[b].Right)
			}
		}
		if graphErr == nil {
			color[b] = black
		}
	}

	for b := 0; b < 256; b++ {
		if t[b].Left == byte(b) {
			if t[b].Right > 1 {
				return &FormatError{Block: block, Msg: "leaf self-reference violated: R[b] > 1"}
			}
			continue
		}
		if t[b].Right == byte(b) {
			return &FormatError{Block: block, Msg: "pair record self-loop on R[b]"}
		}
	}
	for b := 0; b < 256; b++ {
		visit(byte(b))
		if graphErr != nil {
			return graphErr
		}
	}
	return nil
}
