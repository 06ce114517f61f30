// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package counting

// Dense is the 256x256 saturating pair-count table. It is the faster of
// the two engines at the cost of a fixed 64KiB working set, reflecting
// the reference implementation's own finding that the dense table
// outperforms the hashed alternative in practice.
type Dense struct {
	counts [256][256]byte
}

// NewDense returns a ready-to-use Dense counter.
func NewDense() *Dense { return &Dense{} }

func (d *Dense) Reset() { d.counts = [256][256]byte{} }

func (d *Dense) Observe(buf []byte) {
	for i := 0; i+1 < len(buf); i++ {
		l, r := buf[i], buf[i+1]
		if d.counts[l][r] < 255 {
			d.counts[l][r]++
		}
	}
}

// Best scans the table in row-major (l, r) order, so ties go to the
// lexicographically smallest pair, matching spec §4.2's default tie-break.
func (d *Dense) Best() (l, r, count byte, ok bool) {
	for li := 0; li < 256; li++ {
		for ri := 0; ri < 256; ri++ {
			if d.counts[li][ri] > count {
				count = d.counts[li][ri]
				l, r = byte(li), byte(ri)
				ok = true
			}
		}
	}
	return l, r, count, ok
}
