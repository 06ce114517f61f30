// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe

import (
	"context"
	"io"
)

// NewReader returns an io.Reader that expands the compressed wire-format
// stream read from r, driven by a Decompressor in the background.
// Cancelling ctx stops the reading of further frames and makes a later
// Read return ctx.Err(); a block expansion already under way is not
// interrupted.
func NewReader(ctx context.Context, r io.Reader, opts ...DecompressorOption) io.Reader {
	return NewDecompressor(ctx, r, opts...)
}
