// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bpe

import (
	"context"
	"io"
)

// bpeWriter adapts a Compressor, which pulls its input through an
// io.Reader, to the push-based io.WriteCloser shape callers expect of a
// compressor: raw bytes handed to Write flow through an internal pipe
// into the Compressor, whose compressed output is copied to the
// underlying sink concurrently.
type bpeWriter struct {
	pw   *io.PipeWriter
	done chan error
}

// NewWriter returns an io.WriteCloser: bytes written to it are compressed
// block by block and the resulting wire-format stream is written to w.
// Close must be called to flush the final block and learn whether the
// background copy succeeded.
func NewWriter(ctx context.Context, w io.Writer, opts ...CompressorOption) io.WriteCloser {
	pr, pw := io.Pipe()
	c := NewCompressor(ctx, pr, opts...)
	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(w, c)
		done <- err
	}()
	return &bpeWriter{pw: pw, done: done}
}

func (bw *bpeWriter) Write(p []byte) (int, error) { return bw.pw.Write(p) }

func (bw *bpeWriter) Close() error {
	if err := bw.pw.Close(); err != nil {
		return err
	}
	return <-bw.done
}
