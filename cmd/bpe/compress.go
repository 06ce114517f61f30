// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"cloudeng.io/cmdutil"
	"github.com/blockpair/bpe"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"
)

func compressOpts(cl *CommonFlags, hashed bool) []bpe.CompressorOption {
	strategy := bpe.DenseCounts
	if hashed {
		strategy = bpe.HashedCounts
	}
	return []bpe.CompressorOption{
		bpe.CompressorConcurrency(cl.Concurrency),
		bpe.CompressorVerbose(cl.Verbose),
		bpe.CompressorCountStrategy(strategy),
	}
}

func runProgressBar(ctx context.Context, w io.Writer, ch <-chan bpe.Progress) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetPredictTime(false))
	for {
		select {
		case p, ok := <-ch:
			if !ok {
				fmt.Fprintln(w)
				return
			}
			bar.Add(p.RawSize)
		case <-ctx.Done():
			return
		}
	}
}

func compress(ctx context.Context, values interface{}, args []string) error {
	if len(args) > 1 {
		return &bpe.ConfigError{Msg: "compress takes at most one input file argument"}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*compressFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	var inputName string
	if len(args) == 1 {
		inputName = args[0]
	}
	rd, closeIn, err := openFileOrURL(inputName)
	if err != nil {
		return err
	}
	defer closeIn()

	wr, closeOut, err := createFile(cl.Output)
	if err != nil {
		return err
	}

	opts := compressOpts(&cl.CommonFlags, cl.Hashed)

	var barWg sync.WaitGroup
	isTTY := terminal.IsTerminal(int(os.Stdout.Fd()))
	var progressCh chan bpe.Progress
	if cl.ProgressBar && (len(cl.Output) > 0 || !isTTY) {
		progressCh = make(chan bpe.Progress, cl.Concurrency)
		opts = append(opts, bpe.CompressorSendUpdates(progressCh))
		barWg.Add(1)
		barWr := os.Stdout
		if !isTTY {
			barWr = os.Stderr
		}
		go func() {
			defer barWg.Done()
			runProgressBar(ctx, barWr, progressCh)
		}()
	}

	c := bpe.NewCompressor(ctx, rd, opts...)
	_, copyErr := io.Copy(wr, c)

	if progressCh != nil {
		close(progressCh)
		barWg.Wait()
	}

	closeErr := closeOut()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}
