// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"os"
	"sync"

	"cloudeng.io/cmdutil"
	"github.com/blockpair/bpe"
	"golang.org/x/crypto/ssh/terminal"
)

func expandOpts(cl *CommonFlags) []bpe.DecompressorOption {
	return []bpe.DecompressorOption{
		bpe.DecompressorConcurrency(cl.Concurrency),
		bpe.DecompressorVerbose(cl.Verbose),
	}
}

func expand(ctx context.Context, values interface{}, args []string) error {
	if len(args) > 1 {
		return &bpe.ConfigError{Msg: "expand takes at most one input file argument"}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*expandFlags)
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

	opts := expandOpts(&cl.CommonFlags)

	var barWg sync.WaitGroup
	isTTY := terminal.IsTerminal(int(os.Stdout.Fd()))
	var progressCh chan bpe.Progress
	if cl.ProgressBar && (len(cl.Output) > 0 || !isTTY) {
		progressCh = make(chan bpe.Progress, cl.Concurrency)
		opts = append(opts, bpe.DecompressorSendUpdates(progressCh))
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

	d := bpe.NewDecompressor(ctx, rd, opts...)
	_, copyErr := io.Copy(wr, d)

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
