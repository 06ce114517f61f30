// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"cloudeng.io/cmdutil"
	"cloudeng.io/errors"
	"github.com/blockpair/bpe"
)

func scanFile(ctx context.Context, name string) error {
	rd, closeIn, err := openFileOrURL(name)
	if err != nil {
		return err
	}
	defer closeIn()

	sc := bpe.NewFrameScanner(rd)
	for sc.Scan(ctx) {
		block := sc.Block()
		fmt.Printf("%s: block %d: compressed-size=%d\n", name, block.Index, len(block.Data))
	}
	return sc.Err()
}

func scan(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cmdutil.HandleSignals(cancel, os.Interrupt)
	errs := errors.M{}
	for _, arg := range args {
		errs.Append(scanFile(ctx, arg))
	}
	return errs.Err()
}

func inspectFile(ctx context.Context, name string) error {
	rd, closeIn, err := openFileOrURL(name)
	if err != nil {
		return err
	}
	defer closeIn()

	fmt.Printf("=== %s ===\n", name)
	sc := bpe.NewFrameScanner(rd)
	for sc.Scan(ctx) {
		block := sc.Block()
		leaves, pairs := 0, 0
		for b := 0; b < 256; b++ {
			if block.Table.Leaf(byte(b)) {
				leaves++
			} else {
				pairs++
			}
		}
		if err := block.Table.Validate(block.Index); err != nil {
			fmt.Printf("block %d: INVALID: %v\n", block.Index, err)
			continue
		}
		fmt.Printf("block %d: leaves=%d substitutions=%d compressed-size=%d\n",
			block.Index, leaves, pairs, len(block.Data))
	}
	return sc.Err()
}

func inspect(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cmdutil.HandleSignals(cancel, os.Interrupt)
	errs := errors.M{}
	for _, arg := range args {
		errs.Append(inspectFile(ctx, arg))
	}
	return errs.Err()
}
