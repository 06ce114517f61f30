// Copyright 2024 The blockpair Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command bpe compresses and expands byte streams using the block BPE
// codec, and can scan or inspect an existing compressed stream.
package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"

	"cloudeng.io/cmdutil/subcmd"
)

// CommonFlags are shared by the compress and expand subcommands.
type CommonFlags struct {
	Concurrency int  `subcmd:"concurrency,4,'number of blocks processed concurrently'"`
	Verbose     bool `subcmd:"verbose,false,'print per-block trace information to stderr'"`
}

type compressFlags struct {
	CommonFlags
	ProgressBar bool   `subcmd:"progress,true,'display a progress bar'"`
	Output      string `subcmd:"output,,'output file, omit for stdout'"`
	Hashed      bool   `subcmd:"hashed-counts,false,'use the open-addressed hash table pair-count engine instead of the dense array'"`
}

type expandFlags struct {
	CommonFlags
	ProgressBar bool   `subcmd:"progress,true,'display a progress bar'"`
	Output      string `subcmd:"output,,'output file, omit for stdout'"`
}

type noFlags struct{}

var cmdSet *subcmd.CommandSet

func init() {
	defaultConcurrency := map[string]interface{}{
		"concurrency": runtime.GOMAXPROCS(-1),
	}

	compressCmd := subcmd.NewCommand("compress",
		subcmd.MustRegisterFlagStruct(&compressFlags{}, defaultConcurrency, nil),
		compress, subcmd.AtLeastNArguments(0))
	compressCmd.Document(`compress a file or stdin using the block BPE codec`)

	expandCmd := subcmd.NewCommand("expand",
		subcmd.MustRegisterFlagStruct(&expandFlags{}, defaultConcurrency, nil),
		expand, subcmd.AtLeastNArguments(0))
	expandCmd.Document(`expand a file or stdin previously produced by compress`)

	scanCmd := subcmd.NewCommand("scan",
		subcmd.MustRegisterFlagStruct(&noFlags{}, nil, nil),
		scan, subcmd.AtLeastNArguments(1))
	scanCmd.Document(`scan a compressed file's frames without expanding them`)

	inspectCmd := subcmd.NewCommand("inspect",
		subcmd.MustRegisterFlagStruct(&noFlags{}, nil, nil),
		inspect, subcmd.AtLeastNArguments(1))
	inspectCmd.Document(`print per-block pair-table statistics for a compressed file`)

	cmdSet = subcmd.NewCommandSet(compressCmd, expandCmd, scanCmd, inspectCmd)
	cmdSet.Document(`compress, expand, scan and inspect block BPE streams`)
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

// openFileOrURL opens name for reading. name may be "-" or empty for
// stdin, an http(s):// URL, or a local file path.
func openFileOrURL(name string) (io.Reader, func() error, error) {
	if name == "" || name == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		resp, err := http.Get(name)
		if err != nil {
			return nil, nil, err
		}
		return resp.Body, resp.Body.Close, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// createFile opens name for writing, or returns stdout if name is "-" or
// empty.
func createFile(name string) (io.Writer, func() error, error) {
	if name == "" || name == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
