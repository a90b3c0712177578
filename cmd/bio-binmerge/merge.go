// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/binmerge/binmerge"
	"github.com/grailbio/binmerge/bintable"
)

type mergeFlags struct {
	parallelism *int
	duplicates  *string
	out         *string
}

func (f mergeFlags) opts() (binmerge.Opts, error) {
	opts := binmerge.DefaultOpts
	opts.Parallelism = *f.parallelism
	policy, err := binmerge.ParseDuplicatePolicy(*f.duplicates)
	if err != nil {
		return opts, err
	}
	opts.Duplicates = policy
	return opts, nil
}

func merge(stdout io.Writer, mode bintable.Mode, flags mergeFlags, path1, path2 string) error {
	opts, err := flags.opts()
	if err != nil {
		return err
	}
	ctx := vcontext.Background()
	tables1, err := bintable.ReadTablesFromPath(ctx, path1)
	if err != nil {
		return err
	}
	tables2, err := bintable.ReadTablesFromPath(ctx, path2)
	if err != nil {
		return err
	}
	log.Printf("%s: %d chromosomes, %d reads", path1, len(tables1), binmerge.TotalReadCount(tables1))
	log.Printf("%s: %d chromosomes, %d reads", path2, len(tables2), binmerge.TotalReadCount(tables2))

	var merged []*bintable.Merged
	switch mode {
	case bintable.SignalBackground:
		merged, err = binmerge.MergeSignalBackground(tables1, tables2, opts)
	case bintable.SampleSample:
		merged, err = binmerge.MergeSamples(tables1, tables2, opts)
	default:
		err = fmt.Errorf("unsupported merge mode %v", mode)
	}
	if err != nil {
		return err
	}
	if *flags.out == "" {
		return bintable.WriteMerged(stdout, mode, merged)
	}
	if err = bintable.WriteMergedToPath(ctx, *flags.out, mode, merged); err != nil {
		return err
	}
	log.Printf("%s: wrote %d chromosomes", *flags.out, len(merged))
	return nil
}

func total(stdout io.Writer, paths []string) error {
	ctx := vcontext.Background()
	var n int64
	for _, path := range paths {
		tables, err := bintable.ReadTablesFromPath(ctx, path)
		if err != nil {
			return err
		}
		n += binmerge.TotalReadCount(tables)
	}
	_, err := fmt.Fprintln(stdout, n)
	return err
}
