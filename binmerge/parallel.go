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

package binmerge

import (
	"fmt"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/binmerge/bintable"
)

// Opts controls the merge drivers.
type Opts struct {
	// Parallelism is the maximum number of chromosomes merged at once;
	// 0 = runtime.NumCPU().
	Parallelism int
	// Duplicates decides what happens when one input has two tables for the
	// same chromosome.
	Duplicates DuplicatePolicy
}

// DefaultOpts is the default merge configuration.
var DefaultOpts = Opts{
	Parallelism: 0,
	Duplicates:  RejectDuplicates,
}

type pairFunc func(a, b *bintable.Table) (*bintable.Merged, error)

// MergeSignalBackground merges per-chromosome signal tables with the
// background tables of the same chromosomes. Tables are paired by
// chromosome, never by position; a chromosome missing from either side is
// merged against an empty placeholder. Each result has exactly the bins of
// its signal table.
//
// Results are ordered by chromosome: signal chromosomes in input order, then
// chromosomes only the background has.
func MergeSignalBackground(signal, background []*bintable.Table, opts Opts) ([]*bintable.Merged, error) {
	log.Printf("Merging signal and background data.")
	return mergeAll(signal, background, opts, MergeSignalBackgroundTables)
}

// MergeSamples merges per-chromosome tables of two samples of the same kind.
// Each result holds the union of the bins of both samples. Ordering follows
// MergeSignalBackground.
func MergeSamples(sample1, sample2 []*bintable.Table, opts Opts) ([]*bintable.Merged, error) {
	log.Printf("Merging same class data.")
	return mergeAll(sample1, sample2, opts, MergeSampleTables)
}

// mergeAll indexes and reconciles both inputs, then runs merge once per
// chromosome on at most opts.Parallelism goroutines. Every chromosome is
// merged even after a failure. If any fail, the error of the first failing
// chromosome in key order is returned and the results are discarded.
func mergeAll(tables1, tables2 []*bintable.Table, opts Opts, merge pairFunc) ([]*bintable.Merged, error) {
	d1, err := Index(tables1, opts.Duplicates)
	if err != nil {
		return nil, err
	}
	d2, err := Index(tables2, opts.Duplicates)
	if err != nil {
		return nil, err
	}
	if d1, d2, err = Reconcile(d1, d2); err != nil {
		return nil, err
	}
	if d1.Len() != d2.Len() {
		return nil, errors.E(errors.Integrity,
			fmt.Sprintf("binmerge: %d chromosomes on one side, %d on the other", d1.Len(), d2.Len()))
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	keys := d1.Keys()
	results := make([]*bintable.Merged, len(keys))
	errs := make([]error, len(keys))
	log.Debug.Printf("binmerge: merging %d chromosomes with %d jobs", len(keys), parallelism)
	// Per-chromosome failures go to errs rather than to traverse, which
	// stops handing out work after the first error it sees.
	err = traverse.Limit(parallelism).Each(len(keys), func(i int) error {
		chrom := keys[i]
		m, err := merge(d1.Get(chrom), d2.Get(chrom))
		if err != nil {
			errs[i] = errors.E(err, fmt.Sprintf("binmerge: chromosome %s", chrom))
			return nil
		}
		log.Debug.Printf("binmerge: %s: %d rows", chrom, m.Len())
		results[i] = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// TotalReadCount returns the sum of Count over all rows of tables.
func TotalReadCount(tables []*bintable.Table) int64 {
	var n int64
	for _, t := range tables {
		n += t.Sum()
	}
	return n
}
