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
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/binmerge/bintable"
)

// pairChromosome returns the chromosome shared by a and b. An empty table
// pairs with anything.
func pairChromosome(a, b *bintable.Table) (string, error) {
	switch {
	case a.Empty() && b.Empty():
		if a.Chromosome() != "" {
			return a.Chromosome(), nil
		}
		return b.Chromosome(), nil
	case a.Empty():
		return b.Chromosome(), nil
	case b.Empty() || a.Chromosome() == b.Chromosome():
		return a.Chromosome(), nil
	}
	return "", errors.E(errors.Invalid,
		fmt.Sprintf("binmerge: cannot merge tables of different chromosomes %s and %s", a.Chromosome(), b.Chromosome()))
}

// binCounts groups the counts of t by bin. A bin listed twice keeps both
// counts, in table order.
func binCounts(t *bintable.Table) map[int64][]int64 {
	m := make(map[int64][]int64, t.Len())
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		m[r.Bin] = append(m[r.Bin], r.Count)
	}
	return m
}

// MergeSignalBackgroundTables left-joins signal onto background on
// (Chromosome, Bin). The result has the rows of signal in order, with the
// matching background count, or 0 where background has no such bin.
//
// The result must have exactly signal.Len() rows; otherwise a RowCountError
// wrapped as errors.Integrity is returned.
func MergeSignalBackgroundTables(signal, background *bintable.Table) (*bintable.Merged, error) {
	chrom, err := pairChromosome(signal, background)
	if err != nil {
		return nil, err
	}
	bg := binCounts(background)
	rows := make([]bintable.MergedRow, 0, signal.Len())
	for i := 0; i < signal.Len(); i++ {
		r := signal.Row(i)
		matches := bg[r.Bin]
		if len(matches) == 0 {
			rows = append(rows, bintable.MergedRow{Chromosome: r.Chromosome, Bin: r.Bin, First: r.Count})
			continue
		}
		for _, c := range matches {
			rows = append(rows, bintable.MergedRow{Chromosome: r.Chromosome, Bin: r.Bin, First: r.Count, Second: c})
		}
	}
	merged := bintable.NewMerged(bintable.SignalBackground, chrom, rows)
	if merged.Len() != signal.Len() {
		return nil, errors.E(errors.Integrity, newRowCountError(chrom, signal, background, merged))
	}
	return merged, nil
}

func newRowCountError(chrom string, signal, background *bintable.Table, merged *bintable.Merged) *RowCountError {
	return &RowCountError{
		Chromosome:     chrom,
		SignalRows:     signal.Len(),
		BackgroundRows: background.Len(),
		MergedRows:     merged.Len(),
		SignalHead:     bintable.FormatRows(signal.Head(previewRows)),
		SignalTail:     bintable.FormatRows(signal.Tail(previewRows)),
		BackgroundHead: bintable.FormatRows(background.Head(previewRows)),
		BackgroundTail: bintable.FormatRows(background.Tail(previewRows)),
		MergedHead:     bintable.FormatMergedRows(merged.Mode(), merged.Head(previewRows)),
		MergedTail:     bintable.FormatMergedRows(merged.Mode(), merged.Tail(previewRows)),
	}
}

// MergeSampleTables outer-joins a and b on (Chromosome, Bin). The result
// holds every bin of either table, sorted by bin, with 0 for the side that
// lacks it.
func MergeSampleTables(a, b *bintable.Table) (*bintable.Merged, error) {
	chrom, err := pairChromosome(a, b)
	if err != nil {
		return nil, err
	}
	ac, bc := binCounts(a), binCounts(b)
	bins := make([]int64, 0, len(ac)+len(bc))
	for bin := range ac {
		bins = append(bins, bin)
	}
	for bin := range bc {
		if _, ok := ac[bin]; !ok {
			bins = append(bins, bin)
		}
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i] < bins[j] })

	zero := []int64{0}
	rows := make([]bintable.MergedRow, 0, len(bins))
	for _, bin := range bins {
		firsts, seconds := ac[bin], bc[bin]
		if len(firsts) == 0 {
			firsts = zero
		}
		if len(seconds) == 0 {
			seconds = zero
		}
		for _, x := range firsts {
			for _, y := range seconds {
				rows = append(rows, bintable.MergedRow{Chromosome: chrom, Bin: bin, First: x, Second: y})
			}
		}
	}
	return bintable.NewMerged(bintable.SampleSample, chrom, rows), nil
}
