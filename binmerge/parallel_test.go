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

package binmerge_test

import (
	"fmt"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/binmerge/binmerge"
	"github.com/grailbio/binmerge/bintable"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(chrom string, binCounts ...int64) *bintable.Table {
	var rows []bintable.Row
	for i := 0; i+1 < len(binCounts); i += 2 {
		rows = append(rows, bintable.Row{Chromosome: chrom, Bin: binCounts[i], Count: binCounts[i+1]})
	}
	return bintable.MustNew(chrom, rows)
}

func chromosomes(merged []*bintable.Merged) []string {
	names := make([]string, len(merged))
	for i, m := range merged {
		names[i] = m.Chromosome()
	}
	return names
}

func TestMergeSignalBackgroundExample(t *testing.T) {
	signal := []*bintable.Table{table("chr1", 1, 5, 2, 0, 3, 2)}
	background := []*bintable.Table{table("chr1", 1, 1, 3, 4)}
	merged, err := binmerge.MergeSignalBackground(signal, background, binmerge.DefaultOpts)
	require.NoError(t, err)
	require.Equal(t, 1, len(merged))
	expect.EQ(t, merged[0].Len(), 3)
	expect.EQ(t, merged[0].Rows(), []bintable.MergedRow{
		{Chromosome: "chr1", Bin: 1, First: 5, Second: 1},
		{Chromosome: "chr1", Bin: 2, First: 0, Second: 0},
		{Chromosome: "chr1", Bin: 3, First: 2, Second: 4},
	})
}

func TestMergeSignalBackgroundPairsByChromosome(t *testing.T) {
	// Positional pairing would merge chr2 signal with chr3 background.
	signal := []*bintable.Table{table("chr1", 0, 1), table("chr2", 0, 2)}
	background := []*bintable.Table{table("chr1", 0, 3), table("chr3", 0, 4)}
	merged, err := binmerge.MergeSignalBackground(signal, background, binmerge.Opts{Parallelism: 2})
	require.NoError(t, err)
	expect.EQ(t, chromosomes(merged), []string{"chr1", "chr2", "chr3"})
	expect.EQ(t, merged[0].Rows(), []bintable.MergedRow{{Chromosome: "chr1", Bin: 0, First: 1, Second: 3}})
	expect.EQ(t, merged[1].Rows(), []bintable.MergedRow{{Chromosome: "chr2", Bin: 0, First: 2, Second: 0}})
	expect.EQ(t, merged[2].Len(), 0)
}

func TestMergeSamplesExample(t *testing.T) {
	sample1 := []*bintable.Table{table("chr1", 0, 1, 200, 2), table("chr2", 0, 3)}
	sample2 := []*bintable.Table{table("chr1", 200, 4, 400, 5), table("chr3", 600, 6)}
	merged, err := binmerge.MergeSamples(sample1, sample2, binmerge.Opts{Parallelism: 3})
	require.NoError(t, err)
	expect.EQ(t, chromosomes(merged), []string{"chr1", "chr2", "chr3"})
	expect.EQ(t, merged[0].Rows(), []bintable.MergedRow{
		{Chromosome: "chr1", Bin: 0, First: 1, Second: 0},
		{Chromosome: "chr1", Bin: 200, First: 2, Second: 4},
		{Chromosome: "chr1", Bin: 400, First: 0, Second: 5},
	})
	expect.EQ(t, merged[1].Rows(), []bintable.MergedRow{{Chromosome: "chr2", Bin: 0, First: 3, Second: 0}})
	expect.EQ(t, merged[2].Rows(), []bintable.MergedRow{{Chromosome: "chr3", Bin: 600, First: 0, Second: 6}})
	for _, m := range merged {
		expect.EQ(t, m.Mode(), bintable.SampleSample)
	}
}

func TestMergeSamplesOneSideEmpty(t *testing.T) {
	sample := []*bintable.Table{table("chr1", 0, 1), bintable.MustNew("chr2", nil), table("chr3", 0, 2)}
	merged, err := binmerge.MergeSamples(nil, sample, binmerge.DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, chromosomes(merged), []string{"chr1", "chr3"})
	expect.EQ(t, merged[1].Rows(), []bintable.MergedRow{{Chromosome: "chr3", Bin: 0, First: 0, Second: 2}})

	merged, err = binmerge.MergeSamples(nil, nil, binmerge.DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, len(merged), 0)
}

func TestMergeOrder(t *testing.T) {
	const nChrom = 64
	var sample1, sample2 []*bintable.Table
	var want []string
	for i := 0; i < nChrom; i++ {
		chrom := fmt.Sprintf("chr%d", i)
		want = append(want, chrom)
		var bins []int64
		for bin := int64(0); bin < int64(10*(nChrom-i)); bin++ {
			bins = append(bins, bin*200, bin)
		}
		sample1 = append(sample1, table(chrom, bins...))
		// Reverse order on the other side.
		sample2 = append([]*bintable.Table{table(chrom, bins...)}, sample2...)
	}
	for _, parallelism := range []int{0, 1, 4, nChrom * 2} {
		t.Run(fmt.Sprint(parallelism), func(t *testing.T) {
			opts := binmerge.Opts{Parallelism: parallelism}
			merged, err := binmerge.MergeSamples(sample1, sample2, opts)
			require.NoError(t, err)
			expect.EQ(t, chromosomes(merged), want)
			merged, err = binmerge.MergeSignalBackground(sample1, sample2, opts)
			require.NoError(t, err)
			expect.EQ(t, chromosomes(merged), want)
			for i, m := range merged {
				expect.EQ(t, m.Len(), sample1[i].Len())
			}
		})
	}
}

func TestMergeFailsWholeBatch(t *testing.T) {
	var signal, background []*bintable.Table
	for i := 0; i < 8; i++ {
		chrom := fmt.Sprintf("chr%d", i)
		signal = append(signal, table(chrom, 0, 1, 200, 2))
		if i == 3 || i == 6 {
			background = append(background, table(chrom, 0, 1, 0, 2))
		} else {
			background = append(background, table(chrom, 0, 1))
		}
	}
	for _, parallelism := range []int{1, 2, 8} {
		merged, err := binmerge.MergeSignalBackground(signal, background, binmerge.Opts{Parallelism: parallelism})
		require.Error(t, err)
		expect.True(t, merged == nil)
		assert.True(t, errors.Is(errors.Integrity, err))
		e, ok := binmerge.AsRowCountError(err)
		require.True(t, ok)
		expect.EQ(t, e.Chromosome, "chr3")
		expect.EQ(t, e.SignalRows, 2)
		expect.EQ(t, e.MergedRows, 3)
		assert.Contains(t, err.Error(), "chr3")
	}
}

func TestMergeReportsFirstFailureWhenLaterBlockFailsFirst(t *testing.T) {
	// With two workers, chr0-chr3 go to one worker and chr4-chr7 to the
	// other. The large leading tables keep the first worker busy long after
	// chr6 has failed.
	const nBins = 100000
	var signal, background []*bintable.Table
	for i := 0; i < 8; i++ {
		chrom := fmt.Sprintf("chr%d", i)
		switch {
		case i < 3:
			bins := make([]int64, 0, 2*nBins)
			for bin := int64(0); bin < nBins; bin++ {
				bins = append(bins, bin*200, 1)
			}
			signal = append(signal, table(chrom, bins...))
			background = append(background, table(chrom, bins...))
		case i == 3 || i == 6:
			signal = append(signal, table(chrom, 0, 1))
			background = append(background, table(chrom, 0, 1, 0, 2))
		default:
			signal = append(signal, table(chrom, 0, 1))
			background = append(background, table(chrom, 0, 1))
		}
	}
	for run := 0; run < 5; run++ {
		_, err := binmerge.MergeSignalBackground(signal, background, binmerge.Opts{Parallelism: 2})
		require.Error(t, err)
		e, ok := binmerge.AsRowCountError(err)
		require.True(t, ok)
		expect.EQ(t, e.Chromosome, "chr3")
	}
}

func TestMergeDuplicateChromosomes(t *testing.T) {
	sample1 := []*bintable.Table{table("chr1", 0, 1), table("chr1", 200, 2)}
	sample2 := []*bintable.Table{table("chr1", 0, 3)}

	_, err := binmerge.MergeSamples(sample1, sample2, binmerge.DefaultOpts)
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err))

	merged, err := binmerge.MergeSamples(sample1, sample2, binmerge.Opts{Duplicates: binmerge.LastWins})
	require.NoError(t, err)
	expect.EQ(t, merged[0].Rows(), []bintable.MergedRow{
		{Chromosome: "chr1", Bin: 0, First: 0, Second: 3},
		{Chromosome: "chr1", Bin: 200, First: 2, Second: 0},
	})
}

func TestTotalReadCount(t *testing.T) {
	tables := []*bintable.Table{table("chr1", 0, 1, 200, 2, 400, 3), table("chr2", 0, 4, 200, 5)}
	expect.EQ(t, binmerge.TotalReadCount(tables), int64(15))
	expect.EQ(t, binmerge.TotalReadCount(nil), int64(0))
	expect.EQ(t, binmerge.TotalReadCount([]*bintable.Table{bintable.Placeholder("chr1")}), int64(0))
}
