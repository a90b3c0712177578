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

package bintable

import (
	"fmt"
	"strings"
)

// Mode selects how two tables of one chromosome are combined, and hence the
// column names of the result.
type Mode int

const (
	// SignalBackground left-joins a signal table (e.g. ChIP) onto a
	// background table (e.g. Input). The signal side decides which bins are
	// present.
	SignalBackground Mode = iota
	// SampleSample outer-joins two tables of the same kind, e.g. replicates.
	SampleSample
)

var modeColumns = [...][4]string{
	SignalBackground: {"Chromosome", "Bin", "Signal", "Background"},
	SampleSample:     {"Chromosome", "Bin", "Count_from_sample1", "Count_from_sample2"},
}

// Columns returns the column names of a merged table in this mode.
func (m Mode) Columns() []string {
	c := modeColumns[m]
	return c[:]
}

func (m Mode) String() string {
	switch m {
	case SignalBackground:
		return "signal/background"
	case SampleSample:
		return "sample/sample"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses the value printed by Mode.String, or the header line of a
// merged TSV.
func ParseMode(s string) (Mode, error) {
	for m := range modeColumns {
		mode := Mode(m)
		if s == mode.String() || s == strings.Join(mode.Columns(), "\t") {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("bintable: unknown merge mode %q", s)
}

// MergedRow is one bin of a merged table. First and Second are the counts
// of the two inputs, in the order given to the merge.
type MergedRow struct {
	Chromosome string
	Bin        int64
	First      int64
	Second     int64
}

// Merged is the combination of two tables of one chromosome.
type Merged struct {
	mode  Mode
	chrom string
	rows  []MergedRow
}

// NewMerged returns a merged table. It takes ownership of rows.
func NewMerged(mode Mode, chrom string, rows []MergedRow) *Merged {
	return &Merged{mode: mode, chrom: chrom, rows: rows}
}

// Mode returns the merge mode that produced the table.
func (m *Merged) Mode() Mode { return m.mode }

// Chromosome returns the chromosome of the table.
func (m *Merged) Chromosome() string { return m.chrom }

// Len returns the number of rows.
func (m *Merged) Len() int { return len(m.rows) }

// Row returns the i'th row.
func (m *Merged) Row(i int) MergedRow { return m.rows[i] }

// Rows returns a copy of the rows.
func (m *Merged) Rows() []MergedRow {
	rows := make([]MergedRow, len(m.rows))
	copy(rows, m.rows)
	return rows
}

// Head returns a copy of at most the first n rows.
func (m *Merged) Head(n int) []MergedRow {
	if n > len(m.rows) {
		n = len(m.rows)
	}
	rows := make([]MergedRow, n)
	copy(rows, m.rows[:n])
	return rows
}

// Tail returns a copy of at most the last n rows.
func (m *Merged) Tail(n int) []MergedRow {
	if n > len(m.rows) {
		n = len(m.rows)
	}
	rows := make([]MergedRow, n)
	copy(rows, m.rows[len(m.rows)-n:])
	return rows
}
