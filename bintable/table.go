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

	"github.com/grailbio/base/errors"
)

// Row is a single bin of a count table.
type Row struct {
	Chromosome string `tsv:"Chromosome"`
	Bin        int64  `tsv:"Bin"`
	Count      int64  `tsv:"Count"`
}

// Table holds the bins of one chromosome. The zero-row tables that callers
// see are either placeholders (see Placeholder) or tables that an indexer
// will drop.
//
// (Chromosome, Bin) is expected to be unique within a table. New does not
// enforce this; use Validate when the input is untrusted. Merging a table
// that violates it is detected downstream by the row-count check.
type Table struct {
	chrom       string
	rows        []Row
	placeholder bool
}

// New returns a Table for chrom holding a copy of rows. Every row must name
// chrom and carry a non-negative count.
func New(chrom string, rows []Row) (*Table, error) {
	for i, r := range rows {
		if r.Chromosome != chrom {
			return nil, errors.E(errors.Invalid,
				fmt.Sprintf("bintable.New: row %d has chromosome %q, table is %q", i, r.Chromosome, chrom))
		}
		if r.Count < 0 {
			return nil, errors.E(errors.Invalid,
				fmt.Sprintf("bintable.New: %s:%d has negative count %d", chrom, r.Bin, r.Count))
		}
	}
	t := &Table{chrom: chrom, rows: make([]Row, len(rows))}
	copy(t.rows, rows)
	return t, nil
}

// MustNew is New that panics on error. It is meant for tests and literals.
func MustNew(chrom string, rows []Row) *Table {
	t, err := New(chrom, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Placeholder returns an empty table standing in for a chromosome that has
// no data on one side of a merge.
func Placeholder(chrom string) *Table {
	return &Table{chrom: chrom, placeholder: true}
}

// Chromosome returns the chromosome of the table.
func (t *Table) Chromosome() string { return t.chrom }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return len(t.rows) == 0 }

// IsPlaceholder reports whether the table was created by Placeholder.
func (t *Table) IsPlaceholder() bool { return t.placeholder }

// Row returns the i'th row.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Rows returns a copy of the rows.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Sum returns the total count over all bins.
func (t *Table) Sum() int64 {
	var n int64
	for _, r := range t.rows {
		n += r.Count
	}
	return n
}

// Validate checks that no bin appears twice.
func (t *Table) Validate() error {
	seen := make(map[int64]struct{}, len(t.rows))
	for _, r := range t.rows {
		if _, ok := seen[r.Bin]; ok {
			return errors.E(errors.Invalid, fmt.Sprintf("bintable: duplicate bin %s:%d", t.chrom, r.Bin))
		}
		seen[r.Bin] = struct{}{}
	}
	return nil
}

// Head returns a copy of at most the first n rows.
func (t *Table) Head(n int) []Row {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	rows := make([]Row, n)
	copy(rows, t.rows[:n])
	return rows
}

// Tail returns a copy of at most the last n rows.
func (t *Table) Tail(n int) []Row {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	rows := make([]Row, n)
	copy(rows, t.rows[len(t.rows)-n:])
	return rows
}
