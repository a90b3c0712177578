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

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/binmerge/bintable"
)

// DuplicatePolicy decides what Index does when two tables name the same
// chromosome.
type DuplicatePolicy int

const (
	// RejectDuplicates fails the index with an errors.Invalid error.
	RejectDuplicates DuplicatePolicy = iota
	// LastWins keeps the table that comes later in the input.
	LastWins
)

// ParseDuplicatePolicy parses "reject" or "last".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "reject":
		return RejectDuplicates, nil
	case "last":
		return LastWins, nil
	}
	return 0, fmt.Errorf("unknown duplicate policy %q; expected reject or last", s)
}

// ChromMap maps each chromosome to its one table. Keys are kept in the order
// they were first added, which is the order merges are dispatched in.
type ChromMap struct {
	keys   []string
	tables map[string]*bintable.Table
}

func newChromMap(capacity int) *ChromMap {
	return &ChromMap{
		keys:   make([]string, 0, capacity),
		tables: make(map[string]*bintable.Table, capacity),
	}
}

// put adds or replaces the table of chrom.
func (m *ChromMap) put(chrom string, t *bintable.Table) {
	if _, ok := m.tables[chrom]; !ok {
		m.keys = append(m.keys, chrom)
	}
	m.tables[chrom] = t
}

// Index builds a ChromMap from per-chromosome tables. Tables without rows are
// skipped. A table's chromosome is taken from its first row.
func Index(tables []*bintable.Table, policy DuplicatePolicy) (*ChromMap, error) {
	m := newChromMap(len(tables))
	for _, t := range tables {
		if t == nil || t.Empty() {
			continue
		}
		chrom := t.Row(0).Chromosome
		if _, ok := m.tables[chrom]; ok {
			if policy == RejectDuplicates {
				return nil, errors.E(errors.Invalid, fmt.Sprintf("binmerge.Index: chromosome %s appears in more than one table", chrom))
			}
			log.Debug.Printf("binmerge.Index: replacing earlier table for %s", chrom)
		}
		m.put(chrom, t)
	}
	return m, nil
}

// Keys returns the chromosomes in insertion order.
func (m *ChromMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of chromosomes.
func (m *ChromMap) Len() int { return len(m.keys) }

// Get returns the table of chrom, or nil.
func (m *ChromMap) Get(chrom string) *bintable.Table { return m.tables[chrom] }

// Has reports whether chrom is present.
func (m *ChromMap) Has(chrom string) bool {
	_, ok := m.tables[chrom]
	return ok
}

// Tables returns the tables in key order.
func (m *ChromMap) Tables() []*bintable.Table {
	tables := make([]*bintable.Table, len(m.keys))
	for i, k := range m.keys {
		tables[i] = m.tables[k]
	}
	return tables
}

// Reconcile returns copies of d1 and d2 in which every chromosome of either
// map is present in both, filling the gaps with bintable.Placeholder tables.
// Both results list their keys in the same order: d1's keys, then the keys
// only d2 has. The inputs are not modified.
func Reconcile(d1, d2 *ChromMap) (*ChromMap, *ChromMap, error) {
	union := make([]string, 0, d1.Len()+d2.Len())
	union = append(union, d1.keys...)
	for _, k := range d2.keys {
		if !d1.Has(k) {
			union = append(union, k)
		}
	}
	r1, r2 := newChromMap(len(union)), newChromMap(len(union))
	var filled1, filled2 int
	for _, k := range union {
		if t := d1.Get(k); t != nil {
			r1.put(k, t)
		} else {
			r1.put(k, bintable.Placeholder(k))
			filled1++
		}
		if t := d2.Get(k); t != nil {
			r2.put(k, t)
		} else {
			r2.put(k, bintable.Placeholder(k))
			filled2++
		}
	}
	if filled1+filled2 > 0 {
		log.Printf("binmerge.Reconcile: %d chromosome(s) missing from the first input, %d from the second", filled1, filled2)
	}
	if err := checkSameKeys(r1, r2); err != nil {
		return nil, nil, err
	}
	return r1, r2, nil
}

// checkSameKeys verifies that d1 and d2 have identical key sets.
func checkSameKeys(d1, d2 *ChromMap) error {
	var e ChromosomeSetError
	for _, k := range d1.keys {
		if !d2.Has(k) {
			e.OnlyFirst = append(e.OnlyFirst, k)
		}
	}
	for _, k := range d2.keys {
		if !d1.Has(k) {
			e.OnlySecond = append(e.OnlySecond, k)
		}
	}
	if len(e.OnlyFirst)+len(e.OnlySecond) > 0 {
		return errors.E(errors.Integrity, &e)
	}
	return nil
}
