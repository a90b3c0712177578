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
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash"
	"io"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/binmerge/bintable"
)

// chromChecksum summarizes the rows of one chromosome. All sums are
// commutative, so row order does not affect the checksum.
type chromChecksum struct {
	// Name is the chromosome.
	Name string
	// NRows is the number of rows.
	NRows int64
	// SumFirst and SumSecond are the column totals of the two counts.
	SumFirst  int64
	SumSecond int64
	// SumRows is the sum of the hashes of every (bin, first, second) row.
	SumRows uint64
}

// fileChecksum is the checksum of a merged file.
type fileChecksum struct {
	Mode   string
	Chroms []chromChecksum
}

func hashRow(h hash.Hash64, buf *[24]byte, r bintable.MergedRow) uint64 {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(r.Bin))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(r.First))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(r.Second))
	h.Reset()
	h.Write(buf[:])
	return h.Sum64()
}

func checksumMerged(merged []*bintable.Merged) fileChecksum {
	var (
		csum fileChecksum
		buf  [24]byte
	)
	h := seahash.New()
	for _, m := range merged {
		csum.Mode = m.Mode().String()
		c := chromChecksum{Name: m.Chromosome()}
		for i := 0; i < m.Len(); i++ {
			r := m.Row(i)
			c.NRows++
			c.SumFirst += r.First
			c.SumSecond += r.Second
			c.SumRows += hashRow(h, &buf, r)
		}
		csum.Chroms = append(csum.Chroms, c)
	}
	return csum
}

func checksum(stdout io.Writer, path string) error {
	merged, err := bintable.ReadMergedFromPath(vcontext.Background(), path)
	if err != nil {
		return err
	}
	js, err := json.MarshalIndent(checksumMerged(merged), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(js))
	return err
}
