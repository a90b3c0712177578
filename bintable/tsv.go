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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	pkgerrors "github.com/pkg/errors"
)

// RequiredColumns are the columns every count file must name in its header.
var RequiredColumns = []string{"Chromosome", "Bin", "Count"}

// readHeader consumes the header line of r and returns it, including the
// line terminator, along with the column names.
func readHeader(r *bufio.Reader) (line string, cols []string, err error) {
	line, err = r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", nil, err
	}
	if strings.TrimSpace(line) == "" {
		return "", nil, errors.E(errors.Invalid, "bintable: missing header row")
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	cols = strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	return line, cols, nil
}

func checkColumns(cols []string, required []string) error {
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	var missing []string
	for _, c := range required {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return errors.E(errors.Invalid,
			fmt.Sprintf("bintable: header %q lacks column(s) %s", strings.Join(cols, "\t"), strings.Join(missing, ", ")))
	}
	return nil
}

// ReadTables reads a count TSV and returns one Table per run of consecutive
// rows naming the same chromosome, in file order. A chromosome whose rows are
// not contiguous therefore yields more than one table; binmerge.Index decides
// what to do with those. Columns other than RequiredColumns are ignored.
func ReadTables(r io.Reader) ([]*Table, error) {
	br := bufio.NewReader(r)
	header, cols, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if err = checkColumns(cols, RequiredColumns); err != nil {
		return nil, err
	}
	tr := tsv.NewReader(io.MultiReader(strings.NewReader(header), br))
	tr.HasHeaderRow = true
	tr.UseHeaderNames = true

	var (
		tables []*Table
		run    []Row
	)
	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		t, err := New(run[0].Chromosome, run)
		if err != nil {
			return err
		}
		tables = append(tables, t)
		run = run[:0]
		return nil
	}
	for line := 2; ; line++ {
		var row Row
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, pkgerrors.Wrapf(err, "bintable: line %d", line))
		}
		if len(run) > 0 && run[0].Chromosome != row.Chromosome {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		run = append(run, row)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return tables, nil
}

// ReadMerged reads a TSV produced by WriteMerged. The mode is recovered from
// the header row.
func ReadMerged(r io.Reader) ([]*Merged, error) {
	br := bufio.NewReader(r)
	header, _, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	mode, err := ParseMode(strings.TrimRight(header, "\r\n"))
	if err != nil {
		return nil, errors.E(errors.Invalid, err)
	}
	tr := tsv.NewReader(br)

	var (
		result []*Merged
		cur    *Merged
	)
	for line := 2; ; line++ {
		var row MergedRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, pkgerrors.Wrapf(err, "bintable: line %d", line))
		}
		if cur == nil || cur.chrom != row.Chromosome {
			cur = NewMerged(mode, row.Chromosome, nil)
			result = append(result, cur)
		}
		cur.rows = append(cur.rows, row)
	}
	return result, nil
}

// WriteMerged writes the merged tables as one TSV with the header row of
// mode. Every table must have been produced in that mode.
func WriteMerged(w io.Writer, mode Mode, merged []*Merged) error {
	tw := tsv.NewWriter(w)
	for _, c := range mode.Columns() {
		tw.WriteString(c)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, m := range merged {
		if m.mode != mode {
			return errors.E(errors.Invalid,
				fmt.Sprintf("bintable.WriteMerged: %s table mixed with %s tables", m.mode, mode))
		}
		for _, r := range m.rows {
			tw.WriteString(r.Chromosome)
			tw.WriteInt64(r.Bin)
			tw.WriteInt64(r.First)
			tw.WriteInt64(r.Second)
			if err := tw.EndLine(); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

// FormatRows renders rows as TSV text with a header row, for diagnostics.
func FormatRows(rows []Row) string {
	var buf bytes.Buffer
	tw := tsv.NewWriter(&buf)
	for _, c := range RequiredColumns {
		tw.WriteString(c)
	}
	_ = tw.EndLine()
	for _, r := range rows {
		tw.WriteString(r.Chromosome)
		tw.WriteInt64(r.Bin)
		tw.WriteInt64(r.Count)
		_ = tw.EndLine()
	}
	_ = tw.Flush()
	return buf.String()
}

// FormatMergedRows renders merged rows as TSV text with the mode's header
// row, for diagnostics.
func FormatMergedRows(mode Mode, rows []MergedRow) string {
	var buf bytes.Buffer
	tw := tsv.NewWriter(&buf)
	for _, c := range mode.Columns() {
		tw.WriteString(c)
	}
	_ = tw.EndLine()
	for _, r := range rows {
		tw.WriteString(r.Chromosome)
		tw.WriteInt64(r.Bin)
		tw.WriteInt64(r.First)
		tw.WriteInt64(r.Second)
		_ = tw.EndLine()
	}
	_ = tw.Flush()
	return buf.String()
}
