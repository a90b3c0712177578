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
	"strings"

	"github.com/grailbio/base/errors"
)

// previewRows is the number of head and tail rows carried by a
// RowCountError.
const previewRows = 5

// RowCountError reports a signal/background merge whose result does not
// have exactly one row per signal bin. The usual cause is a bin that appears
// more than once in the background table.
type RowCountError struct {
	Chromosome     string
	SignalRows     int
	BackgroundRows int
	MergedRows     int

	// TSV renderings of the first and last previewRows rows of each table.
	SignalHead, SignalTail         string
	BackgroundHead, BackgroundTail string
	MergedHead, MergedTail         string
}

func (e *RowCountError) Error() string {
	return strings.Join([]string{
		fmt.Sprintf("wrong number of rows after merging signal and background on %s.", e.Chromosome),
		fmt.Sprintf("Signal bins: %d", e.SignalRows),
		fmt.Sprintf("Background bins: %d", e.BackgroundRows),
		"Head of signal:", e.SignalHead,
		"Head of background:", e.BackgroundHead,
		"Tail of signal:", e.SignalTail,
		"Tail of background:", e.BackgroundTail,
		fmt.Sprintf("Bins in merged table: %d", e.MergedRows),
		"Head of merged:", e.MergedHead,
		"Tail of merged:", e.MergedTail,
	}, "\n")
}

// ChromosomeSetError reports two chromosome maps whose key sets still differ
// after reconciliation.
type ChromosomeSetError struct {
	// OnlyFirst and OnlySecond list the chromosomes present in just one map.
	OnlyFirst, OnlySecond []string
}

func (e *ChromosomeSetError) Error() string {
	return fmt.Sprintf("chromosome sets differ after reconciliation: only in first %v, only in second %v",
		e.OnlyFirst, e.OnlySecond)
}

// AsRowCountError returns the RowCountError carried by err, if any.
func AsRowCountError(err error) (*RowCountError, bool) {
	for err != nil {
		switch e := err.(type) {
		case *RowCountError:
			return e, true
		case *errors.Error:
			err = e.Err
		default:
			return nil, false
		}
	}
	return nil, false
}
