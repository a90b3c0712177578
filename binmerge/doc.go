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

/*Package binmerge pairs up and merges the per-chromosome bin-count tables
  of two samples.

  Two modes are supported. MergeSignalBackground left-joins a signal sample
  (e.g. ChIP) onto a background sample (e.g. Input); the output of each
  chromosome has exactly the bins of the signal. MergeSamples outer-joins two
  samples of the same kind; the output has the union of their bins. In both
  modes counts missing on one side become 0.

  Tables are always paired by chromosome name. Index builds a ChromMap for
  each input and Reconcile inserts empty placeholder tables so both maps have
  the same chromosomes; the per-chromosome merges then run in parallel and
  their results are returned in chromosome key order.
*/
package binmerge
