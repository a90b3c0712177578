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

/*Package bintable defines per-chromosome tables of binned read counts, the
  tables produced by merging two of them, and their TSV representation.

  A count file has a header row naming at least the columns Chromosome, Bin
  and Count; the rows of one file are split into one Table per chromosome.
  Tables are immutable once constructed.
*/
package bintable
