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
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
)

// openPath opens path for reading, decompressing it when its name marks it
// as gzipped. The returned function closes everything that was opened.
func openPath(ctx context.Context, path string) (io.Reader, func() error, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, path)
	}
	reader := io.Reader(in.Reader(ctx))
	closer := func() error { return in.Close(ctx) }
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		gz, err := gzip.NewReader(reader)
		if err != nil {
			_ = in.Close(ctx)
			return nil, nil, errors.E(err, path)
		}
		reader = gz
		closer = func() error {
			err := gz.Close()
			if cerr := in.Close(ctx); cerr != nil && err == nil {
				err = cerr
			}
			return err
		}
	}
	return reader, closer, nil
}

// ReadTablesFromPath is a wrapper for ReadTables that takes a path instead
// of an io.Reader. Paths may name any file.Implementation (e.g. s3://) and
// are gunzipped when they end in .gz.
func ReadTablesFromPath(ctx context.Context, path string) (tables []*Table, err error) {
	reader, closer, err := openPath(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := closer(); cerr != nil && err == nil {
			err = errors.E(cerr, path)
		}
	}()
	if tables, err = ReadTables(reader); err != nil {
		err = errors.E(err, path)
	}
	return
}

// ReadMergedFromPath is a wrapper for ReadMerged that takes a path.
func ReadMergedFromPath(ctx context.Context, path string) (merged []*Merged, err error) {
	reader, closer, err := openPath(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := closer(); cerr != nil && err == nil {
			err = errors.E(cerr, path)
		}
	}()
	if merged, err = ReadMerged(reader); err != nil {
		err = errors.E(err, path)
	}
	return
}

// WriteMergedToPath is a wrapper for WriteMerged that writes to path,
// gzip-compressed when the path ends in .gz.
func WriteMergedToPath(ctx context.Context, path string, mode Mode, merged []*Merged) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, path)
	}
	defer func() {
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = errors.E(cerr, path)
		}
	}()
	w := out.Writer(ctx)
	if fileio.DetermineType(path) != fileio.Gzip {
		return WriteMerged(w, mode, merged)
	}
	gz := gzip.NewWriter(w)
	if err = WriteMerged(gz, mode, merged); err != nil {
		_ = gz.Close()
		return err
	}
	return gz.Close()
}
