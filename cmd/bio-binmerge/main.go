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

/*
bio-binmerge merges the per-chromosome bin counts of two samples.

Inputs are TSV files with a header row naming at least the columns
Chromosome, Bin and Count. Paths may be local or s3://, and are decompressed
when they end in .gz.

Sample usage:
bio-binmerge signal -parallelism 8 -out merged.tsv.gz chip.tsv.gz input.tsv.gz
bio-binmerge samples -out merged.tsv rep1.tsv rep2.tsv
bio-binmerge total chip.tsv.gz
bio-binmerge checksum merged.tsv.gz
*/
package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/binmerge/binmerge"
	"github.com/grailbio/binmerge/bintable"
	"v.io/x/lib/cmdline"
)

func newCmdMerge(name, short string, mode bintable.Mode) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     name,
		Short:    short,
		ArgsName: "path1 path2",
	}
	flags := mergeFlags{
		parallelism: cmd.Flags.Int("parallelism", binmerge.DefaultOpts.Parallelism, "Maximum number of chromosomes merged at once; 0 = runtime.NumCPU()"),
		duplicates:  cmd.Flags.String("duplicates", "reject", "What to do when an input lists one chromosome in two separate blocks: 'reject' fails, 'last' keeps the later block"),
		out:         cmd.Flags.String("out", "", "Output path; standard output if empty. A .gz suffix gzips the output"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("%s takes two pathname arguments, but got %v", name, argv)
		}
		return merge(env.Stdout, mode, flags, argv[0], argv[1])
	})
	return cmd
}

func newCmdTotal() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "total",
		Short:    "Print the total read count of count files",
		ArgsName: "path...",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return fmt.Errorf("total takes at least one pathname argument")
		}
		return total(env.Stdout, argv)
	})
	return cmd
}

func newCmdChecksum() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "checksum",
		Short: `Compute a checksum of a merged TSV file.
The checksum is a JSON string summarizing the rows of each chromosome`,
		ArgsName: "path",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("checksum takes a path, but found %v", argv)
		}
		return checksum(env.Stdout, argv[0])
	})
	return cmd
}

func newRootCmd() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-binmerge",
		Short:    "Merge per-chromosome bin counts of two samples",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdMerge("signal", "Left-join signal counts (e.g. ChIP) onto background counts (e.g. Input)", bintable.SignalBackground),
			newCmdMerge("samples", "Outer-join the counts of two samples of the same kind", bintable.SampleSample),
			newCmdTotal(),
			newCmdChecksum(),
		},
	}
}

func main() {
	shutdown := grail.Init()
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
	cmdline.HideGlobalFlagsExcept()
	// cmdline.Main exits the process, which would skip shutdown.
	err := cmdline.ParseAndRun(newRootCmd(), cmdline.EnvFromOS(), os.Args[1:])
	shutdown()
	os.Exit(cmdline.ExitCode(err, os.Stderr))
}
