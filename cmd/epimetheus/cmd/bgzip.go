package cmd

import (
	"fmt"
	"os"

	"github.com/SebastianDall/epimetheus/bgzip"
	"github.com/grailbio/base/cmdutil"
	"github.com/pkg/errors"
	"v.io/x/lib/cmdline"
)

func newCmdBgzip() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bgzip",
		Short:    "Compress, decompress, or list contigs in a BGZF+Tabix pileup",
		Children: []*cmdline.Command{newCmdBgzipCompress(), newCmdBgzipDecompress(), newCmdBgzipLs()},
	}
}

func newCmdBgzipCompress() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "compress",
		Short:    "Compress a contig-grouped pileup BED into BGZF and build its Tabix index",
		ArgsName: "inpath outpath",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return errors.Errorf("bgzip compress takes inpath outpath, but found %v", argv)
		}
		return bgzip.Compress(argv[0], argv[1])
	})
	return cmd
}

func newCmdBgzipDecompress() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "decompress",
		Short:    "Decompress a BGZF pileup back to plain text",
		ArgsName: "inpath outpath",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return errors.Errorf("bgzip decompress takes inpath outpath, but found %v", argv)
		}
		return bgzip.Decompress(argv[0], argv[1])
	})
	return cmd
}

func newCmdBgzipLs() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "ls",
		Short:    "List contigs present in a BGZF+Tabix pileup",
		ArgsName: "path",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return errors.Errorf("bgzip ls takes a single path, but found %v", argv)
		}
		contigs, err := bgzip.List(argv[0])
		if err != nil {
			return err
		}
		for _, c := range contigs {
			fmt.Fprintln(os.Stdout, c)
		}
		return nil
	})
	return cmd
}
