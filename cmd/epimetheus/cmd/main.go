// Package cmd implements the epimetheus command dispatcher: three
// subcommands (methylation-pattern, motif-cluster, bgzip) wired on top of
// the core packages, following cmd/bio-pamtool/cmd's cmdline.Command tree.
package cmd

import (
	"log"

	"v.io/x/lib/cmdline"
)

// Run parses os.Args and dispatches to the matching subcommand, exiting
// the process with a non-zero status on any fatal error (spec.md §6).
func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "epimetheus",
			Short:    "Extract and cluster DNA methylation patterns from a pileup and an assembly",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdMethylationPattern(),
				newCmdMotifCluster(),
				newCmdBgzip(),
			},
		})
}
