package cmd

import (
	"os"
	"strings"

	"github.com/SebastianDall/epimetheus/cluster"
	"github.com/SebastianDall/epimetheus/motif"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
	"v.io/x/lib/cmdline"
)

func newCmdMotifCluster() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "motif-cluster",
		Short: "Collapse redundant and near-duplicate motifs into representatives",
	}
	motifsFlag := cmd.Flags.String("motifs", "", "Comma-separated motif list, each SEQ_TYPE_POS")
	outFlag := cmd.Flags.String("output", "", "Output TSV path")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		return runMotifCluster(*motifsFlag, *outFlag)
	})
	return cmd
}

func runMotifCluster(motifList, outPath string) error {
	if motifList == "" || outPath == "" {
		return errors.New("motif-cluster: -motifs and -output are required")
	}

	motifs, err := motif.ParseList(splitNonEmpty(motifList))
	if err != nil {
		return errors.Wrap(err, "motif-cluster: parsing -motifs")
	}

	reps, err := cluster.Cluster(motifs)
	if err != nil {
		return errors.Wrap(err, "motif-cluster: clustering")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "motif-cluster: creating %s", outPath)
	}
	defer out.Close()

	w := tsv.NewWriter(out)
	w.WriteString("representative")
	w.WriteString("members")
	if err := w.EndLine(); err != nil {
		return errors.Wrap(err, "motif-cluster: writing header")
	}
	for _, r := range reps {
		members := make([]string, len(r.Members))
		for i, m := range r.Members {
			members[i] = m.String()
		}
		w.WriteString(r.Motif.String())
		w.WriteString(strings.Join(members, ","))
		if err := w.EndLine(); err != nil {
			return errors.Wrap(err, "motif-cluster: writing row")
		}
	}
	return w.Flush()
}
