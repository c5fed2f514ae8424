package cmd

import (
	"os"
	"runtime"
	"strings"

	"github.com/SebastianDall/epimetheus/batch"
	"github.com/SebastianDall/epimetheus/fasta"
	"github.com/SebastianDall/epimetheus/genome"
	"github.com/SebastianDall/epimetheus/methylation"
	"github.com/SebastianDall/epimetheus/motif"
	"github.com/SebastianDall/epimetheus/pattern"
	"github.com/SebastianDall/epimetheus/pileupio"
	"github.com/SebastianDall/epimetheus/pileupio/bgzfreader"
	"github.com/SebastianDall/epimetheus/pileupio/plainreader"
	"github.com/SebastianDall/epimetheus/tsvout"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
	"v.io/x/lib/cmdline"
)

type patternFlags struct {
	pileupPath                string
	assemblyPath              string
	outPath                   string
	motifs                    string
	contigs                   string
	minValidReadCoverage      uint
	minValidCovToDiffFraction float64
	batchSize                 int
	threads                   int
	allowMismatch             bool
	outputType                string
}

func newCmdMethylationPattern() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "methylation-pattern",
		Short: "Compute per-motif methylation patterns from a pileup and an assembly",
	}
	flags := patternFlags{}
	cmd.Flags.StringVar(&flags.pileupPath, "pileup", "", "Input pileup path (*.bed or *.bed.gz with a companion .tbi)")
	cmd.Flags.StringVar(&flags.assemblyPath, "assembly", "", "Input assembly FASTA path")
	cmd.Flags.StringVar(&flags.outPath, "output", "", "Output TSV path")
	cmd.Flags.StringVar(&flags.motifs, "motifs", "", "Comma-separated motif list, each SEQ_TYPE_POS")
	cmd.Flags.StringVar(&flags.contigs, "contigs", "", "Comma-separated contig id allow-list; default all contigs in the assembly")
	cmd.Flags.UintVar(&flags.minValidReadCoverage, "min-valid-read-coverage", 1, "Minimum n_valid_cov to keep a pileup record")
	cmd.Flags.Float64Var(&flags.minValidCovToDiffFraction, "min-valid-cov-to-diff-fraction", 0.0, "Minimum n_valid_cov/(n_valid_cov+n_diff) to keep a pileup record")
	cmd.Flags.IntVar(&flags.batchSize, "batch-size", 1, "Number of contigs loaded per batch")
	cmd.Flags.IntVar(&flags.threads, "threads", 0, "Worker count for contig-parallel loading/processing; 0 = runtime.NumCPU()")
	cmd.Flags.BoolVar(&flags.allowMismatch, "allow-mismatch", false, "Skip pileup contigs absent from the assembly instead of failing")
	cmd.Flags.StringVar(&flags.outputType, "output-type", "median", "One of 'raw', 'median', 'weighted-mean'")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		return runMethylationPattern(flags)
	})
	return cmd
}

func runMethylationPattern(flags patternFlags) error {
	if flags.pileupPath == "" || flags.assemblyPath == "" || flags.outPath == "" {
		return errors.New("methylation-pattern: -pileup, -assembly, and -output are required")
	}

	mode, err := parseOutputType(flags.outputType)
	if err != nil {
		return err
	}

	motifs, err := motif.ParseList(splitNonEmpty(flags.motifs))
	if err != nil {
		return errors.Wrap(err, "methylation-pattern: parsing -motifs")
	}
	if len(motifs) == 0 {
		return errors.New("methylation-pattern: -motifs must name at least one motif")
	}

	contigFilter := splitNonEmpty(flags.contigs)
	assembly, err := fasta.LoadFile(flags.assemblyPath, contigFilter)
	if err != nil {
		return errors.Wrap(err, "methylation-pattern: loading assembly")
	}

	filter := methylation.Filter{
		MinValidReadCoverage:      uint32(flags.minValidReadCoverage),
		MinValidCovToDiffFraction: flags.minValidCovToDiffFraction,
	}

	threads := flags.threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	loader, err := openLoader(flags.pileupPath, assembly, flags.batchSize, threads, filter, flags.allowMismatch)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := loader.Close(); cerr != nil {
			log.Error.Printf("methylation-pattern: closing pileup source: %v", cerr)
		}
	}()

	calc := pattern.NewCalculator(motifs, mode)

	var allDegrees []pattern.MotifMethylationDegree
	var allPositions []pattern.MotifMethylationPositions
	for {
		ws, ok, err := loader.Next()
		if err != nil {
			return errors.Wrap(err, "methylation-pattern: loading pileup batch")
		}
		if !ok {
			break
		}
		degrees, positions, err := pattern.ProcessWorkspace(ws, calc, threads)
		if err != nil {
			return errors.Wrap(err, "methylation-pattern: computing methylation pattern")
		}
		allDegrees = append(allDegrees, degrees...)
		allPositions = append(allPositions, positions...)
	}

	out, err := os.Create(flags.outPath)
	if err != nil {
		return errors.Wrapf(err, "methylation-pattern: creating %s", flags.outPath)
	}
	defer out.Close()

	if mode == pattern.Raw {
		pattern.SortPositions(allPositions)
		return tsvout.WriteRaw(out, allPositions)
	}
	pattern.SortDegrees(allDegrees)
	return tsvout.WriteSummary(out, allDegrees)
}

func parseOutputType(s string) (pattern.Mode, error) {
	switch s {
	case "raw":
		return pattern.Raw, nil
	case "median":
		return pattern.Median, nil
	case "weighted-mean":
		return pattern.WeightedMean, nil
	default:
		return 0, errors.Errorf("methylation-pattern: unknown -output-type %q (want raw, median, or weighted-mean)", s)
	}
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// openLoader picks a SequentialLoader over a plain pileup file, or a
// ParallelLoader with one bgzfreader.Source per worker over a BGZF+Tabix
// pileup, based on the file extension (spec.md §6 "Input: pileup").
func openLoader(
	path string,
	assembly map[string]*genome.Contig,
	batchSize, threads int,
	filter methylation.Filter,
	allowMismatch bool,
) (batch.Loader, error) {
	if strings.HasSuffix(path, ".gz") {
		sources := make([]pileupio.IndexedSource, threads)
		for i := 0; i < threads; i++ {
			src, err := bgzfreader.Open(path)
			if err != nil {
				for j := 0; j < i; j++ {
					sources[j].Close()
				}
				return nil, errors.Wrapf(err, "methylation-pattern: opening %s", path)
			}
			sources[i] = src
		}
		return batch.NewParallelLoader(sources, assembly, batchSize, filter, allowMismatch), nil
	}

	src, err := plainreader.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "methylation-pattern: opening %s", path)
	}
	return batch.NewSequentialLoader(src, assembly, batchSize, filter, allowMismatch), nil
}
