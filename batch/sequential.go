package batch

import (
	"github.com/SebastianDall/epimetheus/genome"
	"github.com/SebastianDall/epimetheus/methylation"
	"github.com/SebastianDall/epimetheus/pileupio"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// SequentialLoader streams a pileupio.LineSource contig-grouped pileup file
// and groups it into GenomeWorkspace batches of up to batchSize contigs,
// matching one line of lookahead across batch boundaries (the "pending
// record" carried between next() calls in
// extract_methylation_pattern/batch_loader.rs).
type SequentialLoader struct {
	source        pileupio.LineSource
	assembly      map[string]*genome.Contig
	batchSize     int
	filter        methylation.Filter
	allowMismatch bool

	haveCurrentContig bool
	currentContigID   string
	currentContig     *genome.Contig
	pendingLine       *string
	contigsInBatch    int
}

// NewSequentialLoader builds a SequentialLoader. assembly supplies the
// reference sequence each contig id is cloned from; it is not mutated.
func NewSequentialLoader(
	source pileupio.LineSource,
	assembly map[string]*genome.Contig,
	batchSize int,
	filter methylation.Filter,
	allowMismatch bool,
) *SequentialLoader {
	return &SequentialLoader{
		source:        source,
		assembly:      assembly,
		batchSize:     normalizeBatchSize(batchSize),
		filter:        filter,
		allowMismatch: allowMismatch,
	}
}

// Next implements Loader.
func (l *SequentialLoader) Next() (*genome.Workspace, bool, error) {
	builder := genome.NewBuilder()

	for {
		var line string
		var ok bool
		var err error
		if l.pendingLine != nil {
			line, ok = *l.pendingLine, true
			l.pendingLine = nil
		} else {
			line, ok, err = l.source.Next()
			if err != nil {
				return nil, false, errors.Wrap(err, "batch: reading pileup line")
			}
		}
		if !ok {
			break
		}

		rec, err := methylation.ParsePileupLine(line)
		if err != nil {
			return nil, false, err
		}

		if !l.haveCurrentContig || rec.Contig != l.currentContigID {
			log.Debug.Printf("batch: contig in line: %s, current contig: %s", rec.Contig, l.currentContigID)

			found, present := l.assembly[rec.Contig]
			switch {
			case present:
				if l.haveCurrentContig {
					if err := builder.AddContig(l.currentContig); err != nil {
						return nil, false, err
					}
					l.contigsInBatch++
					l.haveCurrentContig = false
					l.currentContig = nil

					if l.contigsInBatch == l.batchSize {
						pending := line
						l.pendingLine = &pending
						l.contigsInBatch = 0
						return builder.Build(), true, nil
					}
				}
				l.currentContigID = rec.Contig
				l.currentContig = found.Clone()
				l.haveCurrentContig = true

			case !l.allowMismatch:
				return nil, false, errors.Errorf("batch: contig %q not found in assembly", rec.Contig)

			default:
				continue
			}
		}

		filtered, keep, err := l.filter.Apply(rec.Contig, rec)
		if err != nil {
			return nil, false, err
		}
		if !keep {
			continue
		}
		if err := l.currentContig.AddMethylationRecord(filtered); err != nil {
			return nil, false, err
		}
	}

	if l.haveCurrentContig {
		if err := builder.AddContig(l.currentContig); err != nil {
			return nil, false, err
		}
		l.haveCurrentContig = false
		l.currentContig = nil
	}

	ws := builder.Build()
	if ws.IsEmpty() {
		return nil, false, nil
	}
	return ws, true, nil
}

// Close implements Loader.
func (l *SequentialLoader) Close() error {
	return l.source.Close()
}

var _ Loader = (*SequentialLoader)(nil)
