package batch

import (
	"sort"
	"strings"

	"github.com/SebastianDall/epimetheus/genome"
	"github.com/SebastianDall/epimetheus/methylation"
	"github.com/SebastianDall/epimetheus/pileupio"
	"github.com/pkg/errors"
)

// ParallelLoader loads GenomeWorkspace batches by querying a BGZF+Tabix
// pileupio.IndexedSource per contig in parallel, one IndexedSource per
// worker goroutine (extract_methylation_pattern/parallel_batch_loader.rs).
// Each worker owns its IndexedSource for the lifetime of the run, so no
// locking is required around it: the Pool hands each goroutine a stable
// workerIndex and contigs are queued behind a channel, not shared live.
type ParallelLoader struct {
	sources       []pileupio.IndexedSource
	assembly      map[string]*genome.Contig
	batchSize     int
	filter        methylation.Filter
	allowMismatch bool

	allContigs []string
	processed  map[string]bool
	started    bool
}

// NewParallelLoader builds a ParallelLoader. sources must have one entry
// per worker; all must be opened against the same underlying pileup file.
func NewParallelLoader(
	sources []pileupio.IndexedSource,
	assembly map[string]*genome.Contig,
	batchSize int,
	filter methylation.Filter,
	allowMismatch bool,
) *ParallelLoader {
	return &ParallelLoader{
		sources:       sources,
		assembly:      assembly,
		batchSize:     normalizeBatchSize(batchSize),
		filter:        filter,
		allowMismatch: allowMismatch,
		processed:     make(map[string]bool),
	}
}

// Next implements Loader.
func (l *ParallelLoader) Next() (*genome.Workspace, bool, error) {
	if !l.started {
		indexed, err := l.sources[0].AvailableContigs()
		if err != nil {
			return nil, false, errors.Wrap(err, "batch: listing indexed contigs")
		}
		indexedSet := make(map[string]bool, len(indexed))
		for _, id := range indexed {
			indexedSet[id] = true
		}

		assemblyIDs := make([]string, 0, len(l.assembly))
		for id := range l.assembly {
			assemblyIDs = append(assemblyIDs, id)
		}
		sort.Strings(assemblyIDs)

		var missing []string
		var kept []string
		for _, id := range assemblyIDs {
			if indexedSet[id] {
				kept = append(kept, id)
			} else {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 && !l.allowMismatch {
			return nil, false, errors.Errorf("batch: assembly contigs not found in index: %s", strings.Join(missing, ", "))
		}

		l.allContigs = kept
		l.started = true
	}

	batch := make([]string, 0, l.batchSize)
	for _, contigID := range l.allContigs {
		if l.processed[contigID] {
			continue
		}
		batch = append(batch, contigID)
		if len(batch) == l.batchSize {
			break
		}
	}
	if len(batch) == 0 {
		return nil, false, nil
	}

	results := make([]*genome.Contig, len(batch))
	pool := NewPool(len(l.sources))
	err := pool.Run(len(batch), func(workerIndex, itemIndex int) error {
		contigID := batch[itemIndex]
		assemblyContig := l.assembly[contigID]
		source := l.sources[workerIndex%len(l.sources)]

		contig, err := l.loadContig(source, assemblyContig)
		if err != nil {
			return errors.Wrapf(err, "batch: loading contig %q", contigID)
		}
		results[itemIndex] = contig
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	builder := genome.NewBuilder()
	for _, c := range results {
		if err := builder.AddContig(c); err != nil {
			return nil, false, err
		}
		l.processed[c.ID] = true
	}

	ws := builder.Build()
	if ws.IsEmpty() {
		return nil, false, nil
	}
	return ws, true, nil
}

func (l *ParallelLoader) loadContig(source pileupio.IndexedSource, assemblyContig *genome.Contig) (*genome.Contig, error) {
	iter, err := source.Query(assemblyContig.ID)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	contig := assemblyContig.Clone()
	for {
		line, ok, err := iter.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		rec, err := methylation.ParsePileupLine(line)
		if err != nil {
			return nil, err
		}
		filtered, keep, err := l.filter.Apply(assemblyContig.ID, rec)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}
		if err := contig.AddMethylationRecord(filtered); err != nil {
			return nil, err
		}
	}
	return contig, nil
}

// Close implements Loader. It closes every worker's IndexedSource and
// returns the first error encountered, if any.
func (l *ParallelLoader) Close() error {
	var first error
	for _, s := range l.sources {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var _ Loader = (*ParallelLoader)(nil)
