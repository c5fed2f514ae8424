// Package batch implements the two GenomeWorkspace batch-loading
// strategies: a sequential line-streaming loader over a pileupio.LineSource,
// and a parallel per-contig loader over a pool of pileupio.IndexedSource,
// one per worker. Both satisfy the Loader interface so callers (the
// pattern package, cmd/epimetheus) can select a strategy without caring
// which one backs it (spec.md §4.4-§4.5, §5).
package batch

import (
	"github.com/SebastianDall/epimetheus/genome"
	"github.com/grailbio/base/log"
)

// Loader yields successive GenomeWorkspace batches. Next returns
// ok=false, err=nil once every record has been consumed.
type Loader interface {
	Next() (ws *genome.Workspace, ok bool, err error)
	Close() error
}

// normalizeBatchSize applies spec.md §4.4's "batch_size <= 0 coerces to 1"
// rule.
func normalizeBatchSize(n int) int {
	if n <= 0 {
		log.Error.Printf("batch: batch size %d is not positive, defaulting to 1", n)
		return 1
	}
	return n
}
