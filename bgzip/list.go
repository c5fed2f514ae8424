package bgzip

import (
	"github.com/SebastianDall/epimetheus/pileupio/bgzfreader"
	"github.com/pkg/errors"
)

// List returns every contig id present in path's companion Tabix index,
// mirroring PileupReader.list_available_contigs in the Rust source.
func List(path string) ([]string, error) {
	src, err := bgzfreader.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "bgzip: opening %s", path)
	}
	defer src.Close()
	return src.AvailableContigs()
}
