package genome

import "github.com/pkg/errors"

// Workspace is an ordered, immutable batch of Contigs processed together.
type Workspace struct {
	order []string
	byID  map[string]*Contig
}

// Builder accumulates Contigs for one Workspace.
type Builder struct {
	order []string
	byID  map[string]*Contig
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byID: make(map[string]*Contig)}
}

// AddContig inserts c into the builder, rejecting duplicate contig ids.
func (b *Builder) AddContig(c *Contig) error {
	if _, exists := b.byID[c.ID]; exists {
		return errors.Errorf("genome: duplicate contig %q in workspace", c.ID)
	}
	b.byID[c.ID] = c
	b.order = append(b.order, c.ID)
	return nil
}

// Build finalizes the Workspace. The Builder must not be reused afterward.
func (b *Builder) Build() *Workspace {
	return &Workspace{order: b.order, byID: b.byID}
}

// Len returns the number of contigs in the workspace.
func (w *Workspace) Len() int { return len(w.order) }

// IsEmpty reports whether the workspace has no contigs.
func (w *Workspace) IsEmpty() bool { return len(w.order) == 0 }

// Get looks up a contig by id.
func (w *Workspace) Get(id string) (*Contig, bool) {
	c, ok := w.byID[id]
	return c, ok
}

// Contigs returns the workspace's contigs in insertion order. The returned
// slice must not be mutated.
func (w *Workspace) Contigs() []*Contig {
	out := make([]*Contig, len(w.order))
	for i, id := range w.order {
		out[i] = w.byID[id]
	}
	return out
}
