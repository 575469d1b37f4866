package cluster

import "sync"

// Deduplicator admits each distinct gene set once. Its state belongs to one
// analysis run. It is safe for concurrent use, but admission order decides
// which of several equal gene sets keeps its case list, so callers wanting
// reproducible output admit sequentially.
type Deduplicator struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Admit returns a new Cluster for genes and cases unless the gene set is too
// small or its key has already been admitted.
func (d *Deduplicator) Admit(genes, cases []string) (Cluster, bool) {
	c := New(genes, cases)
	if len(c.Genes) < MinGenes || len(c.Cases) == 0 {
		return Cluster{}, false
	}

	key := c.Key()

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return Cluster{}, false
	}
	d.seen[key] = struct{}{}

	return c, true
}

// Len is the number of admitted gene sets.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.seen)
}
