// Package network holds the filtered gene-gene interaction graph used to
// bridge cases that share no genes.
package network

import (
	"sort"
)

// Pair is an unordered gene pair, stored with the lexically smaller gene
// first.
type Pair struct {
	A, B string
}

// NewPair canonicalizes a and b into a Pair.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}

	return Pair{A: a, B: b}
}

// Edge is one raw weighted interaction, before any filtering.
type Edge struct {
	GeneA  string
	GeneB  string
	Weight float64
}

// Neighbor is the far end of an edge seen from one gene.
type Neighbor struct {
	Gene   string
	Weight float64
}

// Filter decides which raw edges make it into an Index.
type Filter struct {
	// Cutoff is the minimum edge weight kept (inclusive).
	Cutoff float64

	// Universe, if non-nil, restricts edges to those whose endpoints are
	// both members.
	Universe map[string]struct{}

	// Hubs are excluded as endpoints. A nil or empty set disables hub
	// filtering.
	Hubs map[string]struct{}
}

// Keep reports whether e passes the filter.
func (f Filter) Keep(e Edge) bool {
	if e.GeneA == e.GeneB || e.Weight <= 0 || e.Weight < f.Cutoff {
		return false
	}

	if f.Universe != nil {
		if _, exists := f.Universe[e.GeneA]; !exists {
			return false
		}
		if _, exists := f.Universe[e.GeneB]; !exists {
			return false
		}
	}

	if _, hub := f.Hubs[e.GeneA]; hub {
		return false
	}
	if _, hub := f.Hubs[e.GeneB]; hub {
		return false
	}

	return true
}

// Index is an immutable view of the filtered network with O(1) weight
// lookups. Build one with a Builder or with Build.
type Index struct {
	weights   map[Pair]float64
	neighbors map[string][]Neighbor
}

// Builder accumulates edges that pass its Filter.
type Builder struct {
	filter  Filter
	weights map[Pair]float64
	seen    int
}

func NewBuilder(filter Filter) *Builder {
	return &Builder{
		filter:  filter,
		weights: make(map[Pair]float64),
	}
}

// Add offers an edge to the builder and reports whether it was kept. When a
// pair is listed more than once, the largest weight wins.
func (b *Builder) Add(e Edge) bool {
	b.seen++

	if !b.filter.Keep(e) {
		return false
	}

	p := NewPair(e.GeneA, e.GeneB)
	if e.Weight > b.weights[p] {
		b.weights[p] = e.Weight
	}

	return true
}

// Seen is the number of raw edges offered so far.
func (b *Builder) Seen() int {
	return b.seen
}

// Index freezes the builder. The builder must not be used afterwards.
func (b *Builder) Index() *Index {
	neighbors := make(map[string][]Neighbor)
	for p, w := range b.weights {
		neighbors[p.A] = append(neighbors[p.A], Neighbor{Gene: p.B, Weight: w})
		neighbors[p.B] = append(neighbors[p.B], Neighbor{Gene: p.A, Weight: w})
	}

	for gene := range neighbors {
		list := neighbors[gene]
		sort.Slice(list, func(i, j int) bool { return list[i].Gene < list[j].Gene })
	}

	idx := &Index{weights: b.weights, neighbors: neighbors}
	b.weights = nil

	return idx
}

// Build filters edges into a new Index.
func Build(edges []Edge, filter Filter) *Index {
	b := NewBuilder(filter)
	for _, e := range edges {
		b.Add(e)
	}

	return b.Index()
}

// Weight returns the weight of the unordered pair (a, b), or 0 if the pair is
// not in the index.
func (idx *Index) Weight(a, b string) float64 {
	if idx == nil {
		return 0
	}

	return idx.weights[NewPair(a, b)]
}

// Neighbors lists the genes adjacent to gene, ordered by gene identifier.
// The returned slice must not be modified.
func (idx *Index) Neighbors(gene string) []Neighbor {
	if idx == nil {
		return nil
	}

	return idx.neighbors[gene]
}

// Len is the number of distinct pairs in the index.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}

	return len(idx.weights)
}

// Genes is the number of genes with at least one edge.
func (idx *Index) Genes() int {
	if idx == nil {
		return 0
	}

	return len(idx.neighbors)
}
