// Package cluster discovers gene clusters shared across cases and merges
// overlapping ones into a stable partition.
package cluster

import (
	"sort"
	"strings"
)

// MinGenes is the smallest gene count a cluster may have.
const MinGenes = 3

// KeySeparator joins sorted gene identifiers into a dedup key.
const KeySeparator = ","

// Cluster is a set of genes together with the cases that support it. Genes
// and Cases are sorted ascending. A Cluster is never modified after it is
// created; merging produces a new one.
type Cluster struct {
	Genes []string
	Cases []string

	geneSet map[string]struct{}
}

// New builds a Cluster from unordered gene and case collections.
func New(genes, cases []string) Cluster {
	c := Cluster{
		Genes: sortedUnique(genes),
		Cases: sortedUnique(cases),
	}
	c.geneSet = toSet(c.Genes)

	return c
}

// Key is the canonical dedup key of the gene set.
func (c Cluster) Key() string {
	return Key(c.Genes)
}

// HasGene reports whether gene belongs to the cluster.
func (c Cluster) HasGene(gene string) bool {
	if c.geneSet == nil {
		for _, g := range c.Genes {
			if g == gene {
				return true
			}
		}
		return false
	}

	_, exists := c.geneSet[gene]
	return exists
}

// GeneSet returns the genes as a set. The returned map must not be modified.
func (c Cluster) GeneSet() map[string]struct{} {
	if c.geneSet == nil {
		return toSet(c.Genes)
	}

	return c.geneSet
}

// Key canonicalizes genes (in any order) into a dedup key.
func Key(genes []string) string {
	sorted := genes
	if !sort.StringsAreSorted(genes) {
		sorted = append([]string(nil), genes...)
		sort.Strings(sorted)
	}

	return strings.Join(sorted, KeySeparator)
}

func sortedUnique(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)

	j := 0
	for i, v := range out {
		if i > 0 && v == out[j-1] {
			continue
		}
		out[j] = v
		j++
	}

	return out[:j]
}

func toSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, v := range in {
		out[v] = struct{}{}
	}

	return out
}
