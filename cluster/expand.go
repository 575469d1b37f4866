package cluster

import (
	"github.com/carbocation/nhc/cohort"
	"github.com/carbocation/nhc/network"
)

// RawCluster is the outcome of a single expansion, before deduplication.
// Genes and Cases are in the order they were absorbed; Cases holds indices
// into the cohort.
type RawCluster struct {
	Genes []string
	Cases []int
}

// Expander grows clusters from (case, seed gene) starting points. It only
// reads the cohort and the index, so one Expander may be shared by
// concurrent goroutines.
type Expander struct {
	cohort *cohort.Cohort
	index  *network.Index
}

func NewExpander(c *cohort.Cohort, idx *network.Index) *Expander {
	return &Expander{cohort: c, index: idx}
}

// Expand grows a cluster from seedGene within the case at index seedCase.
//
// Each step scans the remaining cases in ascending index order. The first
// case sharing any gene with the cluster is absorbed without adding a gene.
// Failing that, the (case, gene) pair with the strictly highest network
// weight to any cluster gene is absorbed along with that gene; ties go to the
// lowest case index and then the lowest gene identifier. Expansion stops
// when the pool is empty or nothing is reachable. The result is accepted
// only if it holds at least MinGenes genes.
func (e *Expander) Expand(seedCase int, seedGene string) (RawCluster, bool) {
	cases := e.cohort.Cases
	n := len(cases)
	if seedCase < 0 || seedCase >= n || !cases[seedCase].Has(seedGene) {
		return RawCluster{}, false
	}

	inPool := make([]bool, n)
	for i := range inPool {
		inPool[i] = i != seedCase
	}
	poolSize := n - 1

	out := RawCluster{Cases: []int{seedCase}}
	geneSet := make(map[string]struct{})

	// frontier holds, for every gene outside the cluster that touches it in
	// the network, its best edge weight into the cluster.
	frontier := make(map[string]float64)

	absorbGene := func(gene string) {
		geneSet[gene] = struct{}{}
		out.Genes = append(out.Genes, gene)
		delete(frontier, gene)

		for _, nb := range e.index.Neighbors(gene) {
			if _, in := geneSet[nb.Gene]; in {
				continue
			}
			if nb.Weight > frontier[nb.Gene] {
				frontier[nb.Gene] = nb.Weight
			}
		}
	}
	absorbGene(seedGene)

	for poolSize > 0 {
		overlapping := -1
		for i := 0; i < n; i++ {
			if inPool[i] && sharesGene(cases[i], geneSet) {
				overlapping = i
				break
			}
		}

		if overlapping >= 0 {
			inPool[overlapping] = false
			poolSize--
			out.Cases = append(out.Cases, overlapping)
			continue
		}

		closest, closestGene, highest := -1, "", 0.0
		if len(frontier) > 0 {
			for i := 0; i < n; i++ {
				if !inPool[i] {
					continue
				}
				for _, gene := range cases[i].Genes {
					if w := frontier[gene]; w > highest {
						closest, closestGene, highest = i, gene, w
					}
				}
			}
		}

		if closest < 0 {
			// Whatever is left in the pool is unreachable from this cluster.
			break
		}

		inPool[closest] = false
		poolSize--
		out.Cases = append(out.Cases, closest)
		absorbGene(closestGene)
	}

	return out, len(out.Genes) >= MinGenes
}

// ExpandCase runs Expand for every gene of the case at index caseIndex, in
// the case's (ascending) gene order, and returns the accepted clusters.
func (e *Expander) ExpandCase(caseIndex int) []RawCluster {
	out := make([]RawCluster, 0)
	for _, gene := range e.cohort.Cases[caseIndex].Genes {
		if raw, ok := e.Expand(caseIndex, gene); ok {
			out = append(out, raw)
		}
	}

	return out
}

func sharesGene(c cohort.Case, geneSet map[string]struct{}) bool {
	if len(geneSet) < len(c.Genes) {
		for gene := range geneSet {
			if c.Has(gene) {
				return true
			}
		}
		return false
	}

	for _, gene := range c.Genes {
		if _, exists := geneSet[gene]; exists {
			return true
		}
	}

	return false
}
