package cluster

import (
	"github.com/theodesp/unionfind"
	"gonum.org/v1/gonum/floats/scalar"
)

// OverlapDigits is the number of decimal places Jaccard scores are rounded
// to before they are compared.
const OverlapDigits = 3

// Overlap scores how much two clusters share. If either gene set contains
// the other the score is 1; otherwise it is the Jaccard index of the gene
// sets, rounded to OverlapDigits decimal places.
func Overlap(a, b Cluster) float64 {
	small, large := a, b
	if len(small.Genes) > len(large.Genes) {
		small, large = large, small
	}

	largeSet := large.GeneSet()
	shared := 0
	for _, g := range small.Genes {
		if _, exists := largeSet[g]; exists {
			shared++
		}
	}

	if shared == len(small.Genes) {
		return 1
	}

	union := len(small.Genes) + len(large.Genes) - shared

	return scalar.Round(float64(shared)/float64(union), OverlapDigits)
}

// MergeResult is the stable partition produced by Merge.
type MergeResult struct {
	// Clusters are the live clusters at the fixed point. Untouched input
	// clusters keep their relative order and fused clusters follow in the
	// order they were created.
	Clusters []Cluster

	// Sources[i] is how many input clusters were fused into Clusters[i].
	Sources []int

	// Rounds is the number of successful merges.
	Rounds int
}

type slot struct {
	Cluster
	live bool
}

// Merge repeatedly fuses the most-overlapping pair of clusters until no pair
// scores at least cutoff.
//
// Clusters live in an arena addressed by slot index. Each round scans every
// pair of live slots (i < j, in slot order) and keeps the first pair with the
// strictly highest score. If that score reaches cutoff, both slots are
// retired and their union is appended as a new live slot. Every round removes
// exactly one live cluster, so at most len(clusters)-1 rounds run.
func Merge(clusters []Cluster, cutoff float64) MergeResult {
	n := len(clusters)
	if n == 0 {
		return MergeResult{Clusters: []Cluster{}, Sources: []int{}}
	}

	arena := make([]slot, 0, 2*n-1)
	for _, c := range clusters {
		arena = append(arena, slot{Cluster: c, live: true})
	}

	// Every fusion is recorded so each final cluster can be traced back to
	// the input clusters it absorbed.
	uf := unionfind.New(2*n - 1)

	rounds := 0
	live := liveSlots(arena)
	for len(live) > 1 {
		bestI, bestJ, best := bestPair(arena, live)
		if best < cutoff {
			break
		}

		fused := fuse(arena[bestI].Cluster, arena[bestJ].Cluster)
		arena[bestI].live = false
		arena[bestJ].live = false
		arena = append(arena, slot{Cluster: fused, live: true})

		newSlot := len(arena) - 1
		uf.Union(bestI, newSlot)
		uf.Union(bestJ, newSlot)

		rounds++
		live = liveSlots(arena)
	}

	sourcesByRoot := make(map[int]int)
	for i := 0; i < n; i++ {
		sourcesByRoot[uf.Root(i)]++
	}

	out := MergeResult{
		Clusters: make([]Cluster, 0, len(live)),
		Sources:  make([]int, 0, len(live)),
		Rounds:   rounds,
	}
	for _, s := range live {
		out.Clusters = append(out.Clusters, arena[s].Cluster)
		out.Sources = append(out.Sources, sourcesByRoot[uf.Root(s)])
	}

	return out
}

// bestPair returns the first pair of live slots with the strictly highest
// overlap. The first pair always registers, so bestI and bestJ are valid
// whenever live holds at least two slots.
func bestPair(arena []slot, live []int) (bestI, bestJ int, best float64) {
	bestI, bestJ, best = -1, -1, -1

	for a := 0; a < len(live); a++ {
		for b := a + 1; b < len(live); b++ {
			score := Overlap(arena[live[a]].Cluster, arena[live[b]].Cluster)
			if score > best {
				bestI, bestJ, best = live[a], live[b], score
			}

			if best >= 1 {
				// Nothing can beat containment, and ties keep the first pair.
				return
			}
		}
	}

	return
}

// liveSlots compacts the arena into the indices still in play, in slot
// order.
func liveSlots(arena []slot) []int {
	out := make([]int, 0, len(arena))
	for i, s := range arena {
		if s.live {
			out = append(out, i)
		}
	}

	return out
}

func fuse(a, b Cluster) Cluster {
	genes := make([]string, 0, len(a.Genes)+len(b.Genes))
	genes = append(genes, a.Genes...)
	genes = append(genes, b.Genes...)

	cases := make([]string, 0, len(a.Cases)+len(b.Cases))
	cases = append(cases, a.Cases...)
	cases = append(cases, b.Cases...)

	return New(genes, cases)
}
