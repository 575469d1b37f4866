package enrichment

import (
	"context"
	"fmt"
	"testing"

	"github.com/carbocation/nhc/annotation"
	"github.com/carbocation/nhc/cluster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// disjointTable builds nTerms terms of size genes each, with no gene shared
// between terms. Term i is named T<i> and holds genes T<i>_G<j>.
func disjointTable(name annotation.Universe, nTerms, size int) *annotation.Table {
	terms := make([]annotation.Term, 0, nTerms)
	for i := 0; i < nTerms; i++ {
		terms = append(terms, annotation.NewTerm(fmt.Sprintf("T%d", i), termGenes(i, size)))
	}
	return annotation.New(name, terms)
}

func termGenes(term, size int) []string {
	out := make([]string, 0, size)
	for j := 0; j < size; j++ {
		out = append(out, fmt.Sprintf("T%d_G%d", term, j))
	}
	return out
}

func TestFisherTwoSided(t *testing.T) {
	// Textbook tea-tasting table.
	assert.InDelta(t, 0.4857142857, FisherTwoSided(3, 1, 1, 3), 1e-6)

	// Memoized calls agree with direct ones.
	assert.Equal(t, twoSided(5, 0, 5, 100), FisherTwoSided(5, 0, 5, 100))
}

func TestScoreClusterEqualToTerm(t *testing.T) {
	table := disjointTable(annotation.Pathway, 50, 20)
	genes := termGenes(7, 20)

	hits, err := Score(genes, table)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "T7", hits[0].Term)
	assert.Less(t, hits[0].P, 1e-20)
	assert.Greater(t, hits[0].P, 0.0)
}

func TestScoreWeakOverlapIsNotAHit(t *testing.T) {
	table := disjointTable(annotation.Pathway, 50, 20)
	genes := []string{"T1_G0", "OTHER1", "OTHER2", "OTHER3"}

	hits, err := Score(genes, table)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestScoreOrdersHits(t *testing.T) {
	table := disjointTable(annotation.GOBP, 50, 20)

	// All of T3, all of T1, and most of T9.
	genes := append(termGenes(3, 20), termGenes(1, 20)...)
	genes = append(genes, termGenes(9, 15)...)

	hits, err := Score(genes, table)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// T1 and T3 tie and keep table order; T9 is weaker.
	assert.Equal(t, "T1", hits[0].Term)
	assert.Equal(t, "T3", hits[1].Term)
	assert.Equal(t, hits[0].P, hits[1].P)
	assert.Equal(t, "T9", hits[2].Term)
	assert.Less(t, hits[1].P, hits[2].P)
}

func TestScoreEmptyInputs(t *testing.T) {
	hits, err := Score([]string{"A", "B", "C"}, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = Score(nil, disjointTable(annotation.GOMF, 3, 3))
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = Score([]string{"A"}, annotation.New(annotation.GOMF, nil))
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestScoreReportsBrokenTable(t *testing.T) {
	// Built without annotation.New, so the universe size is never counted.
	broken := &annotation.Table{
		Name:  annotation.GOMF,
		Terms: []annotation.Term{annotation.NewTerm("GO:0003677", []string{"IRF3", "IRF7"})},
	}

	_, err := Score([]string{"IRF3", "IRF7", "TBK1"}, broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GO:0003677")
}

func TestRoundSignificant(t *testing.T) {
	assert.Equal(t, 1.23e-7, roundSignificant(1.234567e-7, 3))
	assert.Equal(t, 9.88e-12, roundSignificant(9.876e-12, 3))
	assert.Equal(t, 0.0, roundSignificant(0, 3))
}

func TestHitString(t *testing.T) {
	assert.Equal(t, "R-HSA-168928(1.23e-07)", Hit{Term: "R-HSA-168928", P: 1.23e-7}.String())
}

func TestScoreAll(t *testing.T) {
	tables := Tables{
		Pathway: disjointTable(annotation.Pathway, 50, 20),
		GOBP:    disjointTable(annotation.GOBP, 40, 25),
	}

	clusters := []cluster.Cluster{
		cluster.New(termGenes(2, 20), []string{"P1", "P2"}),
		cluster.New([]string{"X", "Y", "Z"}, []string{"P3"}),
	}

	res, err := ScoreAll(context.Background(), clusters, tables, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)

	top, ok := res[0].TopPathway()
	require.True(t, ok)
	assert.Equal(t, "T2", top.Term)

	// T2_G0..T2_G19 fall inside GO-BP term T2 (25 genes) as well.
	require.Len(t, res[0].GOBP, 1)
	assert.Equal(t, "T2", res[0].GOBP[0].Term)
	assert.Empty(t, res[0].GOMF)

	_, ok = res[1].TopPathway()
	assert.False(t, ok)
}

func TestScoreAllNamesFailingCluster(t *testing.T) {
	broken := &annotation.Table{
		Name:  annotation.GOMF,
		Terms: []annotation.Term{annotation.NewTerm("GO:0003677", []string{"IRF3"})},
	}

	clusters := []cluster.Cluster{
		cluster.New([]string{"A", "B", "C"}, []string{"P1"}),
		cluster.New([]string{"IRF3", "IRF7", "TBK1"}, []string{"P2"}),
	}

	_, err := ScoreAll(context.Background(), clusters, Tables{GOMF: broken}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cluster_2")
	assert.Contains(t, err.Error(), "GO:0003677")
}
