// Package enrichment scores clusters against annotation tables with a
// Bonferroni-adjusted Fisher exact test.
package enrichment

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strconv"

	"github.com/carbocation/nhc/annotation"
	"github.com/carbocation/nhc/cluster"
	"github.com/carbocation/pfx"
	"golang.org/x/sync/errgroup"
)

// Significance is the adjusted p-value a term must fall under to be
// reported.
const Significance = 1e-5

// Hit is one significantly enriched term.
type Hit struct {
	Term string

	// P is the adjusted p-value: the raw two-sided p-value times the number of
	// terms in the universe, rounded to three significant digits. It is not
	// capped at 1.
	P float64
}

func (h Hit) String() string {
	return fmt.Sprintf("%s(%s)", h.Term, strconv.FormatFloat(h.P, 'g', -1, 64))
}

// Score tests every term of table against genes and returns the hits in
// ascending order of adjusted p-value. Tied hits keep the table's term order.
// Terms that share no gene with the cluster are never tested.
func Score(genes []string, table *annotation.Table) ([]Hit, error) {
	hits := make([]Hit, 0)
	if table.Len() == 0 || len(genes) == 0 {
		return hits, nil
	}

	universe := table.Universe()
	correction := float64(table.Len())

	for _, term := range table.Terms {
		caseIn := 0
		for _, g := range genes {
			if _, exists := term.Genes[g]; exists {
				caseIn++
			}
		}
		if caseIn == 0 {
			continue
		}

		caseOut := len(genes) - caseIn
		termIn := len(term.Genes)
		termOut := universe - termIn

		if caseOut < 0 || termOut < 0 {
			return nil, fmt.Errorf("term %s: invalid contingency table [[%d %d] [%d %d]]", term.ID, caseIn, caseOut, termIn, termOut)
		}

		p := FisherTwoSided(caseIn, caseOut, termIn, termOut)
		if math.IsNaN(p) || p < 0 {
			return nil, fmt.Errorf("term %s: Fisher exact test on [[%d %d] [%d %d]] returned %v", term.ID, caseIn, caseOut, termIn, termOut, p)
		}

		adjusted := p * correction
		if adjusted < Significance {
			hits = append(hits, Hit{Term: term.ID, P: roundSignificant(adjusted, 3)})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].P < hits[j].P })

	return hits, nil
}

// roundSignificant rounds x to digits significant digits.
func roundSignificant(x float64, digits int) float64 {
	if x == 0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}

	out, err := strconv.ParseFloat(strconv.FormatFloat(x, 'e', digits-1, 64), 64)
	if err != nil {
		return x
	}

	return out
}

// Tables bundles the three annotation universes. A nil table yields no hits.
type Tables struct {
	Pathway *annotation.Table
	GOBP    *annotation.Table
	GOMF    *annotation.Table
}

// Enrichment is the scoring of one cluster against every universe.
type Enrichment struct {
	Pathway []Hit
	GOBP    []Hit
	GOMF    []Hit
}

// TopPathway is the pathway hit with the lowest adjusted p-value.
func (e Enrichment) TopPathway() (Hit, bool) {
	if len(e.Pathway) == 0 {
		return Hit{}, false
	}

	return e.Pathway[0], true
}

// ScoreCluster runs Score for each universe.
func ScoreCluster(c cluster.Cluster, tables Tables) (Enrichment, error) {
	var (
		out Enrichment
		err error
	)

	if out.Pathway, err = Score(c.Genes, tables.Pathway); err != nil {
		return out, fmt.Errorf("%s: %w", annotation.Pathway, err)
	}
	if out.GOBP, err = Score(c.Genes, tables.GOBP); err != nil {
		return out, fmt.Errorf("%s: %w", annotation.GOBP, err)
	}
	if out.GOMF, err = Score(c.Genes, tables.GOMF); err != nil {
		return out, fmt.Errorf("%s: %w", annotation.GOMF, err)
	}

	return out, nil
}

// ScoreAll scores every cluster, up to workers at a time (zero means
// runtime.NumCPU()). Results line up with clusters. The first failure is
// returned, naming the 1-based cluster number.
func ScoreAll(ctx context.Context, clusters []cluster.Cluster, tables Tables, workers int) ([]Enrichment, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([]Enrichment, len(clusters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range clusters {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			e, err := ScoreCluster(clusters[i], tables)
			if err != nil {
				return pfx.Err(fmt.Errorf("Cluster_%d: %w", i+1, err))
			}
			out[i] = e

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
