package cluster

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/carbocation/nhc/cohort"
	"github.com/carbocation/nhc/network"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DiscoverOptions tunes Discover.
type DiscoverOptions struct {
	// Workers bounds the number of cases expanded at once. Zero means
	// runtime.NumCPU().
	Workers int

	// Logger receives one progress line per case. Nil silences progress.
	Logger logrus.FieldLogger
}

// Discover expands every (case, seed gene) pair of the cohort and returns
// the deduplicated clusters.
//
// Cases are expanded in parallel, but each case's clusters land in their own
// slot and are admitted afterwards in case order and then seed-gene order, so
// the result does not depend on Workers.
func Discover(ctx context.Context, c *cohort.Cohort, idx *network.Index, opts DiscoverOptions) ([]Cluster, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	exp := NewExpander(c, idx)
	perCase := make([][]RawCluster, c.Len())

	var done int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range c.Cases {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			perCase[i] = exp.ExpandCase(i)

			finished := atomic.AddInt64(&done, 1)
			if opts.Logger != nil {
				opts.Logger.WithFields(logrus.Fields{
					"case":     c.Cases[i].ID,
					"clusters": len(perCase[i]),
					"seconds":  int(time.Since(start).Seconds()),
				}).Infof("Clustering %d/%d", finished, c.Len())
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dedup := NewDeduplicator()
	out := make([]Cluster, 0)
	for _, raws := range perCase {
		for _, raw := range raws {
			caseIDs := make([]string, 0, len(raw.Cases))
			for _, ci := range raw.Cases {
				caseIDs = append(caseIDs, c.Cases[ci].ID)
			}

			if cl, ok := dedup.Admit(raw.Genes, caseIDs); ok {
				out = append(out, cl)
			}
		}
	}

	return out, nil
}
