package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"github.com/carbocation/nhc"
	"github.com/carbocation/nhc/annotation"
	"github.com/carbocation/nhc/cluster"
	"github.com/carbocation/nhc/cohort"
	"github.com/carbocation/nhc/enrichment"
	"github.com/carbocation/nhc/network"
	"github.com/carbocation/nhc/report"
	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
)

// Names of the optional intermediate tables.
const (
	InitialClustersFile = "clusters_initial.txt"
	MergedClustersFile  = "clusters_merged.txt"
)

// Summary is what one run produced.
type Summary struct {
	Cases    int
	Edges    int
	Initial  int
	Merged   int
	Rounds   int
	Enriched int
	Output   string
	Elapsed  time.Duration
}

// Run loads every input named by cfg, discovers and merges clusters, scores
// them, and writes the report to cfg.Output.
func Run(ctx context.Context, cfg Config, logger logrus.FieldLogger) (Summary, error) {
	started := time.Now()
	summary := Summary{Output: cfg.Output}

	var client *storage.Client
	if nhc.NeedsStorageClient(cfg.InputPaths()...) {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			return summary, pfx.Err(err)
		}
		defer client.Close()
	}

	logger.Info("Loading Data")

	if err := sniffInputs(ctx, cfg, client, logger); err != nil {
		return summary, err
	}

	coh, err := cohort.Read(ctx, cfg.Case, client)
	if err != nil {
		return summary, err
	}
	summary.Cases = coh.Len()
	logger.WithFields(logrus.Fields{
		"cases": coh.Len(),
		"genes": len(coh.Universe()),
	}).Info("Loaded cases")

	hubs, err := network.ReadHubGenes(ctx, cfg.ConnectivityPath(), client, cfg.Hub)
	if err != nil {
		return summary, err
	}
	if cfg.Hub > 0 {
		logger.WithField("hub_genes", len(hubs)).Infof("Excluding genes with connectivity >= %d", cfg.Hub)
	}

	idx, seen, err := network.ReadIndex(ctx, cfg.NetworkPath(), client, network.Filter{
		Cutoff:   cfg.EdgeWeight,
		Universe: coh.Universe(),
		Hubs:     hubs,
	})
	if err != nil {
		return summary, err
	}
	summary.Edges = idx.Len()
	logger.WithFields(logrus.Fields{
		"edges_read": seen,
		"edges_kept": idx.Len(),
		"genes":      idx.Genes(),
		"cutoff":     cfg.EdgeWeight,
	}).Info("Loaded network")

	tables, err := readTables(ctx, cfg, client, logger)
	if err != nil {
		return summary, err
	}

	logger.Info("Gene Clustering")
	initial, err := cluster.Discover(ctx, coh, idx, cluster.DiscoverOptions{
		Workers: cfg.Workers,
		Logger:  logger,
	})
	if err != nil {
		return summary, err
	}
	summary.Initial = len(initial)
	logClusterSizes(logger, "# Gene Clusters (initial)", initial)

	if cfg.Intermediate != "" {
		if err := writeClusterTable(cfg.Intermediate, InitialClustersFile, initial, nil); err != nil {
			return summary, err
		}
	}

	logger.WithField("cutoff", cfg.Merge).Info("Merging clusters")
	merged := cluster.Merge(initial, cfg.Merge)
	summary.Merged = len(merged.Clusters)
	summary.Rounds = merged.Rounds
	logClusterSizes(logger.WithField("rounds", merged.Rounds), "# Gene Clusters (merged)", merged.Clusters)

	if cfg.Intermediate != "" {
		if err := writeClusterTable(cfg.Intermediate, MergedClustersFile, merged.Clusters, merged.Sources); err != nil {
			return summary, err
		}
	}

	logger.Info("Enrichment Analysis")
	scored, err := enrichment.ScoreAll(ctx, merged.Clusters, tables, cfg.Workers)
	if err != nil {
		return summary, err
	}

	if err := writeReport(cfg.Output, merged.Clusters, scored); err != nil {
		return summary, err
	}

	for _, e := range scored {
		if len(e.Pathway) > 0 {
			summary.Enriched++
		}
	}

	summary.Elapsed = time.Since(started)
	logger.WithFields(logrus.Fields{
		"initial":  summary.Initial,
		"merged":   summary.Merged,
		"enriched": summary.Enriched,
		"output":   summary.Output,
		"seconds":  int(summary.Elapsed.Seconds()),
	}).Infof("# Gene Clusters with enriched pathways: %d", summary.Enriched)

	return summary, nil
}

// sniffInputs logs the compression and guessed delimiter of every input and
// warns about files that do not look tab-delimited.
func sniffInputs(ctx context.Context, cfg Config, client *storage.Client, logger logrus.FieldLogger) error {
	for _, path := range cfg.InputPaths() {
		dt, delim, err := nhc.Sniff(ctx, path, client)
		if err != nil {
			return err
		}

		entry := logger.WithFields(logrus.Fields{
			"path":      path,
			"data_type": dt.String(),
			"delimiter": strconv.QuoteRune(delim),
		})
		entry.Debug("Input")
		if delim != '\t' {
			entry.Warn("Input does not look tab-delimited")
		}
	}

	return nil
}

func readTables(ctx context.Context, cfg Config, client *storage.Client, logger logrus.FieldLogger) (enrichment.Tables, error) {
	var out enrichment.Tables

	paths := map[annotation.Universe]string{
		annotation.Pathway: cfg.PathwayPath(),
		annotation.GOBP:    cfg.GOBPPath(),
		annotation.GOMF:    cfg.GOMFPath(),
	}
	dst := map[annotation.Universe]**annotation.Table{
		annotation.Pathway: &out.Pathway,
		annotation.GOBP:    &out.GOBP,
		annotation.GOMF:    &out.GOMF,
	}

	for _, name := range annotation.Universes {
		table, err := annotation.Read(ctx, name, paths[name], client)
		if err != nil {
			return out, err
		}
		*dst[name] = table

		logger.WithFields(logrus.Fields{
			"universe": string(name),
			"terms":    table.Len(),
			"genes":    table.Universe(),
		}).Info("Loaded annotation")
	}

	return out, nil
}

func logClusterSizes(logger logrus.FieldLogger, msg string, clusters []cluster.Cluster) {
	fields := logrus.Fields{}

	if len(clusters) > 0 {
		sizes := make([]int, 0, len(clusters))
		for _, c := range clusters {
			sizes = append(sizes, len(c.Genes))
		}

		data := stats.LoadRawData(sizes)
		if median, err := data.Median(); err == nil {
			fields["median_genes"] = median
		}
		if largest, err := data.Max(); err == nil {
			fields["max_genes"] = int(largest)
		}
	}

	logger.WithFields(fields).Infof("%s: %d", msg, len(clusters))
}

func writeClusterTable(dir, name string, clusters []cluster.Cluster, sources []int) error {
	local, err := nhc.ExpandHome(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(local, 0755); err != nil {
		return pfx.Err(err)
	}

	f, err := os.Create(filepath.Join(local, name))
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := report.WriteClusterTable(bw, clusters, sources); err != nil {
		return pfx.Err(err)
	}
	if err := bw.Flush(); err != nil {
		return pfx.Err(err)
	}

	return f.Close()
}

func writeReport(path string, clusters []cluster.Cluster, scored []enrichment.Enrichment) error {
	if len(scored) != len(clusters) {
		return fmt.Errorf("got enrichment for %d clusters, expected %d", len(scored), len(clusters))
	}

	local, err := nhc.ExpandHome(path)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(local, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	w := report.NewWriter(bw)
	if err := w.WriteHeader(); err != nil {
		return pfx.Err(err)
	}
	for i, c := range clusters {
		if err := w.Write(i+1, c, scored[i]); err != nil {
			return pfx.Err(err)
		}
	}
	if err := w.Flush(); err != nil {
		return pfx.Err(err)
	}
	if err := bw.Flush(); err != nil {
		return pfx.Err(err)
	}

	return f.Close()
}
