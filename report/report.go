// Package report serializes clusters and their enrichment as tab-delimited
// text.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/nhc/cluster"
	"github.com/carbocation/nhc/enrichment"
)

// Delim is the character used to delimit the output
const Delim = '\t'

// Empty stands in for an empty list.
const Empty = "."

// Header is the column layout of the enrichment report.
var Header = []string{
	"Cluster_ID", "#Genes", "#Cases", "Gene_Cluster", "Case_Cluster",
	"#Pathways", "Pathway_List", "Top_Pathway", "GO_BP_List", "GO_MF_List",
}

// Writer writes the enrichment report.
type Writer struct {
	w *csv.Writer
}

func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = Delim

	return &Writer{w: cw}
}

func (w *Writer) WriteHeader() error {
	return w.w.Write(Header)
}

// Write emits one cluster. id is the 1-based cluster number.
func (w *Writer) Write(id int, c cluster.Cluster, e enrichment.Enrichment) error {
	top := Empty
	if hit, ok := e.TopPathway(); ok {
		top = hit.String()
	}

	return w.w.Write([]string{
		ClusterID(id),
		strconv.Itoa(len(c.Genes)),
		strconv.Itoa(len(c.Cases)),
		joinOrEmpty(c.Genes),
		joinOrEmpty(c.Cases),
		strconv.Itoa(len(e.Pathway)),
		formatHits(e.Pathway),
		top,
		formatHits(e.GOBP),
		formatHits(e.GOMF),
	})
}

// Flush writes any buffered data and reports the first write error.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// ClusterID is the label of the id-th (1-based) cluster.
func ClusterID(id int) string {
	return fmt.Sprintf("Cluster_%d", id)
}

func formatHits(hits []enrichment.Hit) string {
	if len(hits) == 0 {
		return Empty
	}

	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		parts = append(parts, h.String())
	}

	return strings.Join(parts, ",")
}

func joinOrEmpty(items []string) string {
	if len(items) == 0 {
		return Empty
	}

	return strings.Join(items, ",")
}

// WriteClusterTable writes bare clusters as #genes, #cases, genes, cases.
// If sources is non-nil, a fifth column records how many initial clusters
// were fused into each one.
func WriteClusterTable(w io.Writer, clusters []cluster.Cluster, sources []int) error {
	if sources != nil && len(sources) != len(clusters) {
		return fmt.Errorf("got %d source counts for %d clusters", len(sources), len(clusters))
	}

	cw := csv.NewWriter(w)
	cw.Comma = Delim

	for i, c := range clusters {
		row := []string{
			strconv.Itoa(len(c.Genes)),
			strconv.Itoa(len(c.Cases)),
			joinOrEmpty(c.Genes),
			joinOrEmpty(c.Cases),
		}
		if sources != nil {
			row = append(row, strconv.Itoa(sources[i]))
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
