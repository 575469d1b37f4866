package network

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/nhc"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// Map columns in the network file to their positions
const (
	GeneA int = iota
	GeneB
	Weight
)

// ReadIndex streams a network file (geneA<TAB>geneB<TAB>weight, no header)
// through filter. Edges are never held in memory unfiltered.
func ReadIndex(ctx context.Context, path string, client *storage.Client, filter Filter) (*Index, int, error) {
	in, err := nhc.Open(ctx, path, client)
	if err != nil {
		return nil, 0, err
	}
	defer in.Close()

	b := NewBuilder(filter)
	if err := ReadEdges(in, func(e Edge) { b.Add(e) }); err != nil {
		return nil, 0, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return b.Index(), b.Seen(), nil
}

// ReadEdges parses edges from r and hands each one to fn. Every line is an
// edge; there is no comment syntax.
func ReadEdges(r io.Reader, fn func(Edge)) error {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		line, _ := cr.FieldPos(0)
		if len(rec) < 3 {
			return fmt.Errorf("line %d: expected 3 columns (geneA, geneB, weight), got %d", line, len(rec))
		}

		w, err := strconv.ParseFloat(strings.TrimSpace(rec[Weight]), 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		fn(Edge{
			GeneA:  strings.TrimSpace(rec[GeneA]),
			GeneB:  strings.TrimSpace(rec[GeneB]),
			Weight: w,
		})
	}

	return nil
}

type connectivityRow struct {
	Gene         string `csv:"gene"`
	Connectivity int    `csv:"connectivity"`
}

// ReadHubGenes loads a connectivity file (gene<TAB>connectivity, no header)
// and returns the genes whose connectivity is at or above cutoff. A cutoff of
// 0 disables hub filtering, so nothing is read and nil is returned.
func ReadHubGenes(ctx context.Context, path string, client *storage.Client, cutoff int) (map[string]struct{}, error) {
	if cutoff <= 0 {
		return nil, nil
	}

	in, err := nhc.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	hubs, err := ParseHubGenes(in, cutoff)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return hubs, nil
}

// ParseHubGenes reads connectivity rows from r and keeps genes with
// connectivity >= cutoff.
func ParseHubGenes(r io.Reader, cutoff int) (map[string]struct{}, error) {
	records := []*connectivityRow{}

	// Tell gocsv to use tab as the delimiter
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = '\t'
		cr.TrimLeadingSpace = true
		return cr
	})

	if err := gocsv.UnmarshalWithoutHeaders(r, &records); err != nil {
		return nil, err
	}

	hubs := make(map[string]struct{})
	for _, rec := range records {
		if rec.Connectivity >= cutoff {
			hubs[strings.TrimSpace(rec.Gene)] = struct{}{}
		}
	}

	return hubs, nil
}
