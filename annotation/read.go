package annotation

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/nhc"
	"github.com/carbocation/pfx"
)

// Gene-list column of each annotation file. Pathway files are
// term<TAB>genes; GO files carry a description in between.
var GeneColumns = map[Universe]int{
	Pathway: 1,
	GOBP:    2,
	GOMF:    2,
}

// Read loads one annotation table. Files have no header; column 0 is the
// term identifier and the comma-separated genes sit in GeneColumns[name].
func Read(ctx context.Context, name Universe, path string, client *storage.Client) (*Table, error) {
	geneCol, exists := GeneColumns[name]
	if !exists {
		return nil, fmt.Errorf("unknown annotation universe %q", name)
	}

	in, err := nhc.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	terms, err := Parse(in, geneCol)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return New(name, terms), nil
}

// Parse reads terms from r, taking genes from column geneCol.
func Parse(r io.Reader, geneCol int) ([]Term, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	terms := make([]Term, 0)
	seen := make(map[string]int)

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)
		if len(rec) <= geneCol {
			return nil, fmt.Errorf("line %d: expected at least %d columns, got %d", line, geneCol+1, len(rec))
		}

		id := strings.TrimSpace(rec[0])
		if id == "" {
			return nil, fmt.Errorf("line %d: empty term identifier", line)
		}
		if prior, exists := seen[id]; exists {
			return nil, fmt.Errorf("line %d: term %s was already defined on line %d", line, id, prior)
		}
		seen[id] = line

		genes := strings.Split(rec[geneCol], ",")
		for k := range genes {
			genes[k] = strings.TrimSpace(genes[k])
		}

		terms = append(terms, NewTerm(id, genes))
	}

	return terms, nil
}
