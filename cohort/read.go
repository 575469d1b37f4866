package cohort

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

// Map columns in the case file to their positions
const (
	CaseID int = iota
	GeneList
)

// Read loads a case file: one header line, then one case per line as
// case<TAB>gene1,gene2,... The path may be local or gs://.
func Read(ctx context.Context, path string, client *storage.Client) (*Cohort, error) {
	in, err := nhc.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	cases, err := Parse(in)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return New(cases), nil
}

// Parse reads the case table from r. The first line is a header and is
// skipped. Duplicate case identifiers are rejected.
func Parse(r io.Reader) ([]Case, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	cases := make([]Case, 0)
	seen := make(map[string]int)

	for i := 0; ; i++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		if i == 0 {
			// Header
			continue
		}

		line, _ := cr.FieldPos(0)
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: expected 2 columns (case, genes), got %d", line, len(rec))
		}

		id := strings.TrimSpace(rec[CaseID])
		if id == "" {
			return nil, fmt.Errorf("line %d: empty case identifier", line)
		}
		if prior, exists := seen[id]; exists {
			return nil, fmt.Errorf("line %d: case %s was already defined on line %d", line, id, prior)
		}
		seen[id] = line

		genes := strings.Split(strings.TrimSpace(rec[GeneList]), ",")
		for k := range genes {
			genes[k] = strings.TrimSpace(genes[k])
		}

		c := NewCase(id, genes)
		if len(c.Genes) == 0 {
			return nil, fmt.Errorf("line %d: case %s has no genes", line, id)
		}

		cases = append(cases, c)
	}

	return cases, nil
}
