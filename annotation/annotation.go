// Package annotation holds the curated term-to-gene-set tables (pathways, GO
// biological process, GO molecular function) that clusters are scored
// against.
package annotation

// Universe names one of the annotation categories.
type Universe string

const (
	Pathway Universe = "pathway"
	GOBP    Universe = "go_bp"
	GOMF    Universe = "go_mf"
)

// Universes lists the categories in report order.
var Universes = []Universe{Pathway, GOBP, GOMF}

// Term is one annotation term and its member genes.
type Term struct {
	ID    string
	Genes map[string]struct{}
}

// NewTerm builds a Term, dropping empty gene names.
func NewTerm(id string, genes []string) Term {
	set := make(map[string]struct{}, len(genes))
	for _, g := range genes {
		if g == "" {
			continue
		}
		set[g] = struct{}{}
	}

	return Term{ID: id, Genes: set}
}

// Table is an ordered set of terms from one universe. Term order is the
// order the terms were loaded in, and it decides the order of tied
// enrichment hits.
type Table struct {
	Name  Universe
	Terms []Term

	universe int
}

// New builds a Table and counts the distinct genes across all terms.
func New(name Universe, terms []Term) *Table {
	genes := make(map[string]struct{})
	for _, t := range terms {
		for g := range t.Genes {
			genes[g] = struct{}{}
		}
	}

	return &Table{Name: name, Terms: terms, universe: len(genes)}
}

// Len is the number of terms, which is also the multiple-testing factor.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.Terms)
}

// Universe is the number of distinct genes across all terms.
func (t *Table) Universe() int {
	if t == nil {
		return 0
	}

	return t.universe
}
