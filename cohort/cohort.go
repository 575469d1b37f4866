// Package cohort holds the ordered list of cases and their gene sets.
package cohort

import (
	"sort"
)

// Case is one row of the cohort: an identifier and the genes observed in it.
type Case struct {
	ID string

	// Genes is sorted ascending and free of duplicates. Its order is the
	// seed-gene order used during expansion.
	Genes []string

	set map[string]struct{}
}

// NewCase builds a Case from an unordered, possibly repetitive gene list.
// Empty gene names are dropped.
func NewCase(id string, genes []string) Case {
	set := make(map[string]struct{}, len(genes))
	for _, g := range genes {
		if g == "" {
			continue
		}
		set[g] = struct{}{}
	}

	sorted := make([]string, 0, len(set))
	for g := range set {
		sorted = append(sorted, g)
	}
	sort.Strings(sorted)

	return Case{ID: id, Genes: sorted, set: set}
}

// Has reports whether gene was observed in this case.
func (c Case) Has(gene string) bool {
	_, exists := c.set[gene]
	return exists
}

// Cohort is the ordered list of cases. Case order is significant: it is the
// expansion order and the tie-break order for the whole analysis.
type Cohort struct {
	Cases []Case

	universe map[string]struct{}
}

// New builds a cohort from cases in the given order.
func New(cases []Case) *Cohort {
	universe := make(map[string]struct{})
	for _, c := range cases {
		for _, g := range c.Genes {
			universe[g] = struct{}{}
		}
	}

	return &Cohort{Cases: cases, universe: universe}
}

// Len is the number of cases.
func (c *Cohort) Len() int {
	return len(c.Cases)
}

// Universe returns the union of all case genes. The returned map must not be
// modified.
func (c *Cohort) Universe() map[string]struct{} {
	return c.universe
}

// InUniverse reports whether gene occurs in any case.
func (c *Cohort) InUniverse(gene string) bool {
	_, exists := c.universe[gene]
	return exists
}
