package enrichment

import (
	"github.com/BenLubar/memoize"
	fet "github.com/glycerine/golang-fisher-exact"
)

// Many clusters share gene counts, and many terms share sizes, so the same
// contingency tables come up again and again across a run.
var memoizedTwoSided = memoize.Memoize(twoSided)

// twoSided computes Fisher's exact test for the contingency table
//
//	n11  n12
//	n21  n22
//
// and returns the two-sided p-value for h0: odds ratio equals 1.
func twoSided(n11, n12, n21, n22 int) float64 {
	_, _, _, twop := fet.FisherExactTest(n11, n12, n21, n22)

	return twop
}

// FisherTwoSided is the memoized two-sided Fisher exact p-value. It is safe
// to call from concurrent goroutines.
func FisherTwoSided(n11, n12, n21, n22 int) float64 {
	return memoizedTwoSided.(func(int, int, int, int) float64)(n11, n12, n21, n22)
}
