package review

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collators are not safe for concurrent use, so each sort builds its own.

// textCollator orders like a default locale comparison.
func textCollator() *collate.Collator {
	return collate.New(language.Und)
}

// baseCollator ignores case and accents.
func baseCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
}

// numericCollator compares digit runs by value ("A2" < "A10").
func numericCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric)
}

// sortStrings sorts values in place; collation ties keep their input order.
func sortStrings(values []string, c *collate.Collator) {
	sort.SliceStable(values, func(i, j int) bool {
		return c.CompareString(values[i], values[j]) < 0
	})
}

// SortRevisions orders revision identifiers: numeric values numerically,
// everything else with digit-aware text comparison.
func SortRevisions(revs []string) {
	c := numericCollator()
	sort.SliceStable(revs, func(i, j int) bool {
		return compareRevision(c, revs[i], revs[j]) < 0
	})
}

func compareRevision(c *collate.Collator, a, b string) int {
	an, aErr := parseRevisionNumber(a)
	bn, bErr := parseRevisionNumber(b)
	if aErr == nil && bErr == nil && an != bn {
		if an < bn {
			return -1
		}
		return 1
	}
	if cmp := c.CompareString(a, b); cmp != 0 {
		return cmp
	}
	return strings.Compare(a, b)
}

// parseRevisionNumber accepts finite numbers only; "NaN" and "inf" are text.
func parseRevisionNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("revision %q is not a finite number", s)
	}
	return n, nil
}
