// Package tables resolves column meaning and classifies extracted tables
// by purpose. Classification is purpose-local: each extractor asks "is
// this table relevant to me" rather than assigning one global label,
// because real statements mix summary, allocation and holdings content
// in a single table.
package tables

import "strings"

// FindColumnIndex returns the index of the first header whose lower-cased
// text contains one of candidates as a substring, or -1. First match in
// header order wins; there is no scoring across candidates. Used for
// loose matches (asset class, security name, quantity, price, value,
// currency, type).
func FindColumnIndex(headers []string, candidates []string) int {
	for i, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		for _, c := range candidates {
			if strings.Contains(h, strings.ToLower(c)) {
				return i
			}
		}
	}
	return -1
}

// FindColumnIndexExact returns the index of the first header whose
// lower-cased text exactly equals one of candidates, or -1. Used where
// false positives are costly, e.g. performance-period columns where
// "1 year" must not match "10 year". Loose and exact matching are two
// distinct strategies; do not collapse them into one fuzzy matcher.
func FindColumnIndexExact(headers []string, candidates []string) int {
	for i, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		for _, c := range candidates {
			if h == strings.ToLower(c) {
				return i
			}
		}
	}
	return -1
}
