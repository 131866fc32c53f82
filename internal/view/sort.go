// Package view holds the pure, read-only transformations presentation code
// applies to a collection snapshot: ordering, paging, related subsets and
// dashboard figures.
//
// Nothing here keeps state or does I/O. Every function returns a fresh slice
// and leaves its input untouched, so callers can pass Store snapshots
// directly.
package view

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sakif/studio-site/internal/model"
)

// SortKey names an ordering of projects.
type SortKey string

const (
	SortNewest       SortKey = "newest"
	SortOldest       SortKey = "oldest"
	SortAlphabetical SortKey = "alphabetical"
)

// ParseSortKey maps user input onto a SortKey. Unknown input reports false.
func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(s); k {
	case SortNewest, SortOldest, SortAlphabetical:
		return k, true
	}
	return "", false
}

// SortBy returns a sorted copy of records. Ties keep their input order.
// An unknown key returns the records in input order.
func SortBy(records []model.Project, key SortKey) []model.Project {
	out := slices.Clone(records)

	switch key {
	case SortNewest:
		slices.SortStableFunc(out, func(a, b model.Project) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortOldest:
		slices.SortStableFunc(out, func(a, b model.Project) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortAlphabetical:
		// collate.Collator is not safe for concurrent use; one per call.
		c := collate.New(language.English, collate.Loose)
		slices.SortStableFunc(out, func(a, b model.Project) int {
			return c.CompareString(a.Title, b.Title)
		})
	}
	return out
}
