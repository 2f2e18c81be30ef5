// Package rank is the client-facing filter/sort/relevance engine. It is a
// pure function over an already-merged record list: no I/O, deterministic,
// cheap enough to re-run on every filter or sort control change.
package rank

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fitscout/fitscout/models"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
	SortBrand     SortKey = "brand"
)

// ValidSortKey reports whether k is one of the supported sort keys.
func ValidSortKey(k SortKey) bool {
	switch k {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortRating, SortBrand:
		return true
	}
	return false
}

// SiteAll is the sentinel site filter matching every source.
const SiteAll = "all"

// Filters are the predicates a record must satisfy to be kept. MaxPrice <= 0
// means no upper bound; Site empty or "all" matches every source; a record
// with no rating is treated as rating 0.
type Filters struct {
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
	Site      string
}

// PenaltyRule subtracts Penalty from a record's relevance score when its
// name contains Keyword but no query term does. Targeted anti-false-positive
// heuristic for product/keyword collisions.
type PenaltyRule struct {
	Keyword string
	Penalty int
}

// DefaultPenalties encodes the observed collision: plain whey searches
// surfacing peanut-butter listings.
var DefaultPenalties = []PenaltyRule{
	{Keyword: "butter", Penalty: 10},
}

// Derive filters records against f, then orders them by key. The input slice
// is never mutated; ties keep their prior order, so applying Derive twice
// with the same arguments yields the same list.
func Derive(records []models.Product, q models.Query, f Filters, key SortKey) []models.Product {
	kept := make([]models.Product, 0, len(records))
	for _, r := range records {
		if keep(r, f) {
			kept = append(kept, r)
		}
	}

	switch key {
	case SortPriceAsc:
		sort.SliceStable(kept, func(i, j int) bool {
			return priceOrZero(kept[i]) < priceOrZero(kept[j])
		})
	case SortPriceDesc:
		sort.SliceStable(kept, func(i, j int) bool {
			return priceOrZero(kept[i]) > priceOrZero(kept[j])
		})
	case SortRating:
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Rating > kept[j].Rating
		})
	case SortBrand:
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Site < kept[j].Site
		})
	default: // relevance
		terms := q.Terms()
		sort.SliceStable(kept, func(i, j int) bool {
			return Score(kept[i].Name, terms, DefaultPenalties) >
				Score(kept[j].Name, terms, DefaultPenalties)
		})
	}

	return kept
}

// Score computes a record's relevance against the query terms: one point per
// term contained case-insensitively in name, minus any matching penalty
// rules.
func Score(name string, terms []string, rules []PenaltyRule) int {
	lower := strings.ToLower(name)

	score := 0
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && strings.Contains(lower, t) {
			score++
		}
	}

	for _, rule := range rules {
		kw := strings.ToLower(rule.Keyword)
		if !strings.Contains(lower, kw) {
			continue
		}
		searched := false
		for _, t := range terms {
			if strings.Contains(strings.ToLower(t), kw) {
				searched = true
				break
			}
		}
		if !searched {
			score -= rule.Penalty
		}
	}

	return score
}

// ParsePrice strips everything but digits and dots from a raw price string
// and parses the remainder. The second return is false when nothing numeric
// survives; such records are excluded by any price-range filter.
func ParsePrice(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func keep(r models.Product, f Filters) bool {
	price, ok := ParsePrice(r.Price)
	if !ok {
		return false
	}
	if price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && price > f.MaxPrice {
		return false
	}
	if f.Site != "" && f.Site != SiteAll && r.Site != f.Site {
		return false
	}
	return r.Rating >= f.MinRating
}

func priceOrZero(r models.Product) float64 {
	p, _ := ParsePrice(r.Price)
	return p
}
