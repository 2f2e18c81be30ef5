package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitscout/fitscout/models"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
		ok   bool
	}{
		{"rupee with separator", "₹1,299", 1299, true},
		{"plain digits", "450", 450, true},
		{"decimal", "1,299.50", 1299.50, true},
		{"currency and spaces", "Rs. 2 499", 2499, true},
		{"no digits", "N/A", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestScore_CountsTermContainment(t *testing.T) {
	terms := []string{"Protein", "1kg", "Chocolate"}

	assert.Equal(t, 3, Score("ON Gold Standard Whey Protein 1kg Chocolate", terms, nil))
	assert.Equal(t, 2, Score("Whey Protein 1kg Vanilla", terms, nil))
	assert.Equal(t, 0, Score("Creatine Monohydrate 250g", terms, nil))
}

func TestScore_PenaltyForUnsearchedKeyword(t *testing.T) {
	terms := []string{"Whey Protein", "1kg", "Chocolate"}
	rules := []PenaltyRule{{Keyword: "butter", Penalty: 10}}

	// "butter" was never searched, so a peanut butter listing sinks.
	assert.Equal(t, -8, Score("Peanut Butter Chocolate 1kg", terms, rules))

	// When the user actually searched for butter, no penalty applies.
	butterTerms := []string{"Peanut Butter", "1kg", "Crunchy"}
	assert.Equal(t, 2, Score("Peanut Butter 1kg Smooth", butterTerms, rules))
}

func TestDerive_FilterByPriceRange(t *testing.T) {
	records := []models.Product{
		{Name: "a", Price: "100", URL: "u", Site: "Amazon"},
		{Name: "b", Price: "2,500", URL: "u", Site: "Amazon"},
		{Name: "c", Price: "N/A", URL: "u", Site: "Amazon"},
	}
	q := models.Query{Product: "x", Weight: "y", Flavor: "z"}

	out := Derive(records, q, Filters{MinPrice: 50, MaxPrice: 2000, Site: SiteAll}, SortPriceAsc)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Name)

	// Bounds are inclusive.
	out = Derive(records, q, Filters{MinPrice: 100, MaxPrice: 2500, Site: SiteAll}, SortPriceAsc)
	assert.Len(t, out, 2)

	// A price with no digits is excluded by any price-range filter.
	out = Derive(records, q, Filters{Site: SiteAll}, SortPriceAsc)
	for _, r := range out {
		assert.NotEqual(t, "c", r.Name)
	}
}

func TestDerive_FilterBySiteAndRating(t *testing.T) {
	records := []models.Product{
		{Name: "a", Price: "100", URL: "u", Site: "Amazon", Rating: 4.5},
		{Name: "b", Price: "100", URL: "u", Site: "Nutrabay", Rating: 3},
		{Name: "c", Price: "100", URL: "u", Site: "Nakpro"}, // no rating
	}
	q := models.Query{Product: "x", Weight: "y", Flavor: "z"}

	out := Derive(records, q, Filters{Site: "Nutrabay"}, SortPriceAsc)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].Name)

	// "all" sentinel keeps every source.
	out = Derive(records, q, Filters{Site: SiteAll}, SortPriceAsc)
	assert.Len(t, out, 3)

	// Absent rating is treated as 0.
	out = Derive(records, q, Filters{Site: SiteAll, MinRating: 3}, SortPriceAsc)
	assert.Len(t, out, 2)
}

func TestDerive_SortOrders(t *testing.T) {
	records := []models.Product{
		{Name: "mid", Price: "500", URL: "u", Site: "B", Rating: 2},
		{Name: "cheap", Price: "100", URL: "u", Site: "C", Rating: 5},
		{Name: "dear", Price: "900", URL: "u", Site: "A", Rating: 4},
	}
	q := models.Query{Product: "x", Weight: "y", Flavor: "z"}
	f := Filters{Site: SiteAll}

	asc := Derive(records, q, f, SortPriceAsc)
	assert.Equal(t, []string{"cheap", "mid", "dear"}, names(asc))

	desc := Derive(records, q, f, SortPriceDesc)
	assert.Equal(t, []string{"dear", "mid", "cheap"}, names(desc))

	byRating := Derive(records, q, f, SortRating)
	assert.Equal(t, []string{"cheap", "dear", "mid"}, names(byRating))

	bySite := Derive(records, q, f, SortBrand)
	assert.Equal(t, []string{"dear", "mid", "cheap"}, names(bySite))
}

func TestDerive_BrandSortStability(t *testing.T) {
	records := []models.Product{
		{Name: "b1", Price: "200", URL: "u", Site: "B"},
		{Name: "a1", Price: "100", URL: "u", Site: "A"},
	}
	q := models.Query{Product: "x", Weight: "y", Flavor: "z"}

	out := Derive(records, q, Filters{Site: SiteAll}, SortBrand)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Site)
	assert.Equal(t, "B", out[1].Site)
}

func TestDerive_RelevanceOrdersByScoreDescending(t *testing.T) {
	records := []models.Product{
		{Name: "Whey Protein 1kg Vanilla", Price: "100", URL: "u", Site: "A"},
		{Name: "ON Gold Standard Whey Protein 1kg Chocolate", Price: "100", URL: "u", Site: "A"},
		{Name: "Peanut Butter Chocolate 1kg", Price: "100", URL: "u", Site: "A"},
	}
	q := models.Query{Product: "Protein", Weight: "1kg", Flavor: "Chocolate"}

	out := Derive(records, q, Filters{Site: SiteAll}, SortRelevance)
	require.Len(t, out, 3)
	assert.Equal(t, "ON Gold Standard Whey Protein 1kg Chocolate", out[0].Name)
	assert.Equal(t, "Whey Protein 1kg Vanilla", out[1].Name)
	// The penalised butter listing lands last despite matching two terms.
	assert.Equal(t, "Peanut Butter Chocolate 1kg", out[2].Name)
}

func TestDerive_Idempotent(t *testing.T) {
	records := []models.Product{
		{Name: "Whey Protein 1kg Chocolate", Price: "1,299", URL: "u", Site: "Amazon", Rating: 4},
		{Name: "Whey Protein 1kg Vanilla", Price: "999", URL: "u", Site: "Nutrabay", Rating: 3},
		{Name: "Creatine 250g", Price: "449", URL: "u", Site: "Nakpro"},
	}
	q := models.Query{Product: "Protein", Weight: "1kg", Flavor: "Chocolate"}
	f := Filters{MinPrice: 0, MaxPrice: 2000, Site: SiteAll}

	once := Derive(records, q, f, SortRelevance)
	twice := Derive(once, q, f, SortRelevance)
	assert.Equal(t, once, twice)
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	records := []models.Product{
		{Name: "b", Price: "200", URL: "u", Site: "B"},
		{Name: "a", Price: "100", URL: "u", Site: "A"},
	}
	q := models.Query{Product: "x", Weight: "y", Flavor: "z"}

	_ = Derive(records, q, Filters{Site: SiteAll}, SortPriceAsc)
	assert.Equal(t, "b", records[0].Name)
	assert.Equal(t, "a", records[1].Name)
}

func names(records []models.Product) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}
