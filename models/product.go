package models

import "strings"

// Product is a normalized listing extracted from one site's search results.
//
// Invariants: Name, Price, and URL are non-empty in every emitted Product —
// adapters discard partial extractions missing any of them. Image may be
// empty for some sources. Rating, when present, lies in [0, 5]; its exact
// semantics vary per site (parsed label, star count, or fractional fill).
type Product struct {
	// Name is the listing title, optionally concatenated from a title
	// fragment plus a details fragment.
	Name string `json:"name"`

	// Price is the raw, currency-symbol-stripped, locale-formatted digit
	// string as shown on the site (e.g. "1,299").
	Price string `json:"price"`

	// Image is the absolute image URL. May be empty.
	Image string `json:"image"`

	// URL is the absolute listing URL.
	URL string `json:"url"`

	// Brand is the product brand; constant for single-brand stores.
	Brand string `json:"brand,omitempty"`

	// Rating is the 0-5 rating when the site exposes one.
	Rating float64 `json:"rating,omitempty"`

	// Site identifies the source the record came from. It is drawn from
	// the fixed adapter enumeration and is the sole cross-source grouping
	// key for filtering.
	Site string `json:"site"`
}

// Query is the caller-supplied search input. All three fields are required;
// presence is validated at the API boundary before the core runs.
type Query struct {
	Product string `form:"product" json:"product"`
	Weight  string `form:"weight" json:"weight"`
	Flavor  string `form:"flavor" json:"flavor"`
}

// SearchText combines the three fields into the free-text string submitted
// to every site's search box.
func (q Query) SearchText() string {
	return q.Product + " " + q.Weight + " " + q.Flavor
}

// Terms returns the individual query terms used for relevance scoring.
func (q Query) Terms() []string {
	return []string{q.Product, q.Weight, q.Flavor}
}

// Valid reports whether all three query fields are present and non-blank.
func (q Query) Valid() bool {
	return strings.TrimSpace(q.Product) != "" &&
		strings.TrimSpace(q.Weight) != "" &&
		strings.TrimSpace(q.Flavor) != ""
}
