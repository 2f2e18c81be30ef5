package sites

import (
	"time"

	"github.com/fitscout/fitscout/session"
)

// Site tags form the fixed source enumeration. They are the values of the
// `site` field on every record and the keys the filter engine groups by.
const (
	SiteAmazon      = "Amazon"
	SiteMuscleBlaze = "MuscleBlaze"
	SiteOptimum     = "Optimum Nutrition"
	SiteNutrabay    = "Nutrabay"
	SiteMyProtein   = "MyProtein"
	SiteNakpro      = "Nakpro"
)

// descriptors is the per-site extraction table. Order here is the fixed
// sequential order the aggregator runs adapters in, and therefore the order
// of the merged output's per-site segments.
var descriptors = []Descriptor{
	{
		Site:      SiteAmazon,
		SearchURL: "https://www.amazon.in/s?k=%s",
		Wait:      session.WaitNetworkIdle,
		Timeout:   60 * time.Second,
		Container: "div.s-result-item",
		Cap:       20,
		Name:      "h2",
		Price:     "span.a-price-whole",
		Image:     "img.s-image",
		Link:      "a.a-link-normal",
		Origin:    "https://www.amazon.in",
		Rating:    RatingFromLabel("span.a-icon-alt"),
	},
	{
		Site:       SiteMuscleBlaze,
		SearchURL:  "https://www.muscleblaze.com/search?txtQ=%s",
		Wait:       session.WaitSelector,
		WaitFor:    "div.pdt-card",
		Timeout:    30 * time.Second,
		Container:  "div.pdt-card",
		Cap:        10,
		Name:       "div.pdt-name",
		NameDetail: "div.pdt-flavs",
		Price:      "span.pdt-price",
		Image:      "img.pdt-img",
		Link:       "a.pdt-link",
		Origin:     "https://www.muscleblaze.com",
		Brand:      "MuscleBlaze",
		Rating:     RatingFromText("div.pdt-rating"),
	},
	{
		Site:      SiteOptimum,
		SearchURL: "https://www.optimumnutrition.co.in/catalogsearch/result/?q=%s",
		Wait:      session.WaitDOMStable,
		Timeout:   30 * time.Second,
		Container: "li.product-item",
		Cap:       10,
		Name:      "a.product-item-link",
		Price:     "span.price",
		Image:     "img.product-image-photo",
		Link:      "a.product-item-link",
		Origin:    "https://www.optimumnutrition.co.in",
		Brand:     "Optimum Nutrition",
		Rating:    RatingFromStarCount("div.rating-result span.star-full"),
	},
	{
		Site:      SiteNutrabay,
		SearchURL: "https://nutrabay.com/search?q=%s",
		Wait:      session.WaitSelector,
		WaitFor:   "div.product-card",
		Timeout:   30 * time.Second,
		Container: "div.product-card",
		Cap:       12,
		Name:      "div.product-card-title",
		Price:     "div.product-card-price",
		Image:     "img.product-card-image",
		Link:      "a.product-card-link",
		Origin:    "https://nutrabay.com",
		BrandSel:  "div.product-card-brand",
		Rating:    RatingFromStarCount("div.product-card-rating svg.star-filled"),
	},
	{
		Site:      SiteMyProtein,
		SearchURL: "https://www.myprotein.co.in/elysium.search?search=%s",
		Wait:      session.WaitNetworkIdle,
		Timeout:   60 * time.Second,
		Container: "li.productListProducts_product",
		Cap:       15,
		Name:      "h3.athenaProductBlock_productName",
		Price:     "span.athenaProductBlock_priceValue",
		Image:     "img.athenaProductBlock_image",
		Link:      "a.athenaProductBlock_linkImage",
		Origin:    "https://www.myprotein.co.in",
		Brand:     "MyProtein",
		Rating:    RatingFromGradient("span.athenaProductBlock_stars stop:first-child"),
	},
	{
		Site:      SiteNakpro,
		SearchURL: "https://nakpro.com/search?q=%s",
		Wait:      session.WaitDOMStable,
		Timeout:   30 * time.Second,
		Container: "div.product-item",
		Cap:       10,
		Name:      "p.product-item-title",
		Price:     "span.product-item-price",
		Image:     "img.product-item-image",
		Link:      "a.product-item-link",
		Origin:    "https://nakpro.com",
		Brand:     "Nakpro",
	},
}

// All builds the full adapter set in fixed order, validating every
// descriptor. An invalid descriptor is a startup error.
func All() ([]*Adapter, error) {
	adapters := make([]*Adapter, 0, len(descriptors))
	for _, d := range descriptors {
		a, err := New(d)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// Names returns the site tags of the given adapters, in order. The API
// exposes this enumeration so clients can populate their site filter.
func Names(adapters []*Adapter) []string {
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.Site()
	}
	return names
}
