package sites

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selection(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Selection
}

func TestRatingFromLabel(t *testing.T) {
	fn := RatingFromLabel("span.a-icon-alt")

	sel := selection(t, `<div><span class="a-icon-alt">4.3 out of 5 stars</span></div>`)
	r, ok := fn(sel)
	assert.True(t, ok)
	assert.InDelta(t, 4.3, r, 0.001)

	sel = selection(t, `<div><i aria-label="4 out of 5 stars"><span class="a-icon-alt" aria-label="4 out of 5 stars"></span></i></div>`)
	r, ok = fn(sel)
	assert.True(t, ok)
	assert.InDelta(t, 4.0, r, 0.001)

	sel = selection(t, `<div><span class="a-icon-alt">bestseller</span></div>`)
	_, ok = fn(sel)
	assert.False(t, ok)

	sel = selection(t, `<div></div>`)
	_, ok = fn(sel)
	assert.False(t, ok)
}

func TestRatingFromText(t *testing.T) {
	fn := RatingFromText("div.rating")

	sel := selection(t, `<div><div class="rating">4.2 ★ (1,203)</div></div>`)
	r, ok := fn(sel)
	assert.True(t, ok)
	assert.InDelta(t, 4.2, r, 0.001)

	sel = selection(t, `<div><div class="rating">New launch</div></div>`)
	_, ok = fn(sel)
	assert.False(t, ok)
}

func TestRatingFromStarCount(t *testing.T) {
	fn := RatingFromStarCount("span.star-full")

	sel := selection(t, `<div>
		<span class="star-full"></span>
		<span class="star-full"></span>
		<span class="star-full"></span>
		<span class="star-full"></span>
		<span class="star-empty"></span>
	</div>`)
	r, ok := fn(sel)
	assert.True(t, ok)
	assert.InDelta(t, 4.0, r, 0.001)

	sel = selection(t, `<div><span class="star-empty"></span></div>`)
	_, ok = fn(sel)
	assert.False(t, ok)
}

func TestRatingFromGradient(t *testing.T) {
	fn := RatingFromGradient("stop:first-child")

	// Four fully-filled stars plus one at 45% fill → 4.45.
	sel := selection(t, `<div>
		<svg><linearGradient><stop offset="100%"/><stop offset="100%"/></linearGradient></svg>
		<svg><linearGradient><stop offset="100%"/><stop offset="100%"/></linearGradient></svg>
		<svg><linearGradient><stop offset="100%"/><stop offset="100%"/></linearGradient></svg>
		<svg><linearGradient><stop offset="100%"/><stop offset="100%"/></linearGradient></svg>
		<svg><linearGradient><stop offset="45%"/><stop offset="45%"/></linearGradient></svg>
	</div>`)
	r, ok := fn(sel)
	assert.True(t, ok)
	assert.InDelta(t, 4.45, r, 0.001)

	// Fractional offsets without a percent sign work too.
	sel = selection(t, `<div><svg><linearGradient><stop offset="0.5"/></linearGradient></svg></div>`)
	r, ok = fn(sel)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, r, 0.001)

	// No stops at all means no rating.
	sel = selection(t, `<div><svg></svg></div>`)
	_, ok = fn(sel)
	assert.False(t, ok)
}

func TestOffsetFraction_Bounds(t *testing.T) {
	assert.InDelta(t, 0.45, offsetFraction("45%"), 0.001)
	assert.InDelta(t, 1.0, offsetFraction("150%"), 0.001)
	assert.InDelta(t, 0.0, offsetFraction("-20%"), 0.001)
	assert.InDelta(t, 0.0, offsetFraction("wide"), 0.001)
}
