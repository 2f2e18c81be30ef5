package sites

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RatingFunc extracts a rating from one result container. The second return
// is false when the container carries no rating. Rating semantics are
// deliberately site-specific (parsed label, star count, fractional fill) and
// are not normalized across adapters.
type RatingFunc func(sel *goquery.Selection) (float64, bool)

var (
	outOfFiveRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*out of\s*5`)
	leadFloatRe = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
)

// RatingFromLabel parses a textual "X out of 5 stars" label, reading the
// element's aria-label first and falling back to its text content.
func RatingFromLabel(selector string) RatingFunc {
	return func(sel *goquery.Selection) (float64, bool) {
		el := sel.Find(selector).First()
		label, _ := el.Attr("aria-label")
		if label == "" {
			label = el.Text()
		}
		m := outOfFiveRe.FindStringSubmatch(label)
		if m == nil {
			return 0, false
		}
		r, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return r, true
	}
}

// RatingFromText parses the leading decimal out of a rating badge
// (e.g. "4.2 ★" → 4.2).
func RatingFromText(selector string) RatingFunc {
	return func(sel *goquery.Selection) (float64, bool) {
		txt := strings.TrimSpace(sel.Find(selector).First().Text())
		m := leadFloatRe.FindString(txt)
		if m == "" {
			return 0, false
		}
		r, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		return r, true
	}
}

// RatingFromStarCount counts fully-rendered star icons; five matched icons
// mean a 5-star listing.
func RatingFromStarCount(selector string) RatingFunc {
	return func(sel *goquery.Selection) (float64, bool) {
		n := sel.Find(selector).Length()
		if n == 0 {
			return 0, false
		}
		return float64(n), true
	}
}

// RatingFromGradient sums fractional star fill over SVG gradient stops: each
// matched stop contributes its offset as a fraction of one star, so a
// 45%-offset stop adds 0.45 and a fully-filled star's 100% stop adds 1.
func RatingFromGradient(stopSelector string) RatingFunc {
	return func(sel *goquery.Selection) (float64, bool) {
		stops := sel.Find(stopSelector)
		if stops.Length() == 0 {
			return 0, false
		}
		var total float64
		stops.Each(func(_ int, stop *goquery.Selection) {
			offset, ok := stop.Attr("offset")
			if !ok {
				return
			}
			total += offsetFraction(offset)
		})
		return total, true
	}
}

// offsetFraction parses an SVG stop offset ("45%" or "0.45") into [0, 1].
func offsetFraction(offset string) float64 {
	offset = strings.TrimSpace(offset)
	percent := strings.HasSuffix(offset, "%")
	offset = strings.TrimSuffix(offset, "%")

	f, err := strconv.ParseFloat(offset, 64)
	if err != nil {
		return 0
	}
	if percent {
		f /= 100
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
