// Package sites implements the per-site extraction adapters. Each site is
// described by a Descriptor (URL template, settle strategy, selectors, cap)
// consumed by one generic extraction routine, so markup drift is a data
// change, not a code change.
package sites

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/fitscout/fitscout/models"
	"github.com/fitscout/fitscout/session"
)

// Page is the slice of the extraction session an adapter is allowed to use.
// *session.Session satisfies it. Adapters must not close the page.
type Page interface {
	Fetch(ctx context.Context, target string, wait session.WaitStrategy, waitSelector string, timeout time.Duration) (string, error)
}

// Descriptor is the per-site extraction configuration. Selector drift as
// sites redesign is the main maintenance burden; it is isolated here.
type Descriptor struct {
	// Site is the fixed source tag stamped on every emitted record.
	Site string

	// SearchURL is the search URL template; %s receives the
	// percent-encoded query string.
	SearchURL string

	// Wait selects the settle strategy for this site's search page.
	Wait session.WaitStrategy

	// WaitFor is the selector awaited when Wait is WaitSelector.
	WaitFor string

	// Timeout bounds the navigation plus settle wait.
	Timeout time.Duration

	// Container selects the result-container elements, in document order.
	Container string

	// Cap bounds how many containers are extracted.
	Cap int

	// Name selects the listing title inside a container. NameDetail, when
	// set, selects a details fragment appended to the title.
	Name       string
	NameDetail string

	// Price selects the displayed price text.
	Price string

	// Image selects the listing image; ImageAttr overrides the attribute
	// read from it (default "src").
	Image     string
	ImageAttr string

	// Link selects the anchor whose href is the listing URL.
	Link string

	// Origin is the site origin used to resolve relative listing and
	// image URLs.
	Origin string

	// Brand is a constant brand tag for single-brand stores. BrandSel,
	// when set, reads the brand from the container markup instead.
	Brand    string
	BrandSel string

	// Rating extracts the 0-5 rating from a container. Nil when the site
	// exposes none.
	Rating RatingFunc
}

// Adapter runs the generic extraction routine for one Descriptor.
type Adapter struct {
	d         Descriptor
	container cascadia.Matcher
	origin    *url.URL
}

// New validates the descriptor (all selectors must compile, the origin must
// parse) and returns a ready adapter. Validation runs at startup so a bad
// descriptor is a boot failure, not a silent runtime one.
func New(d Descriptor) (*Adapter, error) {
	if d.Site == "" || d.SearchURL == "" || d.Container == "" {
		return nil, fmt.Errorf("descriptor %q: site, search URL, and container are required", d.Site)
	}
	if d.Cap <= 0 {
		return nil, fmt.Errorf("descriptor %q: cap must be positive", d.Site)
	}

	container, err := cascadia.Parse(d.Container)
	if err != nil {
		return nil, fmt.Errorf("descriptor %q: container selector: %w", d.Site, err)
	}

	for _, sel := range []string{d.WaitFor, d.Name, d.NameDetail, d.Price, d.Image, d.Link, d.BrandSel} {
		if sel == "" {
			continue
		}
		if _, err := cascadia.Parse(sel); err != nil {
			return nil, fmt.Errorf("descriptor %q: selector %q: %w", d.Site, sel, err)
		}
	}

	origin, err := url.Parse(d.Origin)
	if err != nil || origin.Host == "" {
		return nil, fmt.Errorf("descriptor %q: invalid origin %q", d.Site, d.Origin)
	}

	if d.ImageAttr == "" {
		d.ImageAttr = "src"
	}

	return &Adapter{d: d, container: container, origin: origin}, nil
}

// Site returns the adapter's fixed source tag.
func (a *Adapter) Site() string { return a.d.Site }

// SearchURL builds the site-specific search URL for a query.
func (a *Adapter) SearchURL(query string) string {
	return fmt.Sprintf(a.d.SearchURL, url.QueryEscape(query))
}

// Extract navigates the shared page to the site's search results and pulls
// up to Cap normalized records. It never returns an error: navigation and
// settle failures are logged and degrade to an empty list, and a malformed
// container is skipped without aborting the rest.
func (a *Adapter) Extract(ctx context.Context, pg Page, query string) []models.Product {
	target := a.SearchURL(query)

	raw, err := pg.Fetch(ctx, target, a.d.Wait, a.d.WaitFor, a.d.Timeout)
	if err != nil {
		slog.Warn("site extraction failed",
			"site", a.d.Site, "url", target, "error", err,
		)
		return nil
	}

	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		slog.Warn("rendered HTML did not parse", "site", a.d.Site, "error", err)
		return nil
	}

	containers := cascadia.QueryAll(root, a.container)

	var records []models.Product
	for _, node := range containers {
		if len(records) >= a.d.Cap {
			break
		}
		rec, ok := a.extractOne(goquery.NewDocumentFromNode(node).Selection)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	slog.Debug("site extraction finished",
		"site", a.d.Site, "containers", len(containers), "records", len(records),
	)
	return records
}

// extractOne pulls one container's fields. The second return is false when
// the container fails the required-field invariant (name, price, url).
func (a *Adapter) extractOne(sel *goquery.Selection) (models.Product, bool) {
	name := text(sel, a.d.Name)
	if a.d.NameDetail != "" {
		if detail := text(sel, a.d.NameDetail); detail != "" {
			name = strings.TrimSpace(name + " " + detail)
		}
	}

	price := NormalizePrice(text(sel, a.d.Price))
	link := a.resolveURL(attr(sel, a.d.Link, "href"))

	if name == "" || price == "" || link == "" {
		return models.Product{}, false
	}

	rec := models.Product{
		Name:  name,
		Price: price,
		Image: a.resolveURL(attr(sel, a.d.Image, a.d.ImageAttr)),
		URL:   link,
		Brand: a.d.Brand,
		Site:  a.d.Site,
	}
	if a.d.BrandSel != "" {
		rec.Brand = text(sel, a.d.BrandSel)
	}
	if a.d.Rating != nil {
		if r, ok := a.d.Rating(sel); ok {
			rec.Rating = clampRating(r)
		}
	}
	return rec, true
}

// resolveURL converts protocol-relative and root-relative references into
// absolute URLs against the site's origin.
func (a *Adapter) resolveURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return a.origin.ResolveReference(u).String()
}

var nonPriceRunes = regexp.MustCompile(`[^0-9.,]`)

// NormalizePrice strips currency symbols and any other non-numeric noise,
// keeping the locale-formatted digit string ("₹1,299.00" → "1,299.00").
// Returns "" when no digit survives.
func NormalizePrice(raw string) string {
	cleaned := nonPriceRunes.ReplaceAllString(raw, "")
	cleaned = strings.Trim(cleaned, ".,")
	if !strings.ContainsAny(cleaned, "0123456789") {
		return ""
	}
	return cleaned
}

func text(sel *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

func attr(sel *goquery.Selection, selector, name string) string {
	if selector == "" {
		return ""
	}
	v, _ := sel.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

func clampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}
