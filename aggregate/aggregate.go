// Package aggregate runs every registered site adapter against one shared
// extraction session and merges their output into a single ordered list.
package aggregate

import (
	"context"
	"log/slog"
	"time"

	"github.com/fitscout/fitscout/config"
	"github.com/fitscout/fitscout/models"
	"github.com/fitscout/fitscout/session"
	"github.com/fitscout/fitscout/sites"
)

// Adapter is the slice of a site adapter the aggregator depends on.
// *sites.Adapter satisfies it.
type Adapter interface {
	Site() string
	Extract(ctx context.Context, pg sites.Page, query string) []models.Product
}

// Pager is an open extraction session: navigable by adapters, closeable by
// the aggregator. *session.Session satisfies it.
type Pager interface {
	sites.Page
	Close()
}

// Aggregator owns the session for the span of one query and invokes every
// adapter against it in fixed sequential order.
type Aggregator struct {
	adapters []Adapter

	// open is the session factory; swapped out in tests.
	open func() (Pager, error)
}

// New builds an aggregator whose sessions launch real browsers with the
// given configuration.
func New(browserCfg config.BrowserConfig, sessionCfg config.SessionConfig, adapters []Adapter) *Aggregator {
	return &Aggregator{
		adapters: adapters,
		open: func() (Pager, error) {
			return session.Open(browserCfg, sessionCfg)
		},
	}
}

// Run opens one session, extracts from every site in sequence, and returns
// the concatenation in adapter order. One adapter's failure never prevents
// the next from running and never skips teardown; an all-empty result is a
// valid non-error outcome. Only session establishment failure returns an
// error, and then no partial results exist because no adapter could run.
func (ag *Aggregator) Run(ctx context.Context, q models.Query) ([]models.Product, error) {
	pg, err := ag.open()
	if err != nil {
		slog.Error("failed to open extraction session", "error", err)
		return nil, err
	}
	defer pg.Close()

	query := q.SearchText()
	merged := make([]models.Product, 0, 32)

	for _, ad := range ag.adapters {
		start := time.Now()
		records := ad.Extract(ctx, pg, query)
		slog.Info("adapter finished",
			"site", ad.Site(),
			"records", len(records),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		merged = append(merged, records...)
	}

	return merged, nil
}
