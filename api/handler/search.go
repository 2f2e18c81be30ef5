package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitscout/fitscout/cache"
	"github.com/fitscout/fitscout/models"
	"github.com/fitscout/fitscout/rank"
)

// Runner is the extraction core the handler drives. *aggregate.Aggregator
// satisfies it.
type Runner interface {
	Run(ctx context.Context, q models.Query) ([]models.Product, error)
}

// Search returns a handler for GET /api/v1/search.
//
// Orchestration flow:
//  1. Validate the three required query fields (reject before core runs).
//  2. Cache lookup — a repeated query within TTL skips the browser entirely.
//  3. Runner.Run → merged best-effort record list (records extraction_ms).
//  4. Optional server-side filter/sort when any control param is present.
//  5. Respond 200 with the ordered list; empty is success, not an error.
func Search(runner Runner, cc *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Validate input ───────────────────────────────────────
		q := models.Query{
			Product: strings.TrimSpace(c.Query("product")),
			Weight:  strings.TrimSpace(c.Query("weight")),
			Flavor:  strings.TrimSpace(c.Query("flavor")),
		}
		if !q.Valid() {
			c.JSON(http.StatusBadRequest, models.SearchResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "missing parameters: product, weight, and flavor are all required",
				},
			})
			return
		}

		filters, sortKey, derive, paramErr := parseControls(c)
		if paramErr != nil {
			c.JSON(http.StatusBadRequest, models.SearchResponse{
				Success: false,
				Error:   paramErr,
			})
			return
		}

		// ── 2. Cache lookup ─────────────────────────────────────────
		var (
			results     []models.Product
			cacheStatus string
			served      bool
		)
		key := cache.Key(q)
		if cc != nil && ttl > 0 {
			if cached, hit := cc.Get(key, ttl); hit {
				results = cached
				cacheStatus = "hit"
				served = true
			}
		}

		// ── 3. Extract ──────────────────────────────────────────────
		var extractionMs int64
		if !served {
			exStart := time.Now()
			out, err := runner.Run(c.Request.Context(), q)
			extractionMs = time.Since(exStart).Milliseconds()

			if err != nil {
				respondError(c, err, models.TimingInfo{
					TotalMs:      time.Since(totalStart).Milliseconds(),
					ExtractionMs: extractionMs,
				})
				return
			}
			results = out

			if cc != nil && ttl > 0 {
				cc.Set(key, results)
				cacheStatus = "miss"
			}
		}

		// ── 4. Optional filter/sort ─────────────────────────────────
		if derive {
			results = rank.Derive(results, q, filters, sortKey)
		}

		c.JSON(http.StatusOK, models.SearchResponse{
			Success:     true,
			Count:       len(results),
			Results:     results,
			CacheStatus: cacheStatus,
			Timing: models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				ExtractionMs: extractionMs,
			},
		})
	}
}

// parseControls reads the optional filter/sort query params. The third
// return reports whether any control was supplied at all; with none, the
// merged list is returned untouched in extraction order.
func parseControls(c *gin.Context) (rank.Filters, rank.SortKey, bool, *models.ErrorDetail) {
	f := rank.Filters{Site: rank.SiteAll}
	key := rank.SortRelevance
	derive := false

	if v := c.Query("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, key, false, invalidParam("min_price")
		}
		f.MinPrice = p
		derive = true
	}
	if v := c.Query("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, key, false, invalidParam("max_price")
		}
		f.MaxPrice = p
		derive = true
	}
	if v := c.Query("min_rating"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, key, false, invalidParam("min_rating")
		}
		f.MinRating = r
		derive = true
	}
	if v := c.Query("site"); v != "" {
		f.Site = v
		derive = true
	}
	if v := c.Query("sort"); v != "" {
		if !rank.ValidSortKey(rank.SortKey(v)) {
			return f, key, false, invalidParam("sort")
		}
		key = rank.SortKey(v)
		derive = true
	}

	return f, key, derive, nil
}

func invalidParam(name string) *models.ErrorDetail {
	return &models.ErrorDetail{
		Code:    models.ErrCodeInvalidInput,
		Message: "invalid value for parameter " + name,
	}
}

// respondError maps an AggregateError to the correct HTTP status code and
// writes a structured JSON error response. The client receives a single
// generic failure; it never learns which individual site failed.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	aggErr, ok := err.(*models.AggregateError)
	if !ok {
		aggErr = models.NewAggregateError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(aggErr), models.SearchResponse{
		Success: false,
		Error:   aggErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.AggregateError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeBrowserLaunch, models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
