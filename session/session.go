// Package session owns the browser half of a single search: one Chromium
// process and one page, launched per incoming query, shared sequentially by
// every site adapter, and torn down when the query completes.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/fitscout/fitscout/config"
	"github.com/fitscout/fitscout/models"
)

// WaitStrategy selects how a navigation decides the page is settled.
type WaitStrategy string

const (
	// WaitNetworkIdle waits for network quiescence. Suited to
	// server-rendered sites where the markup arrives with the document.
	WaitNetworkIdle WaitStrategy = "network-idle"

	// WaitSelector waits until a known result-container selector appears.
	// Suited to client-rendered sites that hydrate results after load.
	WaitSelector WaitStrategy = "selector"

	// WaitDOMStable waits for the DOM to stop mutating. Best-effort
	// fallback for sites with no reliable idle or container signal.
	WaitDOMStable WaitStrategy = "dom-stable"
)

// Session is one browser process plus one page, exclusively owned by the
// aggregator for the span of a single query. Adapters receive it by
// reference and must not close or replace it.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	cfg     config.SessionConfig
}

// Open launches a headless browser, creates the shared page, and applies the
// outbound identity (user agent, Accept-Language) once for the session's
// lifetime. Launch failure is the only error class that escalates past the
// extraction core.
func Open(browserCfg config.BrowserConfig, sessionCfg config.SessionConfig) (*Session, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.Proxy != "" {
		l = l.Proxy(browserCfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewAggregateError(
			models.ErrCodeBrowserLaunch,
			"failed to launch browser",
			err,
		)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewAggregateError(
			models.ErrCodeBrowserLaunch,
			"failed to connect to browser",
			err,
		)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return nil, models.NewAggregateError(
			models.ErrCodeBrowserLaunch,
			"failed to create page",
			err,
		)
	}

	// Stealth JS must be installed before the first navigation.
	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth",
			"error", evalErr,
		)
	}

	// Outbound identity: set once, shared by all adapters in this session.
	if uaErr := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      sessionCfg.UserAgent,
		AcceptLanguage: sessionCfg.AcceptLanguage,
	}); uaErr != nil {
		slog.Warn("failed to set user agent override", "error", uaErr)
	}
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{
			"Accept-Language": sessionCfg.AcceptLanguage,
		}),
	}.Call(page)

	slog.Debug("extraction session opened", "controlURL", controlURL)

	return &Session{
		browser: browser,
		page:    page,
		cfg:     sessionCfg,
	}, nil
}

// Fetch navigates the shared page to target, waits for the site-appropriate
// settle signal, and returns the rendered HTML. The whole operation is
// bounded by timeout (capped by the configured maximum).
func (s *Session) Fetch(ctx context.Context, target string, wait WaitStrategy, waitSelector string, timeout time.Duration) (string, error) {
	if s.cfg.MaxNavTimeout > 0 && timeout > s.cfg.MaxNavTimeout {
		timeout = s.cfg.MaxNavTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := s.page.Context(ctx)

	// The idle listener must be registered before Navigate, otherwise
	// in-flight requests are missed and the wait returns a false idle.
	var waitIdle func()
	if wait == WaitNetworkIdle {
		waitIdle = p.WaitRequestIdle(300*time.Millisecond, nil, nil, nil)
	}

	if err := p.Navigate(target); err != nil {
		return "", categorizeError(err, "navigation to search URL failed")
	}

	switch wait {
	case WaitNetworkIdle:
		waitIdle()
	case WaitSelector:
		if _, err := p.Element(waitSelector); err != nil {
			return "", categorizeError(err, "result container never appeared")
		}
	default:
		if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
			slog.Debug("DOM did not stabilise, proceeding with current state",
				"url", target, "error", err,
			)
		}
	}

	html, err := p.HTML()
	if err != nil {
		return "", categorizeError(err, "failed to read rendered HTML")
	}
	return html, nil
}

// Close kills the browser process. The aggregator calls it exactly once per
// query, on every exit path.
func (s *Session) Close() {
	if err := s.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
	slog.Debug("extraction session closed")
}

// categorizeError wraps raw errors into typed AggregateErrors so callers can
// distinguish timeouts from navigation failures.
func categorizeError(err error, msg string) *models.AggregateError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewAggregateError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewAggregateError(models.ErrCodeTimeout, "navigation canceled", err)
	default:
		return models.NewAggregateError(models.ErrCodeNavigation, msg, err)
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
