package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"ledger/internal/analytics"
	"ledger/internal/core"
)

// summaryTimeframe resolves the timeframe query parameter for the summary
// endpoint. Unrecognized values fall back to month rather than failing, so
// the dashboard always renders something.
func summaryTimeframe(r *http.Request) analytics.Timeframe {
	raw := r.URL.Query().Get("timeframe")
	if raw == "" {
		return analytics.TimeframeMonth
	}
	tf, err := analytics.ParseTimeframe(raw)
	if err != nil {
		slog.WarnContext(r.Context(), "Unrecognized timeframe, using month",
			"timeframe", raw)
		return analytics.TimeframeMonth
	}
	return tf
}

// chartArgs resolves timeframe and mode for the chart endpoints. Unlike the
// summary, charts reject invalid values outright.
func chartArgs(r *http.Request) (analytics.Timeframe, analytics.Mode, error) {
	tf := analytics.TimeframeMonth
	if raw := r.URL.Query().Get("timeframe"); raw != "" {
		var err error
		tf, err = analytics.ParseTimeframe(raw)
		if err != nil {
			return "", "", err
		}
	}

	mode := analytics.ModeHybrid
	if raw := r.URL.Query().Get("type"); raw != "" {
		var err error
		mode, err = analytics.ParseMode(raw)
		if err != nil {
			return "", "", err
		}
	}

	return tf, mode, nil
}

// snapshot loads the entries spanning the current and comparison windows of
// the timeframe.
func (s *Server) snapshot(ctx context.Context, tf analytics.Timeframe) ([]core.Transaction, error) {
	current, previous := analytics.ResolvePeriods(tf, s.now())
	rng := &core.DateRange{
		From: core.DateOf(previous.Start),
		To:   core.DateOf(current.End),
	}
	return s.entries.List(ctx, rng)
}

// cached serves a marshaled analytics response from the LRU, building and
// storing it on a miss.
func (s *Server) cached(key string, build func() (any, error)) ([]byte, error) {
	if body, ok := s.analyticsCache.Get(key); ok {
		return body, nil
	}

	v, err := build()
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}

	s.analyticsCache.Set(key, body)
	return body, nil
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	tf := summaryTimeframe(r)
	ref := s.now()
	key := fmt.Sprintf("summary:%s:%s", tf, core.DateOf(ref).ISO())

	body, err := s.cached(key, func() (any, error) {
		txs, err := s.snapshot(r.Context(), tf)
		if err != nil {
			return nil, err
		}
		return analytics.BuildSummary(txs, tf, ref)
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeRawJSON(w, http.StatusOK, body)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	tf, mode, err := chartArgs(r)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	ref := s.now()
	key := fmt.Sprintf("trend:%s:%s:%s", tf, mode, core.DateOf(ref).ISO())

	body, err := s.cached(key, func() (any, error) {
		txs, err := s.snapshot(r.Context(), tf)
		if err != nil {
			return nil, err
		}
		return analytics.BuildTrendSeries(txs, tf, mode, ref)
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeRawJSON(w, http.StatusOK, body)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	tf, mode, err := chartArgs(r)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	ref := s.now()
	key := fmt.Sprintf("categories:%s:%s:%s", tf, mode, core.DateOf(ref).ISO())

	body, err := s.cached(key, func() (any, error) {
		txs, err := s.snapshot(r.Context(), tf)
		if err != nil {
			return nil, err
		}
		return analytics.BuildCategorySeries(txs, tf, mode, ref)
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeRawJSON(w, http.StatusOK, body)
}

type dashboardResponse struct {
	Summary    analytics.Summary        `json:"summary"`
	Trend      analytics.TrendSeries    `json:"trend"`
	Categories analytics.CategorySeries `json:"categories"`
}

// handleDashboard assembles the three dashboard payloads from one snapshot.
// The builders are pure, so they run concurrently over the shared slice.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	tf, mode, err := chartArgs(r)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	ref := s.now()

	txs, err := s.snapshot(r.Context(), tf)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	var resp dashboardResponse
	g, _ := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		resp.Summary, err = analytics.BuildSummary(txs, tf, ref)
		return err
	})
	g.Go(func() error {
		var err error
		resp.Trend, err = analytics.BuildTrendSeries(txs, tf, mode, ref)
		return err
	})
	g.Go(func() error {
		var err error
		resp.Categories, err = analytics.BuildCategorySeries(txs, tf, mode, ref)
		return err
	})
	if err := g.Wait(); err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
