package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"eapmetrics/internal/cache"
	"eapmetrics/internal/scoring"
)

// Watcher recomputes dashboards when new responses arrive. Events are
// batched per interval so a burst of submissions triggers one refresh per
// survey.
type Watcher struct {
	feed        cache.ChangeFeed
	reports     *ReportService
	broadcaster Broadcaster
	interval    time.Duration
	concurrency int
}

// NewWatcher creates a new watcher
func NewWatcher(feed cache.ChangeFeed, reports *ReportService, broadcaster Broadcaster, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{
		feed:        feed,
		reports:     reports,
		broadcaster: broadcaster,
		interval:    interval,
		concurrency: 4,
	}
}

// Run consumes the change feed until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	events, stop := w.feed.Subscribe(ctx)
	defer stop()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	pending := map[string]int{}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return ctx.Err()
			}
			pending[ev.SurveyID]++
		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			batch := pending
			pending = map[string]int{}
			w.flush(ctx, batch)
		}
	}
}

func (w *Watcher) flush(ctx context.Context, batch map[string]int) {
	ids := make([]string, 0, len(batch))
	for id := range batch {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if w.broadcaster != nil && w.broadcaster.DashboardCount(id) > 0 {
			w.broadcaster.BroadcastToDashboards(id, MsgResponseArrived, map[string]int{"count": batch[id]})
		}
	}
	if err := w.Refresh(ctx, ids...); err != nil {
		slog.Error("dashboard refresh failed", slog.String("error", err.Error()))
	}
}

// Refresh invalidates cached views of the given surveys and pushes a fresh
// unfiltered report to every connected dashboard.
func (w *Watcher) Refresh(ctx context.Context, surveyIDs ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, id := range surveyIDs {
		g.Go(func() error {
			if err := w.reports.Invalidate(gctx, id); err != nil {
				slog.Warn("cache invalidation failed", slog.String("surveyId", id), slog.String("error", err.Error()))
			}
			if w.broadcaster == nil || w.broadcaster.DashboardCount(id) == 0 {
				return nil
			}
			view, err := w.reports.Report(gctx, id, scoring.DemographicFilter{})
			if err != nil {
				slog.Error("report recompute failed", slog.String("surveyId", id), slog.String("error", err.Error()))
				return nil
			}
			w.broadcaster.BroadcastToDashboards(id, MsgReportUpdate, view)
			slog.Debug("dashboard refreshed", slog.String("surveyId", id))
			return nil
		})
	}
	return g.Wait()
}
