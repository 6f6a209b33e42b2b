package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kova98/feedhook/config"
	"github.com/kova98/feedhook/data"
	"github.com/kova98/feedhook/enums"
	"github.com/kova98/feedhook/matchers"
	"github.com/kova98/feedhook/metrics"
	"github.com/kova98/feedhook/models"
	"github.com/kova98/feedhook/notifiers"
	"github.com/kova98/feedhook/sources"
	"github.com/pkg/errors"
)

type feedFetcher interface {
	Fetch(ctx context.Context, url string) ([]models.FeedEntry, error)
}

type dispatcher interface {
	Send(ctx context.Context, msg models.OutboundMessage) error
}

// Scanner runs one feed through filter, format and dispatch.
type Scanner struct {
	logger    *slog.Logger
	feed      config.FeedConfig
	source    feedFetcher
	webhook   dispatcher
	store     *data.ProcessedStore
	metrics   *metrics.Metrics
	filter    matchers.EntryFilter
	formatter notifiers.Formatter
	postDelay time.Duration
	now       func() time.Time
}

func NewScanner(logger *slog.Logger, feed config.FeedConfig, source feedFetcher, webhook dispatcher, store *data.ProcessedStore, m *metrics.Metrics, postDelay time.Duration) *Scanner {
	return &Scanner{
		logger:  logger.With("feed", feed.Name),
		feed:    feed,
		source:  source,
		webhook: webhook,
		store:   store,
		metrics: m,
		filter: matchers.EntryFilter{
			SkipKeywords:   feed.SkipKeywords,
			MatchMode:      feed.SkipMatchMode,
			SourceLocation: feed.SourceTimezone,
			TargetLocation: feed.DestinationTimezone,
		},
		formatter: notifiers.Formatter{
			Destination: feed.Destination,
			StripTags:   feed.StripTags,
			Color:       feed.EmbedColor,
			Location:    feed.DestinationTimezone,
		},
		postDelay: postDelay,
		now:       time.Now,
	}
}

func (s *Scanner) Name() string {
	return s.feed.Name
}

// Scan makes one pass over the feed. Only a failure to load the processed
// set or to fetch the feed aborts the scan; entry failures are counted.
func (s *Scanner) Scan(ctx context.Context) (models.ScanSummary, error) {
	started := s.now()
	summary := models.NewScanSummary(uuid.NewString(), s.feed.Name, started)
	logger := s.logger.With("scan_id", summary.ScanID)

	err := s.scan(ctx, logger, &summary)
	summary.Duration = time.Since(started)
	if err != nil {
		summary.Error = sources.TruncateError(err).Error()
	}
	s.metrics.ObserveScan(s.feed.Name, err)

	logger.Info("scan finished",
		"seen", summary.Seen,
		"dispatched", summary.Dispatched,
		"failed", summary.Failed,
		"skipped", summary.SkippedTotal(),
		"duration_ms", summary.Duration.Milliseconds())

	return summary, err
}

func (s *Scanner) scan(ctx context.Context, logger *slog.Logger, summary *models.ScanSummary) error {
	if err := s.store.Load(); err != nil {
		return errors.Wrap(err, "scan: load processed entries")
	}

	entries, err := s.source.Fetch(ctx, s.feed.FeedURL)
	if err != nil {
		return errors.Wrap(err, "scan: fetch feed")
	}
	logger.Debug("feed fetched", "entries", len(entries), "processed", s.store.Len())

	now := s.now()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "scan: interrupted")
		}

		outcome := s.processEntry(ctx, logger, entry, now)
		summary.Record(outcome)
		s.metrics.ObserveEntry(s.feed.Name, outcome)
	}
	return nil
}

func (s *Scanner) processEntry(ctx context.Context, logger *slog.Logger, entry models.FeedEntry, now time.Time) enums.Outcome {
	decision := s.filter.Check(entry, now, s.store)

	switch decision.Outcome {
	case enums.OutcomePending:
	case enums.OutcomeSkippedKeyword:
		logger.Info("skipping entry", "reason", decision.Outcome, "title", entry.Title, "keyword", decision.Keyword)
		return decision.Outcome
	case enums.OutcomeSkippedUnparseableDate:
		logger.Warn("skipping entry", "reason", decision.Outcome, "title", entry.Title, "published", entry.Published)
		return decision.Outcome
	default:
		logger.Debug("skipping entry", "reason", decision.Outcome, "title", entry.Title)
		return decision.Outcome
	}

	msg := s.formatter.Format(entry, decision.Published)

	start := time.Now()
	err := s.webhook.Send(ctx, msg)
	s.metrics.ObserveDispatch(s.feed.Name, time.Since(start))
	if err != nil {
		logger.Error("failed to post entry", "title", entry.Title, "link", entry.Link, "error", sources.TruncateError(err))
		return enums.OutcomeFailed
	}

	// Posted but not recorded: the next scan will post it again.
	if err := s.store.Add(entry.Link); err != nil {
		logger.Error("failed to record posted entry", "title", entry.Title, "link", entry.Link, "file", s.store.Path(), "error", err)
		return enums.OutcomeFailed
	}

	logger.Info("posted entry", "title", entry.Title, "link", entry.Link)

	if s.postDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(s.postDelay):
		}
	}
	return enums.OutcomeDispatched
}
