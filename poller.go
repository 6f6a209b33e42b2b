package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/kova98/feedhook/models"
)

type scanner interface {
	Name() string
	Scan(ctx context.Context) (models.ScanSummary, error)
}

// Poller scans every feed in turn, then waits for the interval. Feeds are
// never scanned concurrently.
type Poller struct {
	logger   *slog.Logger
	scanners []scanner
	interval time.Duration

	mu   sync.RWMutex
	last map[string]models.ScanSummary
}

func NewPoller(logger *slog.Logger, interval time.Duration, scanners ...scanner) *Poller {
	return &Poller{
		logger:   logger,
		scanners: scanners,
		interval: interval,
		last:     make(map[string]models.ScanSummary),
	}
}

// RunOnce scans every feed once and reports whether all scans completed.
func (p *Poller) RunOnce(ctx context.Context) bool {
	ok := true
	for _, s := range p.scanners {
		if ctx.Err() != nil {
			return false
		}
		if err := p.scanSafely(ctx, s); err != nil {
			p.logger.Error("scan failed", "feed", s.Name(), "error", err)
			ok = false
		}
	}
	return ok
}

func (p *Poller) scanSafely(ctx context.Context, s scanner) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan panicked: %v", r)
			p.record(models.ScanSummary{Feed: s.Name(), StartedAt: time.Now(), Error: err.Error()})
		}
	}()

	summary, err := s.Scan(ctx)
	p.record(summary)
	return err
}

func (p *Poller) record(summary models.ScanSummary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last[summary.Feed] = summary
}

// Start scans until ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("starting feed polling", "feeds", len(p.scanners), "interval", p.interval.Seconds())

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopping feed polling")
			return
		case <-timer.C:
			p.RunOnce(ctx)
			timer.Reset(p.interval)
		}
	}
}

// Summaries returns the latest summary of each feed, ordered by feed name.
func (p *Poller) Summaries() []models.ScanSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]models.ScanSummary, 0, len(p.last))
	for _, s := range p.last {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Feed < out[j].Feed })
	return out
}
