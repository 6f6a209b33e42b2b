package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kova98/feedhook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScanner struct {
	name  string
	err   error
	panic bool
	runs  atomic.Int32
}

func (f *fakeScanner) Name() string { return f.name }

func (f *fakeScanner) Scan(ctx context.Context) (models.ScanSummary, error) {
	f.runs.Add(1)
	if f.panic {
		panic("boom")
	}
	s := models.NewScanSummary("id", f.name, time.Now())
	if f.err != nil {
		s.Error = f.err.Error()
	}
	return s, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce_ScansEveryFeed(t *testing.T) {
	a := &fakeScanner{name: "a"}
	b := &fakeScanner{name: "b"}
	p := NewPoller(discardLogger(), time.Minute, a, b)

	assert.True(t, p.RunOnce(context.Background()))
	assert.Equal(t, int32(1), a.runs.Load())
	assert.Equal(t, int32(1), b.runs.Load())

	summaries := p.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, "a", summaries[0].Feed)
	assert.Equal(t, "b", summaries[1].Feed)
}

func TestRunOnce_ContinuesAfterFailureAndPanic(t *testing.T) {
	failing := &fakeScanner{name: "a", err: errors.New("fetch feed: timeout")}
	panicking := &fakeScanner{name: "b", panic: true}
	healthy := &fakeScanner{name: "c"}
	p := NewPoller(discardLogger(), time.Minute, failing, panicking, healthy)

	assert.False(t, p.RunOnce(context.Background()))
	assert.Equal(t, int32(1), healthy.runs.Load())

	summaries := p.Summaries()
	require.Len(t, summaries, 3)
	assert.Equal(t, "fetch feed: timeout", summaries[0].Error)
	assert.Contains(t, summaries[1].Error, "panicked")
	assert.Empty(t, summaries[2].Error)
}

func TestRunOnce_StopsWhenCancelled(t *testing.T) {
	a := &fakeScanner{name: "a"}
	p := NewPoller(discardLogger(), time.Minute, a)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, p.RunOnce(ctx))
	assert.Equal(t, int32(0), a.runs.Load())
}

func TestStart_RepeatsUntilCancelled(t *testing.T) {
	a := &fakeScanner{name: "a"}
	p := NewPoller(discardLogger(), 10*time.Millisecond, a)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return a.runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}
