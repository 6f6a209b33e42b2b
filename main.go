package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"

	"github.com/kova98/feedhook/config"
	"github.com/kova98/feedhook/data"
	"github.com/kova98/feedhook/handlers"
	"github.com/kova98/feedhook/metrics"
	"github.com/kova98/feedhook/notifiers"
	"github.com/kova98/feedhook/sources"
)

var (
	envFile = flag.String("env", "", "path to an env file with feedhook settings")
	once    = flag.Bool("once", false, "scan every feed once and exit")
)

func main() {
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			slog.Error("failed to load env file", "path", *envFile, "error", err)
			os.Exit(1)
		}
	}

	if err := config.LoadConfig(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	opts := slog.HandlerOptions{Level: config.Config.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &opts))
	slog.SetDefault(logger)

	client, err := sources.NewHTTPClient(config.Config.ProxyURL, config.Config.HTTPTimeout)
	if err != nil {
		slog.Error("failed to create http client", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	source := sources.NewFeedSource(client, config.Config.UserAgent)

	scanners := make([]scanner, 0, len(config.Config.Feeds))
	for _, feed := range config.Config.Feeds {
		scanners = append(scanners, NewScanner(
			logger,
			feed,
			source,
			notifiers.NewWebhook(feed.WebhookURL, client),
			data.NewProcessedStore(feed.ProcessedFile),
			m,
			config.Config.PostDelay,
		))
		logger.Info("feed configured",
			"feed", feed.Name,
			"destination", feed.Destination,
			"skip_keywords", len(feed.SkipKeywords),
			"timezone", feed.DestinationTimezone.String(),
			"processed_file", feed.ProcessedFile)
	}
	poller := NewPoller(logger, config.Config.PollInterval, scanners...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if *once || config.Config.PollInterval == 0 {
		if !poller.RunOnce(ctx) {
			os.Exit(1)
		}
		return
	}

	var server *http.Server
	if config.Config.StatusAddr != "" {
		server = &http.Server{
			Addr:              config.Config.StatusAddr,
			Handler:           handlers.NewStatusMux(handlers.NewStatusHandler(poller), m.Registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("starting status server", "addr", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("failed to start status server", "error", err)
			}
		}()
	}

	poller.Start(ctx)

	slog.Info("Shutting down...")
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to stop status server", "error", err)
		}
	}
}
