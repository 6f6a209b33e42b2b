package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kova98/feedhook/enums"
	"muzzammil.xyz/jsonc"
)

const (
	DefaultProcessedFile = "processed_entries.txt"
	DefaultUserAgent     = "feedhook/1.0"
	DefaultEmbedColor    = 0x00FFFF
)

type FeedConfig struct {
	Name                string
	FeedURL             string
	WebhookURL          string
	Destination         enums.Destination
	SkipKeywords        []string
	SkipMatchMode       enums.MatchMode
	SourceTimezone      *time.Location
	DestinationTimezone *time.Location
	ProcessedFile       string
	StripTags           []string
	EmbedColor          int
}

type AppConfig struct {
	Feeds        []FeedConfig
	PollInterval time.Duration // zero means run once
	PostDelay    time.Duration
	HTTPTimeout  time.Duration
	ProxyURL     string
	UserAgent    string
	StatusAddr   string
	LogLevel     slog.Level
}

var Config AppConfig

// LoadConfig reads the process environment into Config.
func LoadConfig() error {
	cfg, err := Load(os.Getenv)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Load builds an AppConfig from getenv. All validation problems are returned
// together.
func Load(getenv func(string) string) (AppConfig, error) {
	l := loader{getenv: getenv}
	cfg := AppConfig{}

	cfg.PollInterval = time.Duration(l.integer("POLL_INTERVAL_SECONDS", 60)) * time.Second
	cfg.PostDelay = time.Duration(l.integer("POST_DELAY_MS", 0)) * time.Millisecond
	cfg.HTTPTimeout = time.Duration(l.integer("HTTP_TIMEOUT_SECONDS", 30)) * time.Second
	cfg.ProxyURL = l.optional("PROXY_URL", "")
	cfg.UserAgent = l.optional("USER_AGENT", DefaultUserAgent)
	cfg.StatusAddr = l.optional("STATUS_ADDR", "")

	if cfg.PollInterval < 0 {
		l.fail(fmt.Errorf("POLL_INTERVAL_SECONDS must not be negative"))
	}
	if cfg.PostDelay < 0 {
		l.fail(fmt.Errorf("POST_DELAY_MS must not be negative"))
	}
	if cfg.HTTPTimeout <= 0 {
		l.fail(fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive"))
	}

	lvlString := l.optional("LOG_LEVEL", "INFO")
	var err error
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	defaults := l.feedDefaults()

	feedsFile := l.optional("FEEDS_FILE", "")
	if feedsFile != "" {
		cfg.Feeds = l.feedsFromFile(feedsFile, defaults)
	} else {
		feed := defaults
		feed.Name = l.optional("FEED_NAME", "default")
		feed.FeedURL = l.required("FEED_URL")
		feed.WebhookURL = l.required("WEBHOOK_URL")
		feed.ProcessedFile = l.optional("PROCESSED_FILE", DefaultProcessedFile)
		if feed.Destination == enums.DestinationInvalid && feed.WebhookURL != "" {
			feed.Destination = enums.DestinationFromURL(feed.WebhookURL)
		}
		cfg.Feeds = []FeedConfig{feed}
	}

	validateFeeds(&l, cfg.Feeds, feedsFile != "")

	if len(l.errs) > 0 {
		return AppConfig{}, errors.Join(l.errs...)
	}
	return cfg, nil
}

type loader struct {
	getenv func(string) string
	errs   []error
}

func (l *loader) fail(err error) {
	l.errs = append(l.errs, err)
}

func (l *loader) required(key string) string {
	value := strings.TrimSpace(l.getenv(key))
	if value == "" {
		l.fail(fmt.Errorf("required env var %s not set", key))
	}
	return value
}

func (l *loader) optional(key, defaultValue string) string {
	value := strings.TrimSpace(l.getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func (l *loader) integer(key string, defaultValue int) int {
	value := l.optional(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		l.fail(fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func (l *loader) location(key string) *time.Location {
	name := l.optional(key, "UTC")
	loc, err := time.LoadLocation(name)
	if err != nil {
		l.fail(fmt.Errorf("%s: %w", key, err))
		return time.UTC
	}
	return loc
}

// feedDefaults holds the env values every feed inherits.
func (l *loader) feedDefaults() FeedConfig {
	feed := FeedConfig{
		SkipKeywords:        splitList(l.getenv("SKIP_KEYWORDS"), "|"),
		SkipMatchMode:       enums.ParseMatchMode(l.optional("SKIP_MATCH_MODE", string(enums.MatchModeBroad))),
		SourceTimezone:      l.location("SOURCE_TIMEZONE"),
		DestinationTimezone: l.location("DESTINATION_TIMEZONE"),
		StripTags:           splitList(l.optional("STRIP_TAGS", "img,br"), ","),
		EmbedColor:          DefaultEmbedColor,
	}
	if d := l.optional("DESTINATION", ""); d != "" {
		feed.Destination = enums.ParseDestination(d)
		if feed.Destination == enums.DestinationInvalid {
			l.fail(fmt.Errorf("DESTINATION: unknown destination %q", d))
		}
	}
	if c := l.optional("EMBED_COLOR", ""); c != "" {
		color, err := parseColor(c)
		if err != nil {
			l.fail(fmt.Errorf("EMBED_COLOR: %w", err))
		} else {
			feed.EmbedColor = color
		}
	}
	return feed
}

type feedList struct {
	Feeds []feedFileEntry `json:"feeds"`
}

type feedFileEntry struct {
	Name                string   `json:"name"`
	FeedURL             string   `json:"feed_url"`
	WebhookURL          string   `json:"webhook_url"`
	Destination         string   `json:"destination"`
	SkipKeywords        []string `json:"skip_keywords"`
	SkipMatchMode       string   `json:"skip_match_mode"`
	SourceTimezone      string   `json:"source_timezone"`
	DestinationTimezone string   `json:"destination_timezone"`
	ProcessedFile       string   `json:"processed_file"`
	StripTags           []string `json:"strip_tags"`
	EmbedColor          string   `json:"embed_color"`
}

func (l *loader) feedsFromFile(path string, defaults FeedConfig) []FeedConfig {
	raw, err := os.ReadFile(path)
	if err != nil {
		l.fail(fmt.Errorf("FEEDS_FILE: %w", err))
		return nil
	}

	var file feedList
	if err := jsonc.Unmarshal(raw, &file); err != nil {
		l.fail(fmt.Errorf("FEEDS_FILE %s: %w", path, err))
		return nil
	}
	if len(file.Feeds) == 0 {
		l.fail(fmt.Errorf("FEEDS_FILE %s: no feeds defined", path))
		return nil
	}

	feeds := make([]FeedConfig, 0, len(file.Feeds))
	for i, e := range file.Feeds {
		feed := defaults
		feed.Name = strings.TrimSpace(e.Name)
		if feed.Name == "" {
			feed.Name = fmt.Sprintf("feed-%d", i+1)
		}
		feed.FeedURL = strings.TrimSpace(e.FeedURL)
		feed.WebhookURL = strings.TrimSpace(e.WebhookURL)

		if e.Destination != "" {
			feed.Destination = enums.ParseDestination(e.Destination)
			if feed.Destination == enums.DestinationInvalid {
				l.fail(fmt.Errorf("feed %s: unknown destination %q", feed.Name, e.Destination))
			}
		}
		if feed.Destination == enums.DestinationInvalid && feed.WebhookURL != "" {
			feed.Destination = enums.DestinationFromURL(feed.WebhookURL)
		}
		if e.SkipKeywords != nil {
			feed.SkipKeywords = e.SkipKeywords
		}
		if e.SkipMatchMode != "" {
			feed.SkipMatchMode = enums.ParseMatchMode(e.SkipMatchMode)
		}
		if e.SourceTimezone != "" {
			feed.SourceTimezone = l.feedLocation(feed.Name, e.SourceTimezone)
		}
		if e.DestinationTimezone != "" {
			feed.DestinationTimezone = l.feedLocation(feed.Name, e.DestinationTimezone)
		}
		if e.StripTags != nil {
			feed.StripTags = e.StripTags
		}
		if e.EmbedColor != "" {
			color, err := parseColor(e.EmbedColor)
			if err != nil {
				l.fail(fmt.Errorf("feed %s: embed_color: %w", feed.Name, err))
			} else {
				feed.EmbedColor = color
			}
		}

		feed.ProcessedFile = strings.TrimSpace(e.ProcessedFile)
		if feed.ProcessedFile == "" {
			feed.ProcessedFile = fmt.Sprintf("processed_entries_%s.txt", feed.Name)
		}
		if !filepath.IsAbs(feed.ProcessedFile) {
			feed.ProcessedFile = filepath.Join(filepath.Dir(path), feed.ProcessedFile)
		}

		feeds = append(feeds, feed)
	}
	return feeds
}

func (l *loader) feedLocation(feed, name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		l.fail(fmt.Errorf("feed %s: %w", feed, err))
		return time.UTC
	}
	return loc
}

func validateFeeds(l *loader, feeds []FeedConfig, fromFile bool) {
	names := make(map[string]bool)
	files := make(map[string]bool)
	for _, f := range feeds {
		if names[f.Name] {
			l.fail(fmt.Errorf("feed %s: duplicate name", f.Name))
		}
		names[f.Name] = true

		if files[f.ProcessedFile] {
			l.fail(fmt.Errorf("feed %s: processed file %s is shared with another feed", f.Name, f.ProcessedFile))
		}
		files[f.ProcessedFile] = true

		if f.SkipMatchMode == enums.MatchModeInvalid {
			l.fail(fmt.Errorf("feed %s: unknown skip match mode", f.Name))
		}
		// Env mode already reported the missing variable.
		if fromFile && (f.FeedURL == "" || f.WebhookURL == "") {
			l.fail(fmt.Errorf("feed %s: feed_url and webhook_url are required", f.Name))
		}
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func parseColor(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	base := 0
	if len(s) == 6 && !strings.HasPrefix(s, "0x") {
		base = 16
	}
	n, err := strconv.ParseInt(s, base, 32)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 0xFFFFFF {
		return 0, fmt.Errorf("color %s out of range", s)
	}
	// Webhooks drop a zero color; the closest black is 0x000001.
	if n == 0 {
		return 0, fmt.Errorf("color %s is not sent by webhooks, use 0x000001 for black", s)
	}
	return int(n), nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
