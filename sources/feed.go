package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kova98/feedhook/models"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/pkg/errors"
)

var ErrEmptyFeed = errors.New("no entries found in feed")

type FeedSource struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	userAgent  string
}

func NewFeedSource(httpClient *http.Client, userAgent string) *FeedSource {
	return &FeedSource{
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		userAgent:  userAgent,
	}
}

// Fetch downloads and parses the feed, returning its entries in feed order.
func (s *FeedSource) Fetch(ctx context.Context, url string) ([]models.FeedEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build feed request")
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch feed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, string(body))
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse feed")
	}
	if len(feed.Items) == 0 {
		return nil, ErrEmptyFeed
	}

	entries := make([]models.FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, toEntry(item))
	}
	return entries, nil
}

func toEntry(item *gofeed.Item) models.FeedEntry {
	entry := models.FeedEntry{
		Title:           strings.TrimSpace(item.Title),
		Link:            strings.TrimSpace(item.Link),
		Published:       item.Published,
		PublishedParsed: item.PublishedParsed,
		Description:     item.Description,
	}
	if entry.Link == "" && len(item.Links) > 0 {
		entry.Link = strings.TrimSpace(item.Links[0])
	}
	if entry.Published == "" && entry.PublishedParsed == nil {
		entry.Published = item.Updated
		entry.PublishedParsed = item.UpdatedParsed
	}
	if entry.Description == "" {
		entry.Description = item.Content
	}

	media := item.Extensions["media"]
	entry.Thumbnails = mediaThumbnails(media)
	entry.MediaContent = mediaContent(media)
	return entry
}

// media:thumbnail and media:content may sit directly on the item or inside media:group.
func mediaElements(media map[string][]ext.Extension, name string) []ext.Extension {
	if media == nil {
		return nil
	}
	elems := append([]ext.Extension(nil), media[name]...)
	for _, group := range media["group"] {
		elems = append(elems, group.Children[name]...)
	}
	return elems
}

func mediaThumbnails(media map[string][]ext.Extension) []string {
	var urls []string
	for _, e := range mediaElements(media, "thumbnail") {
		if u := strings.TrimSpace(e.Attrs["url"]); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func mediaContent(media map[string][]ext.Extension) []models.Media {
	var content []models.Media
	for _, e := range mediaElements(media, "content") {
		u := strings.TrimSpace(e.Attrs["url"])
		if u == "" {
			continue
		}
		content = append(content, models.Media{URL: u, Type: strings.TrimSpace(e.Attrs["type"])})
	}
	return content
}
