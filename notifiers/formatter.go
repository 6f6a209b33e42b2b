package notifiers

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/kova98/feedhook/enums"
	"github.com/kova98/feedhook/models"
	"golang.org/x/net/html"
)

const (
	maxTitleLength = 256
	ellipsis       = "…"
)

var DefaultStripTags = []string{"img", "br"}

// Formatter turns feed entries into webhook embeds.
type Formatter struct {
	Destination enums.Destination
	StripTags   []string
	Color       int
	Location    *time.Location
}

func (f Formatter) Format(entry models.FeedEntry, published time.Time) models.OutboundMessage {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	stripTags := f.StripTags
	if len(stripTags) == 0 {
		stripTags = DefaultStripTags
	}

	text := SanitizeDescription(entry.Description, stripTags)

	return models.OutboundMessage{
		Title:       Truncate(entry.Title, maxTitleLength),
		Link:        entry.Link,
		Description: withReadMore(text, entry.Link, f.Destination.MaxDescription()),
		Color:       f.Color,
		Timestamp:   published.In(loc),
		ImageURL:    ResolveThumbnail(entry),
	}
}

// withReadMore appends the read-more link, truncating the text so the whole
// description stays within limit.
func withReadMore(text, link string, limit int) string {
	readMore := fmt.Sprintf("[Read more](%s)", link)
	if text == "" {
		return readMore
	}
	suffix := "\n\n" + readMore
	budget := limit - utf8.RuneCountInString(suffix)
	if budget <= 0 {
		return readMore
	}
	return Truncate(text, budget) + suffix
}

// Truncate cuts s to at most max runes, ending with an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:max-1]), " \n") + ellipsis
}

// SanitizeDescription drops the given elements, including their content, and
// flattens what is left to plain text, one text run per line.
func SanitizeDescription(description string, stripTags []string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return strings.TrimSpace(description)
	}

	selectors := []string{"script", "style"}
	for _, tag := range stripTags {
		if tag = strings.TrimSpace(tag); tag != "" {
			selectors = append(selectors, tag)
		}
	}
	doc.Find(strings.Join(selectors, ", ")).Remove()

	var lines []string
	for _, n := range doc.Find("body").Nodes {
		lines = collectText(n, lines)
	}
	return strings.Join(lines, "\n")
}

func collectText(n *html.Node, lines []string) []string {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			lines = append(lines, t)
		}
		return lines
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		lines = collectText(c, lines)
	}
	return lines
}

// ResolveThumbnail prefers a media thumbnail, then the first image media
// content. An empty string means no image.
func ResolveThumbnail(entry models.FeedEntry) string {
	for _, u := range entry.Thumbnails {
		if u != "" {
			return u
		}
	}
	for _, m := range entry.MediaContent {
		if m.URL != "" && strings.HasPrefix(strings.ToLower(m.Type), "image/") {
			return m.URL
		}
	}
	return ""
}
