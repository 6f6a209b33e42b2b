package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRSSFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Anime</title>
    <link>https://example.com</link>
    <item>
      <title>Show Y - Episode 1</title>
      <link>https://example.com/y/1</link>
      <description>&lt;p&gt;Hello&lt;br/&gt;world&lt;/p&gt;</description>
      <pubDate>Tue, 10 Jun 2025 13:00:00 GMT</pubDate>
      <media:thumbnail url="https://img.example.com/y-small.jpg" width="64"/>
      <media:thumbnail url="https://img.example.com/y-large.jpg" width="640"/>
    </item>
    <item>
      <title>Show Z</title>
      <link>https://example.com/z</link>
      <pubDate>Tue, 10 Jun 2025 12:00:00 +0000</pubDate>
      <media:content url="https://cdn.example.com/z.mp4" type="video/mp4"/>
      <media:content url="https://cdn.example.com/z.png" type="image/png"/>
    </item>
    <item>
      <title>Show G</title>
      <link>https://example.com/g</link>
      <pubDate>Tue, 10 Jun 2025 11:00:00 GMT</pubDate>
      <media:group>
        <media:thumbnail url="https://img.example.com/g.jpg"/>
      </media:group>
    </item>
  </channel>
</rss>`

const testAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Blog</title>
  <entry>
    <title>Atom entry</title>
    <link href="https://example.com/atom/1"/>
    <summary>Atom summary</summary>
    <updated>2025-06-10T09:00:00+08:00</updated>
  </entry>
</feed>`

const emptyRSSFeed = `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`

func setupFeedServer(status int, content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		fmt.Fprint(w, content)
	}))
}

func TestFetch_RSS(t *testing.T) {
	srv := setupFeedServer(http.StatusOK, testRSSFeed)
	defer srv.Close()

	entries, err := NewFeedSource(srv.Client(), "").Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	y := entries[0]
	assert.Equal(t, "Show Y - Episode 1", y.Title)
	assert.Equal(t, "https://example.com/y/1", y.Link)
	assert.Equal(t, "Tue, 10 Jun 2025 13:00:00 GMT", y.Published)
	assert.NotNil(t, y.PublishedParsed)
	assert.Equal(t, "<p>Hello<br/>world</p>", y.Description)
	assert.Equal(t, []string{"https://img.example.com/y-small.jpg", "https://img.example.com/y-large.jpg"}, y.Thumbnails)

	z := entries[1]
	assert.Empty(t, z.Thumbnails)
	require.Len(t, z.MediaContent, 2)
	assert.Equal(t, "video/mp4", z.MediaContent[0].Type)
	assert.Equal(t, "https://cdn.example.com/z.png", z.MediaContent[1].URL)

	g := entries[2]
	assert.Equal(t, []string{"https://img.example.com/g.jpg"}, g.Thumbnails)
}

func TestFetch_AtomUsesUpdated(t *testing.T) {
	srv := setupFeedServer(http.StatusOK, testAtomFeed)
	defer srv.Close()

	entries, err := NewFeedSource(srv.Client(), "").Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "https://example.com/atom/1", entries[0].Link)
	assert.Equal(t, "2025-06-10T09:00:00+08:00", entries[0].Published)
	assert.Equal(t, "Atom summary", entries[0].Description)
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		fmt.Fprint(w, testRSSFeed)
	}))
	defer srv.Close()

	_, err := NewFeedSource(srv.Client(), "custom-agent").Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "custom-agent", got)
}

func TestFetch_EmptyFeed(t *testing.T) {
	srv := setupFeedServer(http.StatusOK, emptyRSSFeed)
	defer srv.Close()

	_, err := NewFeedSource(srv.Client(), "").Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrEmptyFeed)
}

func TestFetch_BadStatus(t *testing.T) {
	srv := setupFeedServer(http.StatusBadGateway, "upstream down")
	defer srv.Close()

	_, err := NewFeedSource(srv.Client(), "").Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestFetch_InvalidDocument(t *testing.T) {
	srv := setupFeedServer(http.StatusOK, "not xml")
	defer srv.Close()

	_, err := NewFeedSource(srv.Client(), "").Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
