package models

import "time"

type FeedEntry struct {
	Title           string
	Link            string
	Published       string
	PublishedParsed *time.Time
	Thumbnails      []string
	MediaContent    []Media
	Description     string
}

type Media struct {
	URL  string
	Type string
}
