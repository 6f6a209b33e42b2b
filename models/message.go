package models

import "time"

type OutboundMessage struct {
	Title       string
	Link        string
	Description string
	Color       int
	Timestamp   time.Time
	ImageURL    string
}
