package matchers

import (
	"strings"
	"time"

	"github.com/kova98/feedhook/dates"
	"github.com/kova98/feedhook/enums"
	"github.com/kova98/feedhook/models"
)

// ProcessedSet answers whether a link has already been dispatched.
type ProcessedSet interface {
	Contains(link string) bool
}

type EntryFilter struct {
	SkipKeywords   []string
	MatchMode      enums.MatchMode
	SourceLocation *time.Location
	TargetLocation *time.Location
}

// Decision is the filter verdict for one entry. Published is only set when
// the date could be parsed.
type Decision struct {
	Outcome   enums.Outcome
	Published time.Time
	Keyword   string
}

// Check decides whether an entry should be skipped. An entry that survives
// every check comes back as enums.OutcomePending.
func (f EntryFilter) Check(entry models.FeedEntry, now time.Time, processed ProcessedSet) Decision {
	link := strings.TrimSpace(entry.Link)
	if link == "" {
		return Decision{Outcome: enums.OutcomeSkippedNoLink}
	}

	published, ok := dates.Parse(entry.Published, entry.PublishedParsed, f.SourceLocation)
	if !ok {
		return Decision{Outcome: enums.OutcomeSkippedUnparseableDate}
	}

	d := Decision{Published: published}
	if !dates.SameDay(published, now, f.TargetLocation) {
		d.Outcome = enums.OutcomeSkippedDate
		return d
	}

	if kw, hit := MatchingKeyword(entry.Title, f.SkipKeywords, f.MatchMode); hit {
		d.Outcome = enums.OutcomeSkippedKeyword
		d.Keyword = kw
		return d
	}

	if processed != nil && processed.Contains(link) {
		d.Outcome = enums.OutcomeSkippedProcessed
		return d
	}

	d.Outcome = enums.OutcomePending
	return d
}
