package models

import (
	"time"

	"github.com/kova98/feedhook/enums"
)

type ScanSummary struct {
	ScanID     string                `json:"scanId"`
	Feed       string                `json:"feed"`
	StartedAt  time.Time             `json:"startedAt"`
	Duration   time.Duration         `json:"durationNs"`
	Seen       int                   `json:"seen"`
	Dispatched int                   `json:"dispatched"`
	Failed     int                   `json:"failed"`
	Skipped    map[enums.Outcome]int `json:"skipped"`
	Error      string                `json:"error,omitempty"`
}

func NewScanSummary(scanID, feed string, startedAt time.Time) ScanSummary {
	return ScanSummary{
		ScanID:    scanID,
		Feed:      feed,
		StartedAt: startedAt,
		Skipped:   make(map[enums.Outcome]int),
	}
}

// Record counts a single entry outcome.
func (s *ScanSummary) Record(o enums.Outcome) {
	s.Seen++
	switch {
	case o == enums.OutcomeDispatched:
		s.Dispatched++
	case o == enums.OutcomeFailed:
		s.Failed++
	case o.Skipped():
		s.Skipped[o]++
	}
}

func (s ScanSummary) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}
