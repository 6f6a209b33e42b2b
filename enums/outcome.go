package enums

// Outcome is what happened to a single feed entry during a scan.
type Outcome string

const (
	OutcomePending                Outcome = "pending"
	OutcomeDispatched             Outcome = "dispatched"
	OutcomeFailed                 Outcome = "failed"
	OutcomeSkippedNoLink          Outcome = "skipped_no_link"
	OutcomeSkippedUnparseableDate Outcome = "skipped_unparseable_date"
	OutcomeSkippedDate            Outcome = "skipped_date"
	OutcomeSkippedKeyword         Outcome = "skipped_keyword"
	OutcomeSkippedProcessed       Outcome = "skipped_processed"
)

func (o Outcome) Skipped() bool {
	switch o {
	case OutcomeSkippedNoLink, OutcomeSkippedUnparseableDate, OutcomeSkippedDate,
		OutcomeSkippedKeyword, OutcomeSkippedProcessed:
		return true
	}
	return false
}
