package enums

type MatchMode string

const (
	MatchModeInvalid MatchMode = ""

	// MatchModeBroad skips a title when the keyword appears anywhere in it.
	// For example, the keyword "Dub" will match "(French Dub)" and "Dubbed".
	MatchModeBroad MatchMode = "broad"

	// MatchModeExact requires the keyword to appear as a whole word.
	// For example, the keyword "Dub" will match "(French Dub)" but not "Dubbed".
	MatchModeExact MatchMode = "exact"
)

func ParseMatchMode(s string) MatchMode {
	switch MatchMode(s) {
	case MatchModeBroad, "":
		return MatchModeBroad
	case MatchModeExact:
		return MatchModeExact
	default:
		return MatchModeInvalid
	}
}
