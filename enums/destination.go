package enums

import (
	"net/url"
	"strings"
)

type Destination string

const (
	DestinationInvalid Destination = ""
	DestinationDiscord Destination = "discord"
	DestinationGuilded Destination = "guilded"
)

// MaxDescription is the longest embed description the destination accepts, in runes.
func (d Destination) MaxDescription() int {
	if d == DestinationGuilded {
		return 2048
	}
	return 4096
}

func ParseDestination(s string) Destination {
	switch Destination(strings.ToLower(strings.TrimSpace(s))) {
	case DestinationDiscord:
		return DestinationDiscord
	case DestinationGuilded:
		return DestinationGuilded
	default:
		return DestinationInvalid
	}
}

// DestinationFromURL guesses the destination from the webhook host and
// defaults to Discord.
func DestinationFromURL(webhookURL string) Destination {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return DestinationDiscord
	}
	if strings.HasSuffix(u.Hostname(), "guilded.gg") {
		return DestinationGuilded
	}
	return DestinationDiscord
}
