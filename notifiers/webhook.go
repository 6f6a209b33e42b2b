package notifiers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/kova98/feedhook/models"
	"github.com/pkg/errors"
)

// DispatchError is returned when the webhook answers with a non-2xx status.
type DispatchError struct {
	StatusCode int
	Body       string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}

// Discord and Guilded both accept this body.
type webhookPayload struct {
	Content string                    `json:"content"`
	Embeds  []*discordgo.MessageEmbed `json:"embeds"`
}

type Webhook struct {
	url        string
	httpClient *http.Client
}

func NewWebhook(url string, httpClient *http.Client) *Webhook {
	return &Webhook{
		url:        url,
		httpClient: httpClient,
	}
}

func NewEmbed(msg models.OutboundMessage) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		URL:         msg.Link,
		Color:       msg.Color,
		Timestamp:   msg.Timestamp.Format(time.RFC3339),
	}
	if msg.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: msg.ImageURL}
	}
	return embed
}

// Send posts the message as a single embed.
func (w *Webhook) Send(ctx context.Context, msg models.OutboundMessage) error {
	body, err := json.Marshal(webhookPayload{Embeds: []*discordgo.MessageEmbed{NewEmbed(msg)}})
	if err != nil {
		return errors.Wrap(err, "encode webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "post webhook")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &DispatchError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	slog.Debug("webhook delivered", "title", msg.Title, "status", resp.StatusCode)
	return nil
}
