// Package webhook posts sanction audit events to a Discord channel.
package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cs-admin/internal/crash"
	"cs-admin/internal/logger"
	"cs-admin/internal/models"
)

const (
	colorBan    = 0xE74C3C
	colorRevoke = 0x2ECC71
	colorMute   = 0xE67E22
	colorGag    = 0xF1C40F
	colorKick   = 0x95A5A6
)

type payload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title     string  `json:"title"`
	Color     int     `json:"color"`
	Fields    []field `json:"fields"`
	Timestamp string  `json:"timestamp"`
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Notifier posts embeds to one webhook URL. An empty URL disables it,
// every Notify call becomes a no-op.
type Notifier struct {
	url    string
	client *http.Client
}

// NewNotifier creates a notifier for url.
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// NotifySanction announces a new ban, mute or gag.
func (n *Notifier) NotifySanction(kind models.SanctionKind, targetName string, record *models.SanctionRecord) {
	color := colorBan
	switch kind {
	case models.KindMute:
		color = colorMute
	case models.KindGag:
		color = colorGag
	}

	duration := models.Message("duration_permanent")
	if !record.IsPermanent() {
		duration = models.Message("duration_minutes", record.RemainingMinutes())
	}

	n.send(embed{
		Title: fmt.Sprintf("Player %s", kindVerb(kind)),
		Color: color,
		Fields: []field{
			{Name: "Player", Value: fmt.Sprintf("%s (%d)", targetName, record.SteamID), Inline: true},
			{Name: "Admin", Value: record.AdminName, Inline: true},
			{Name: "Duration", Value: duration, Inline: true},
			{Name: "Reason", Value: orNoReason(record.Reason), Inline: false},
		},
	})
}

// NotifyRevoke announces an unban, unmute or ungag.
func (n *Notifier) NotifyRevoke(kind models.SanctionKind, adminName string, steamID uint64, reason string) {
	n.send(embed{
		Title: fmt.Sprintf("%s revoked", kindTitle(kind)),
		Color: colorRevoke,
		Fields: []field{
			{Name: "Player", Value: fmt.Sprintf("%d", steamID), Inline: true},
			{Name: "Admin", Value: adminName, Inline: true},
			{Name: "Reason", Value: orNoReason(reason), Inline: false},
		},
	})
}

// NotifyKick announces a kick.
func (n *Notifier) NotifyKick(adminName, targetName string, steamID uint64, reason string) {
	n.send(embed{
		Title: "Player kicked",
		Color: colorKick,
		Fields: []field{
			{Name: "Player", Value: fmt.Sprintf("%s (%d)", targetName, steamID), Inline: true},
			{Name: "Admin", Value: adminName, Inline: true},
			{Name: "Reason", Value: orNoReason(reason), Inline: false},
		},
	})
}

// send posts the embed in the background. Delivery failures are
// logged and swallowed.
func (n *Notifier) send(e embed) {
	if !n.Enabled() {
		return
	}
	e.Timestamp = time.Now().UTC().Format(time.RFC3339)

	crash.SafeGoroutine("webhook-send", func() {
		body, err := json.Marshal(payload{Embeds: []embed{e}})
		if err != nil {
			logger.Errorf("Failed to encode webhook payload: %v", err)
			return
		}

		resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
		if err != nil {
			logger.Warningf("Webhook delivery failed: %v", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			logger.Warningf("Webhook rejected with status %d", resp.StatusCode)
		}
	})
}

func kindVerb(kind models.SanctionKind) string {
	switch kind {
	case models.KindMute:
		return "muted"
	case models.KindGag:
		return "gagged"
	default:
		return "banned"
	}
}

func kindTitle(kind models.SanctionKind) string {
	switch kind {
	case models.KindMute:
		return "Mute"
	case models.KindGag:
		return "Gag"
	default:
		return "Ban"
	}
}

func orNoReason(reason string) string {
	if reason == "" {
		return models.Message("no_reason")
	}
	return reason
}
