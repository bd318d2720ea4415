package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mintforge/internal/config"
	"mintforge/internal/services"
)

const userAgent = "mintforge/0.1.0"

// Event enumerates notification kinds.
type Event string

const (
	EventBatchStarted   Event = "batch_started"
	EventBatchCompleted Event = "batch_completed"
	EventItemFailed     Event = "item_failed"
	EventOrphanedMint   Event = "orphaned_mint"
	EventTestNotify     Event = "test"
)

// Payload carries event-specific values. Known keys:
//
//	collection, total, succeeded, failed, skipped, duration, row, name, error, transaction
type Payload map[string]any

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewNtfyService(topic, cfg.Notifications, &http.Client{Timeout: timeout})
}

// NewNtfyService publishes to endpoint using client, honouring the toggles in settings.
func NewNtfyService(endpoint string, settings config.Notifications, client services.HTTPDoer) Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &ntfyService{endpoint: endpoint, settings: settings, client: client}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	settings config.Notifications
	client   services.HTTPDoer
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if n == nil || n.client == nil {
		return nil
	}
	if !n.enabled(event, payload) {
		return nil
	}
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) enabled(event Event, payload Payload) bool {
	switch event {
	case EventBatchStarted:
		return n.settings.BatchStarted && payloadInt(payload, "total") >= n.settings.MinItems
	case EventBatchCompleted:
		return n.settings.BatchCompleted && payloadInt(payload, "total") >= n.settings.MinItems
	case EventItemFailed, EventOrphanedMint:
		return n.settings.Errors
	case EventTestNotify:
		return true
	default:
		return false
	}
}

func format(event Event, payload Payload) (message, bool) {
	collection := payloadString(payload, "collection")
	switch event {
	case EventBatchStarted:
		return message{
			title: "mintforge - Batch Started",
			body:  fmt.Sprintf("Minting %d items into %s", payloadInt(payload, "total"), labelOr(collection, "collection")),
			tags:  []string{"mintforge", "batch", "started"},
		}, true
	case EventBatchCompleted:
		failed := payloadInt(payload, "failed")
		skipped := payloadInt(payload, "skipped")
		duration := payloadDuration(payload, "duration")
		msg := message{
			title: "mintforge - Batch Complete",
			body: fmt.Sprintf("%s: %d minted, %d failed, %d skipped in %s",
				labelOr(collection, "Batch"), payloadInt(payload, "succeeded"), failed, skipped, duration),
			tags: []string{"mintforge", "batch", "completed"},
		}
		if failed > 0 {
			msg.title = "mintforge - Batch Complete (with errors)"
			msg.tags = []string{"mintforge", "batch", "warning"}
		}
		return msg, true
	case EventItemFailed:
		return message{
			title:    "mintforge - Item Failed",
			body:     fmt.Sprintf("Row %d (%s) failed: %s", payloadInt(payload, "row"), payloadString(payload, "name"), labelOr(payloadString(payload, "error"), "unknown")),
			tags:     []string{"mintforge", "error"},
			priority: "high",
		}, true
	case EventOrphanedMint:
		return message{
			title:    "mintforge - Minted Without Record",
			body:     fmt.Sprintf("Row %d (%s) minted in %s but the record was not saved; reconcile manually", payloadInt(payload, "row"), payloadString(payload, "name"), labelOr(payloadString(payload, "transaction"), "unknown transaction")),
			tags:     []string{"mintforge", "error", "alert"},
			priority: "urgent",
		}, true
	case EventTestNotify:
		return message{
			title:    "mintforge - Test",
			body:     "Notification system test",
			tags:     []string{"mintforge", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, data message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }

func payloadString(p Payload, key string) string {
	if p == nil {
		return ""
	}
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func payloadInt(p Payload, key string) int {
	if p == nil {
		return 0
	}
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func payloadDuration(p Payload, key string) time.Duration {
	d, _ := p[key].(time.Duration)
	d = d.Round(time.Second)
	if d < 0 {
		d = 0
	}
	return d
}

func labelOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
