package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mintforge/internal/config"
	"mintforge/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notifications.EventBatchStarted, notifications.Payload{"total": 3}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		event          notifications.Event
		payload        notifications.Payload
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name:          "batch started",
			event:         notifications.EventBatchStarted,
			payload:       notifications.Payload{"collection": "Cool Cats", "total": 12},
			expectTitle:   "mintforge - Batch Started",
			expectMessage: "Minting 12 items into Cool Cats",
			expectTags:    "mintforge,batch,started",
		},
		{
			name:  "batch completed clean",
			event: notifications.EventBatchCompleted,
			payload: notifications.Payload{
				"collection": "Cool Cats", "total": 3, "succeeded": 3, "failed": 0, "skipped": 1,
				"duration": 90*time.Second + 400*time.Millisecond,
			},
			expectTitle:   "mintforge - Batch Complete",
			expectMessage: "Cool Cats: 3 minted, 0 failed, 1 skipped in 1m30s",
			expectTags:    "mintforge,batch,completed",
		},
		{
			name:  "batch completed with failures",
			event: notifications.EventBatchCompleted,
			payload: notifications.Payload{
				"total": 3, "succeeded": 1, "failed": 2, "duration": 2 * time.Second,
			},
			expectTitle:   "mintforge - Batch Complete (with errors)",
			expectMessage: "Batch: 1 minted, 2 failed, 0 skipped in 2s",
			expectTags:    "mintforge,batch,warning",
		},
		{
			name:           "item failed",
			event:          notifications.EventItemFailed,
			payload:        notifications.Payload{"row": 4, "name": "Cat #4", "error": errors.New("upload failed: 503")},
			expectTitle:    "mintforge - Item Failed",
			expectMessage:  "Row 4 (Cat #4) failed: upload failed: 503",
			expectTags:     "mintforge,error",
			expectPriority: "high",
		},
		{
			name:           "orphaned mint",
			event:          notifications.EventOrphanedMint,
			payload:        notifications.Payload{"row": 2, "name": "Cat #2", "transaction": "0xtx"},
			expectTitle:    "mintforge - Minted Without Record",
			expectMessage:  "Row 2 (Cat #2) minted in 0xtx but the record was not saved; reconcile manually",
			expectTags:     "mintforge,error,alert",
			expectPriority: "urgent",
		},
		{
			name:           "test",
			event:          notifications.EventTestNotify,
			expectTitle:    "mintforge - Test",
			expectMessage:  "Notification system test",
			expectTags:     "mintforge,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Errorf("read body: %v", err)
				}
				captured.body = string(body)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := svc.Publish(context.Background(), tc.event, tc.payload); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceIgnoresSuppressedEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected call for suppressed event: %s", r.Header.Get("Title"))
	}))
	defer server.Close()

	settings := config.Default().Notifications
	settings.BatchStarted = false
	settings.Errors = false
	settings.MinItems = 10

	svc := notifications.NewNtfyService(server.URL, settings, server.Client())
	suppressed := []struct {
		event   notifications.Event
		payload notifications.Payload
	}{
		{notifications.EventBatchStarted, notifications.Payload{"total": 50}},
		{notifications.EventBatchCompleted, notifications.Payload{"total": 3}},
		{notifications.EventItemFailed, notifications.Payload{"row": 1}},
		{notifications.EventOrphanedMint, notifications.Payload{"row": 1}},
		{notifications.Event("unknown"), nil},
	}
	for _, s := range suppressed {
		if err := svc.Publish(context.Background(), s.event, s.payload); err != nil {
			t.Fatalf("expected no error for suppressed event %s, got %v", s.event, err)
		}
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	svc := notifications.NewNtfyService(server.URL, config.Default().Notifications, server.Client())
	if err := svc.Publish(context.Background(), notifications.EventTestNotify, nil); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
