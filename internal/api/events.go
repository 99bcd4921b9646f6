package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/wordclock/internal/events"
)

func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Display updates, mode changes, puzzle results, time sync and settings changes as they happen",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"display-updated":   events.DisplayUpdatedEvent{},
		"mode-changed":      events.ModeChangedEvent{},
		"puzzle-result":     events.PuzzleResultEvent{},
		"time-sync-changed": events.TimeSyncChangedEvent{},
		"settings-changed":  events.SettingsChangedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 16)
		unsubscribers := []func(){
			events.SubscribeToChannel[events.DisplayUpdatedEvent](s.opts.EventBus, eventCh),
			events.SubscribeToChannel[events.ModeChangedEvent](s.opts.EventBus, eventCh),
			events.SubscribeToChannel[events.PuzzleResultEvent](s.opts.EventBus, eventCh),
			events.SubscribeToChannel[events.TimeSyncChangedEvent](s.opts.EventBus, eventCh),
			events.SubscribeToChannel[events.SettingsChangedEvent](s.opts.EventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// New clients see the face immediately instead of waiting a minute.
		if last := s.lastUpdate(); last != nil {
			if err := send.Data(*last); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}
