package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/wordclock/internal/api/models"
	"github.com/smazurov/wordclock/internal/events"
	"github.com/smazurov/wordclock/internal/logging"
)

func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Entries from the in-memory log buffer, oldest first",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *models.LogsRequest) (*models.LogsResponse, error) {
		resp := &models.LogsResponse{}
		if input.Limit == 0 {
			resp.Body.Entries = logging.History().ReadAll()
		} else {
			resp.Body.Entries = logging.History().Tail(input.Limit)
		}
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-log-levels",
		Method:      http.MethodGet,
		Path:        "/api/logs/level",
		Summary:     "Log Levels",
		Description: "Effective level of every module logger",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.LogLevelsResponse, error) {
		resp := &models.LogLevelsResponse{}
		resp.Body.Modules = logging.ModuleLevels()
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-log-level",
		Method:      http.MethodPut,
		Path:        "/api/logs/level",
		Summary:     "Set Log Level",
		Description: "Changes one module's level until restart",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 422},
	}, func(ctx context.Context, input *models.LogLevelRequest) (*models.LogLevelsResponse, error) {
		if err := logging.SetModuleLevel(input.Body.Module, input.Body.Level); err != nil {
			if errors.Is(err, logging.ErrUnknownLevel) {
				return nil, huma.Error400BadRequest("Invalid log level", err)
			}
			return nil, huma.Error500InternalServerError("Failed to set log level", err)
		}
		s.logger.Info("Log level changed", "target", input.Body.Module, "level", input.Body.Level)
		resp := &models.LogLevelsResponse{}
		resp.Body.Modules = logging.ModuleLevels()
		return resp, nil
	})

	sse.Register(s.api, huma.Operation{
		OperationID: "logs-stream",
		Method:      http.MethodGet,
		Path:        "/api/logs/stream",
		Summary:     "Log Stream",
		Description: "Buffered log entries followed by new ones as they are written",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"message": events.LogEntryEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 100)
		unsubscribe := events.SubscribeToChannel[events.LogEntryEvent](s.opts.EventBus, eventCh)
		defer unsubscribe()

		var lastSeq uint64
		for _, entry := range logging.History().ReadAll() {
			lastSeq = entry.Seq
			if err := send.Data(LogEvent(entry)); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				// skip entries already replayed from the buffer
				if e, ok := ev.(events.LogEntryEvent); ok && e.Seq != 0 && e.Seq <= lastSeq {
					continue
				}
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}

// LogEvent converts a buffered entry into its bus form.
func LogEvent(entry logging.LogEntry) events.LogEntryEvent {
	return events.LogEntryEvent{
		Seq:        entry.Seq,
		Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
		Level:      entry.Level,
		Module:     entry.Module,
		Message:    entry.Message,
		Attributes: entry.Attributes,
	}
}
