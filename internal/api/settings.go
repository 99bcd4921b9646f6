package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/wordclock/internal/api/models"
	"github.com/smazurov/wordclock/internal/events"
	"github.com/smazurov/wordclock/internal/settings"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/api/settings",
		Summary:     "Get Settings",
		Description: "Current clock settings",
		Tags:        []string{"settings"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.SettingsResponse, error) {
		return &models.SettingsResponse{Body: settings.FromSettings(s.opts.Store.Snapshot())}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-settings",
		Method:      http.MethodPut,
		Path:        "/api/settings",
		Summary:     "Update Settings",
		Description: "Changes the given fields and leaves the others alone. The display picks them up on its next tick.",
		Tags:        []string{"settings"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 422},
	}, func(ctx context.Context, input *models.SettingsRequest) (*models.SettingsResponse, error) {
		next, err := s.opts.Store.TryUpdate(func(st *settings.Settings) error {
			applied, err := input.Body.Apply(*st)
			if err != nil {
				return err
			}
			*st = applied
			return nil
		})
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid settings", err)
		}
		s.logger.Info("Settings updated", "mode", next.Mode, "color", next.Color.Hex())

		s.opts.EventBus.Publish(events.SettingsChangedEvent{
			Source:    "api",
			Mode:      next.Mode.String(),
			Color:     next.Color.Hex(),
			Timestamp: now(),
		})
		return &models.SettingsResponse{Body: settings.FromSettings(next)}, nil
	})
}
