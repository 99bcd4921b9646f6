package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/wordclock/internal/api/models"
	"github.com/smazurov/wordclock/internal/led"
)

func (s *Server) registerLEDRoutes() {
	if s.opts.StatusLED == nil {
		s.logger.Debug("No LED controller, skipping LED routes")
		return
	}
	ctrl := s.opts.StatusLED

	huma.Register(s.api, huma.Operation{
		OperationID: "control-led",
		Method:      http.MethodPost,
		Path:        "/api/leds",
		Summary:     "Control LED",
		Description: "Overrides an indicator LED until the next time sync change",
		Tags:        []string{"leds"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *models.LEDRequest) (*struct{}, error) {
		pattern := ""
		if input.Body.Pattern != nil {
			pattern = *input.Body.Pattern
		}
		err := ctrl.Set(input.Body.Name, input.Body.Enabled, pattern)
		switch {
		case errors.Is(err, led.ErrUnknownLED):
			return nil, huma.Error404NotFound("Unknown LED", err)
		case err != nil:
			return nil, huma.Error500InternalServerError("Failed to control LED", err)
		}
		return &struct{}{}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-led-capabilities",
		Method:      http.MethodGet,
		Path:        "/api/leds/capabilities",
		Summary:     "LED Capabilities",
		Description: "Indicator names and patterns this board supports",
		Tags:        []string{"leds"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.LEDCapabilitiesResponse, error) {
		resp := &models.LEDCapabilitiesResponse{}
		resp.Body.Available = ctrl.Available()
		resp.Body.Patterns = ctrl.Patterns()
		return resp, nil
	})
}
