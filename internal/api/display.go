package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/wordclock/internal/api/models"
	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/face"
)

func (s *Server) registerDisplayRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-layouts",
		Method:      http.MethodGet,
		Path:        "/api/layouts",
		Summary:     "List Layouts",
		Description: "Every built-in faceplate and the one the clock is running",
		Tags:        []string{"display"},
	}, func(ctx context.Context, input *struct{}) (*models.LayoutsResponse, error) {
		resp := &models.LayoutsResponse{}
		resp.Body.Active = s.opts.Layout
		for _, name := range face.Layouts() {
			b, err := face.NewBoard(name, board.SensorBottom)
			if err != nil {
				return nil, huma.Error500InternalServerError("Failed to build layout", err)
			}
			resp.Body.Layouts = append(resp.Body.Layouts, models.LayoutData{Name: name, Rows: rows(b)})
		}
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-display",
		Method:      http.MethodGet,
		Path:        "/api/display",
		Summary:     "Display State",
		Description: "Current mode, the last display update and the colours on the strip",
		Tags:        []string{"display"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.DisplayResponse, error) {
		resp := &models.DisplayResponse{}
		resp.Body.Mode = s.opts.Store.Snapshot().Mode.String()
		resp.Body.Last = s.lastUpdate()
		if s.opts.Frame != nil {
			for _, px := range s.opts.Frame() {
				resp.Body.Pixels = append(resp.Body.Pixels, px.Hex())
			}
		}
		return resp, nil
	})
}

func rows(b *board.Board) []string {
	out := make([]string, board.Rows)
	for r := range out {
		out[r] = b.Row(r)
	}
	return out
}
