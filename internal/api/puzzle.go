package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/wordclock/internal/api/models"
	"github.com/smazurov/wordclock/internal/face"
	"github.com/smazurov/wordclock/internal/metrics"
	"github.com/smazurov/wordclock/internal/puzzle"
	"github.com/smazurov/wordclock/internal/settings"
)

func (s *Server) registerPuzzleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "queue-puzzle-word",
		Method:      http.MethodPost,
		Path:        "/api/puzzle",
		Summary:     "Show Word",
		Description: "Queues a word for puzzle mode and, unless show is false, switches the display to it",
		Tags:        []string{"puzzle"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 422},
	}, func(ctx context.Context, input *models.PuzzleRequest) (*models.PuzzleQueuedResponse, error) {
		word := puzzle.Canonicalize(input.Body.Word)
		if word == "" {
			return nil, huma.Error400BadRequest("Word is empty")
		}
		s.opts.Store.SetWord(word)
		metrics.RecordWord("api")

		mode := s.opts.Store.Snapshot().Mode
		if input.Body.Show == nil || *input.Body.Show {
			mode = s.opts.Store.Update(func(st *settings.Settings) { st.Mode = settings.Puzzle }).Mode
		}
		s.logger.Info("Puzzle word queued", "word", word, "mode", mode)

		return &models.PuzzleQueuedResponse{Body: models.PuzzleQueuedData{
			Word: word,
			Mode: mode.String(),
		}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "solve-puzzle-word",
		Method:      http.MethodGet,
		Path:        "/api/puzzle/solve",
		Summary:     "Solve Word",
		Description: "Finds the cheapest path for a word without touching the display",
		Tags:        []string{"puzzle"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404},
	}, func(ctx context.Context, input *models.SolveRequest) (*models.SolveResponse, error) {
		layout := input.Layout
		if layout == "" {
			layout = s.opts.Layout
		}
		// A private board keeps the search off the display's orientation.
		b, err := face.NewBoard(layout, s.opts.Store.Snapshot().SensorPosition)
		if errors.Is(err, face.ErrUnknownLayout) {
			return nil, huma.Error404NotFound("Unknown layout", err)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to build board", err)
		}

		word := puzzle.Canonicalize(input.Word)
		if word == "" {
			return nil, huma.Error400BadRequest("Word is empty")
		}
		sol, found := puzzle.New(b, s.logger).Find(word)
		return &models.SolveResponse{Body: models.SolveData{
			Word:   word,
			Layout: layout,
			Found:  found,
			Cost:   sol.Cost,
			Cells:  sol.Cells,
			Pixels: sol.Pixels,
		}}, nil
	})
}
