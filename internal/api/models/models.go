// Package models holds the request and response bodies of the HTTP API.
package models

import (
	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/events"
	"github.com/smazurov/wordclock/internal/logging"
	"github.com/smazurov/wordclock/internal/settings"
	"github.com/smazurov/wordclock/internal/version"
)

type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"Clock is running" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

type VersionResponse struct {
	Body version.Info
}

// Settings

type SettingsResponse struct {
	Body settings.Raw
}

type SettingsRequest struct {
	Body settings.Raw
}

// Puzzle

type PuzzleRequestData struct {
	Word string `json:"word" minLength:"1" maxLength:"64" example:"hello" doc:"Word to spell on the faceplate"`
	Show *bool  `json:"show,omitempty" doc:"Switch to puzzle mode (default true)"`
}

type PuzzleRequest struct {
	Body PuzzleRequestData
}

type PuzzleQueuedData struct {
	Word string `json:"word" example:"HELLO" doc:"Canonical word queued for the display"`
	Mode string `json:"mode" example:"PUZZLE_MODE" doc:"Display mode after the request"`
}

type PuzzleQueuedResponse struct {
	Body PuzzleQueuedData
}

type SolveRequest struct {
	Word   string `query:"word" required:"true" example:"cat" doc:"Word to place"`
	Layout string `query:"layout" example:"english" doc:"Layout to search, defaults to the running one"`
}

type SolveData struct {
	Word   string       `json:"word" example:"CAT" doc:"Canonical word"`
	Layout string       `json:"layout" example:"english" doc:"Layout searched"`
	Found  bool         `json:"found" doc:"Whether every letter could be placed"`
	Cost   int          `json:"cost" example:"9" doc:"Summed Manhattan distance"`
	Cells  []board.Cell `json:"cells,omitempty" doc:"Path through the faceplate"`
	Pixels []int        `json:"pixels,omitempty" doc:"LED indices of the path for the current sensor position"`
}

type SolveResponse struct {
	Body SolveData
}

// Display

type LayoutData struct {
	Name string   `json:"name" example:"english" doc:"Layout name"`
	Rows []string `json:"rows" doc:"Faceplate rows, '.' for blank cells"`
}

type LayoutsResponse struct {
	Body struct {
		Active  string       `json:"active" example:"english" doc:"Layout the clock is running"`
		Layouts []LayoutData `json:"layouts" doc:"Every built-in faceplate"`
	}
}

type DisplayData struct {
	Mode   string                      `json:"mode" example:"REAL_TIME" doc:"Current display mode"`
	Last   *events.DisplayUpdatedEvent `json:"last,omitempty" doc:"Most recent display update"`
	Pixels []string                    `json:"pixels,omitempty" doc:"Colour of every LED in the last shown frame, #RRGGBB"`
}

type DisplayResponse struct {
	Body DisplayData
}

// Logs

type LogsRequest struct {
	Limit int `query:"limit" minimum:"0" maximum:"1000" default:"100" doc:"Newest entries to return, 0 for all"`
}

type LogsResponse struct {
	Body struct {
		Entries []logging.LogEntry `json:"entries" doc:"Buffered log entries, oldest first"`
	}
}

type LogLevelRequest struct {
	Body struct {
		Module string `json:"module" example:"display" doc:"Logger module"`
		Level  string `json:"level" enum:"debug,info,warn,error" doc:"New level"`
	}
}

type LogLevelsResponse struct {
	Body struct {
		Modules map[string]string `json:"modules" doc:"Effective level per module"`
	}
}

// LEDs

type LEDRequest struct {
	Body struct {
		Name    string  `json:"name" example:"status" doc:"Indicator name"`
		Enabled bool    `json:"enabled" doc:"Whether the LED should be on"`
		Pattern *string `json:"pattern,omitempty" enum:"solid,blink,off" doc:"Optional pattern"`
	}
}

type LEDCapabilitiesResponse struct {
	Body struct {
		Available []string `json:"available" doc:"Indicator names on this board"`
		Patterns  []string `json:"patterns" doc:"Accepted pattern names"`
	}
}
