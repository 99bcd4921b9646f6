package events

import "github.com/smazurov/wordclock/internal/board"

// Event type constants for kelindar/event.
const (
	TypeDisplayUpdated uint32 = iota + 1
	TypeModeChanged
	TypePuzzleResult
	TypeTimeSyncChanged
	TypeSettingsChanged
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// DisplayUpdatedEvent is published when the face shows a new phrase or a
// puzzle word.
type DisplayUpdatedEvent struct {
	Layout    string       `json:"layout" example:"english" doc:"Faceplate layout"`
	Mode      string       `json:"mode" example:"REAL_TIME" doc:"Display mode that produced the update"`
	Hour      int          `json:"hour" example:"15" doc:"Hour shown, -1 outside real-time mode"`
	Minute    int          `json:"minute" example:"47" doc:"Minute shown, -1 outside real-time mode"`
	Words     []string     `json:"words" doc:"Lit words in reading order"`
	Cells     []board.Cell `json:"cells" doc:"Lit faceplate cells"`
	Corners   int          `json:"corners" example:"2" doc:"Lit corner LEDs"`
	Timestamp string       `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DisplayUpdatedEvent.
func (e DisplayUpdatedEvent) Type() uint32 { return TypeDisplayUpdated }

// ModeChangedEvent is published when the display switches mode.
type ModeChangedEvent struct {
	Mode      string `json:"mode" example:"PUZZLE_MODE" doc:"New display mode"`
	Previous  string `json:"previous" example:"REAL_TIME" doc:"Previous display mode"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ModeChangedEvent.
func (e ModeChangedEvent) Type() uint32 { return TypeModeChanged }

// PuzzleResultEvent reports the outcome of placing a word on the faceplate.
type PuzzleResultEvent struct {
	Word      string       `json:"word" example:"HELLO" doc:"Canonical word searched for"`
	Found     bool         `json:"found" example:"true" doc:"Whether every letter could be placed"`
	Cost      int          `json:"cost" example:"12" doc:"Summed Manhattan distance of the path"`
	Cells     []board.Cell `json:"cells,omitempty" doc:"Path through the faceplate"`
	Timestamp string       `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PuzzleResultEvent.
func (e PuzzleResultEvent) Type() uint32 { return TypePuzzleResult }

// TimeSyncChangedEvent is published when network time sync state changes.
// Drives the status LED.
type TimeSyncChangedEvent struct {
	State     string `json:"state" example:"synced" doc:"waiting, syncing or synced"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for TimeSyncChangedEvent.
func (e TimeSyncChangedEvent) Type() uint32 { return TypeTimeSyncChanged }

// SettingsChangedEvent is published after settings are replaced.
type SettingsChangedEvent struct {
	Source    string `json:"source" example:"api" doc:"Who changed the settings: api, config"`
	Mode      string `json:"mode" example:"REAL_TIME" doc:"Display mode"`
	Color     string `json:"color" example:"#EFEBD8" doc:"Letter colour"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SettingsChangedEvent.
func (e SettingsChangedEvent) Type() uint32 { return TypeSettingsChanged }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"display" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
