package events

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/wordclock/internal/board"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan PuzzleResultEvent, 1)

	unsub := bus.Subscribe(func(e PuzzleResultEvent) {
		received <- e
	})
	defer unsub()

	ev := PuzzleResultEvent{
		Word:  "CAT",
		Found: true,
		Cost:  4,
		Cells: []board.Cell{{Row: 0, Col: 0}},
	}
	bus.Publish(ev)

	got := <-received
	if got.Word != ev.Word || got.Cost != ev.Cost {
		t.Errorf("Expected %+v, got %+v", ev, got)
	}
}

func TestBus_MultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan ModeChangedEvent, 1)
	received2 := make(chan ModeChangedEvent, 1)

	unsub1 := bus.Subscribe(func(e ModeChangedEvent) { received1 <- e })
	defer unsub1()
	unsub2 := bus.Subscribe(func(e ModeChangedEvent) { received2 <- e })
	defer unsub2()

	bus.Publish(ModeChangedEvent{Mode: "PUZZLE_MODE", Previous: "REAL_TIME"})

	<-received1
	<-received2
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan TimeSyncChangedEvent, 1)

	unsub := bus.Subscribe(func(e TimeSyncChangedEvent) { received <- e })

	bus.Publish(TimeSyncChangedEvent{State: "syncing"})
	<-received

	unsub()

	bus.Publish(TimeSyncChangedEvent{State: "synced"})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	displayReceived := make(chan bool, 1)
	modeReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ DisplayUpdatedEvent) { displayReceived <- true })
	defer unsub1()
	unsub2 := bus.Subscribe(func(_ ModeChangedEvent) { modeReceived <- true })
	defer unsub2()

	bus.Publish(DisplayUpdatedEvent{Layout: "english"})
	<-displayReceived

	select {
	case <-modeReceived:
		t.Fatal("Mode subscriber should NOT have received DisplayUpdatedEvent")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_UnknownHandler(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(string) {})
	if unsub == nil {
		t.Fatal("Expected a no-op unsubscribe function")
	}
	unsub()
}

func TestBus_ThreadSafety(_ *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 100
	expected := numGoroutines * eventsPerGoroutine

	receivedCh := make(chan bool, expected)

	unsub := bus.Subscribe(func(_ SettingsChangedEvent) { receivedCh <- true })
	defer unsub()

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range eventsPerGoroutine {
				bus.Publish(SettingsChangedEvent{
					Source:    "api",
					Timestamp: time.Now().Format(time.RFC3339),
				})
			}
		}()
	}

	wg.Wait()

	for range expected {
		<-receivedCh
	}
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 1)
	unsub := SubscribeToChannel[LogEntryEvent](bus, ch)
	defer unsub()

	bus.Publish(LogEntryEvent{Seq: 7, Message: "hello"})

	select {
	case got := <-ch:
		entry, ok := got.(LogEntryEvent)
		if !ok || entry.Seq != 7 {
			t.Fatalf("Unexpected event %#v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestDisplayUpdatedJSON(t *testing.T) {
	ev := DisplayUpdatedEvent{
		Layout: "french",
		Hour:   12,
		Words:  []string{"IL", "EST", "MIDI"},
		Cells:  []board.Cell{{Row: 4, Col: 0}},
	}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded["layout"] != "french" {
		t.Errorf("Expected layout french, got %v", decoded["layout"])
	}
	cells, ok := decoded["cells"].([]any)
	if !ok || len(cells) != 1 {
		t.Fatalf("Expected one cell, got %v", decoded["cells"])
	}
	cell := cells[0].(map[string]any)
	if cell["row"] != float64(4) {
		t.Errorf("Expected row 4, got %v", cell["row"])
	}
}
