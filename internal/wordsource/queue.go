// Package wordsource feeds puzzle words to the display from outside the
// tick: standard input, an MQTT topic, or the HTTP API.
package wordsource

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// DefaultCapacity bounds how many unread words are kept.
const DefaultCapacity = 16

// Queue hands lines from producer goroutines to the display tick. Push never
// blocks; when the queue is full the oldest line is dropped.
type Queue struct {
	lines chan string
}

// NewQueue returns a queue holding up to capacity lines.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{lines: make(chan string, capacity)}
}

// Push adds a trimmed, non-empty line.
func (q *Queue) Push(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	for {
		select {
		case q.lines <- line:
			return
		default:
		}
		select {
		case <-q.lines:
		default:
		}
	}
}

// Line returns the next line without blocking.
func (q *Queue) Line() (string, bool) {
	select {
	case line := <-q.lines:
		return line, true
	default:
		return "", false
	}
}

// ReadLines copies lines from r into q until r is exhausted or ctx is done.
func ReadLines(ctx context.Context, r io.Reader, q *Queue) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		q.Push(scanner.Text())
	}
	return scanner.Err()
}
