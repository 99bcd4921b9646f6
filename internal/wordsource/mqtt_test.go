package wordsource

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBroker speaks just enough MQTT 3.1.1 for a QoS0 subscriber.
type fakeBroker struct {
	ln     net.Listener
	conns  atomic.Int32
	pings  atomic.Int32
	word   string
	hangUp bool
}

func newFakeBroker(t *testing.T, word string, hangUp bool) *fakeBroker {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	b := &fakeBroker{ln: ln, word: word, hangUp: hangUp}
	t.Cleanup(func() { ln.Close() })
	go b.serve()
	return b
}

func (b *fakeBroker) addr() string { return b.ln.Addr().String() }

func (b *fakeBroker) serve() {
	for {
		conn, err := b.ln.Accept()
		if err != nil {
			return
		}
		b.conns.Add(1)
		go b.handle(conn)
	}
}

func (b *fakeBroker) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		kind, body, err := readPacket(r)
		if err != nil {
			return
		}
		switch kind {
		case 0x10: // CONNECT
			conn.Write([]byte{0x20, 0x02, 0x00, 0x00})
		case 0x80: // SUBSCRIBE
			conn.Write([]byte{0x90, 0x03, body[0], body[1], 0x00})
			if b.hangUp {
				return
			}
			if b.word != "" {
				conn.Write(publishPacket("wordclock/word", b.word))
			}
		case 0xC0: // PINGREQ
			b.pings.Add(1)
			conn.Write([]byte{0xD0, 0x00})
		}
	}
}

func readPacket(r *bufio.Reader) (byte, []byte, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	length, mul := 0, 1
	for {
		c, err := r.ReadByte()
		if err != nil {
			return 0, nil, err
		}
		length += int(c&0x7F) * mul
		if c&0x80 == 0 {
			break
		}
		mul *= 128
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return first & 0xF0, body, nil
}

func publishPacket(topic, payload string) []byte {
	n := 2 + len(topic) + len(payload)
	out := []byte{0x30, byte(n), byte(len(topic) >> 8), byte(len(topic))}
	out = append(out, topic...)
	return append(out, payload...)
}

func runSubscriber(t *testing.T, s *Subscriber) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("subscriber did not stop")
		}
	})
}

func TestSubscriberReceivesWordsAndPings(t *testing.T) {
	broker := newFakeBroker(t, "clock", false)
	q := NewQueue(4)
	s := NewSubscriber(MQTTConfig{
		Addr:      broker.addr(),
		Topic:     "wordclock/word",
		Timeout:   2 * time.Second,
		KeepAlive: time.Second,
	}, q)
	runSubscriber(t, s)

	var word string
	require.Eventually(t, func() bool {
		w, ok := q.Line()
		word = w
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "clock", word)

	require.Eventually(t, func() bool { return broker.pings.Load() >= 2 }, 3*time.Second, 50*time.Millisecond,
		"idle session keeps pinging the broker")
	assert.EqualValues(t, 1, broker.conns.Load(), "session stays up while pings are answered")
}

func TestSubscriberResetsBackoffAfterSubscribing(t *testing.T) {
	broker := newFakeBroker(t, "", true)
	s := NewSubscriber(MQTTConfig{
		Addr:    broker.addr(),
		Topic:   "wordclock/word",
		Timeout: time.Second,
	}, NewQueue(1))
	s.retry = 100 * time.Millisecond
	runSubscriber(t, s)

	// Doubling delays would put the fifth connection past 1.5s.
	require.Eventually(t, func() bool { return broker.conns.Load() >= 5 }, 900*time.Millisecond, 10*time.Millisecond)
}
