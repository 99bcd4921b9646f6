package wordsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	mqtt "github.com/soypat/natiu-mqtt"

	"github.com/smazurov/wordclock/internal/logging"
)

// MaxPayload caps the size of a word message.
const MaxPayload = 256

// MQTTConfig describes the broker and topic puzzle words arrive on.
type MQTTConfig struct {
	Addr      string        `toml:"addr" env:"MQTT_ADDR"`
	Topic     string        `toml:"topic" env:"MQTT_TOPIC"`
	ClientID  string        `toml:"client_id" env:"MQTT_CLIENT_ID"`
	Username  string        `toml:"username" env:"MQTT_USERNAME"`
	Password  string        `toml:"password" env:"MQTT_PASSWORD"`
	Timeout   time.Duration `toml:"timeout"`
	KeepAlive time.Duration `toml:"keepalive"`
}

// Subscriber pushes every message published on a topic into a queue.
type Subscriber struct {
	cfg    MQTTConfig
	queue  *Queue
	logger *slog.Logger
	dial   func(ctx context.Context, addr string) (net.Conn, error)
	// retry is the first reconnect delay; it doubles up to a minute while
	// sessions keep failing before they subscribe.
	retry time.Duration
}

// NewSubscriber returns a subscriber for cfg.
func NewSubscriber(cfg MQTTConfig, queue *Queue) *Subscriber {
	if cfg.ClientID == "" {
		cfg.ClientID = "wordclock"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 60 * time.Second
	}
	var d net.Dialer
	return &Subscriber{
		cfg:    cfg,
		queue:  queue,
		logger: logging.GetLogger("mqtt"),
		retry:  time.Second,
		dial: func(ctx context.Context, addr string) (net.Conn, error) {
			return d.DialContext(ctx, "tcp", addr)
		},
	}
}

// Run keeps a subscription alive until ctx is cancelled, reconnecting after
// failures.
func (s *Subscriber) Run(ctx context.Context) error {
	backoff := s.retry
	for {
		subscribed, err := s.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if subscribed {
			backoff = s.retry
		}
		s.logger.Warn("MQTT session ended, reconnecting", "addr", s.cfg.Addr, "error", err, "backoff", backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, time.Minute)
	}
}

// session runs one connection. subscribed reports whether the broker
// accepted the subscription before the session ended.
func (s *Subscriber) session(ctx context.Context) (subscribed bool, err error) {
	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	conn, err := s.dial(dialCtx, s.cfg.Addr)
	cancel()
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", s.cfg.Addr, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, MaxPayload+128)},
		OnPub: func(_ mqtt.Header, varPub mqtt.VariablesPublish, r io.Reader) error {
			payload, err := io.ReadAll(io.LimitReader(r, MaxPayload))
			if err != nil {
				return err
			}
			s.logger.Debug("Word received", "topic", string(varPub.TopicName), "payload", string(payload))
			s.queue.Push(string(payload))
			return nil
		},
	})

	var varconn mqtt.VariablesConnect
	varconn.SetDefaultMQTT([]byte(s.cfg.ClientID))
	varconn.KeepAlive = uint16(s.cfg.KeepAlive / time.Second)
	if s.cfg.Username != "" {
		varconn.Username = []byte(s.cfg.Username)
		varconn.Password = []byte(s.cfg.Password)
	}

	deadline := time.Now().Add(s.cfg.Timeout)
	if err := conn.SetDeadline(deadline); err != nil {
		return false, err
	}
	if err := client.StartConnect(conn, &varconn); err != nil {
		return false, fmt.Errorf("connect: %w", err)
	}
	for !client.IsConnected() {
		if err := client.HandleNext(); err != nil {
			return false, fmt.Errorf("connect: %w", err)
		}
	}

	err = client.StartSubscribe(mqtt.VariablesSubscribe{
		PacketIdentifier: 1,
		TopicFilters: []mqtt.SubscribeRequest{
			{TopicFilter: []byte(s.cfg.Topic), QoS: mqtt.QoS0},
		},
	})
	if err != nil {
		return false, fmt.Errorf("subscribe %s: %w", s.cfg.Topic, err)
	}
	for client.AwaitingSuback() {
		if err := client.HandleNext(); err != nil {
			return false, fmt.Errorf("subscribe %s: %w", s.cfg.Topic, err)
		}
		if !client.IsConnected() {
			return false, fmt.Errorf("subscribe %s: %w", s.cfg.Topic, client.Err())
		}
		if time.Now().After(deadline) {
			return false, fmt.Errorf("subscribe %s: no acknowledgement", s.cfg.Topic)
		}
	}
	s.logger.Info("Subscribed to word topic", "addr", s.cfg.Addr, "topic", s.cfg.Topic)

	// Reads block without a deadline; the keepalive below runs on its own
	// schedule and closing conn ends the reader.
	if err := conn.SetDeadline(time.Time{}); err != nil {
		return true, err
	}
	readErr := make(chan error, 1)
	go func() {
		for client.IsConnected() {
			if err := client.HandleNext(); err != nil {
				readErr <- err
				return
			}
		}
		readErr <- client.Err()
	}()

	pingEvery := s.cfg.KeepAlive / 2
	ticker := time.NewTicker(pingEvery / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case err := <-readErr:
			return true, err
		case <-ticker.C:
		}
		if client.AwaitingPingresp() {
			if time.Since(client.LastTx()) > s.cfg.Timeout {
				return true, errors.New("no ping response from broker")
			}
			continue
		}
		if time.Since(client.LastTx()) < pingEvery {
			continue
		}
		if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.Timeout)); err != nil {
			return true, err
		}
		if err := client.StartPing(); err != nil {
			return true, fmt.Errorf("ping: %w", err)
		}
		if err := conn.SetWriteDeadline(time.Time{}); err != nil {
			return true, err
		}
	}
}
