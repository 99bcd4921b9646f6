package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"golang.org/x/sys/unix"

	"github.com/smazurov/wordclock/cmd"
	"github.com/smazurov/wordclock/internal/api"
	"github.com/smazurov/wordclock/internal/brightness"
	"github.com/smazurov/wordclock/internal/config"
	"github.com/smazurov/wordclock/internal/display"
	"github.com/smazurov/wordclock/internal/events"
	"github.com/smazurov/wordclock/internal/face"
	"github.com/smazurov/wordclock/internal/led"
	"github.com/smazurov/wordclock/internal/logging"
	"github.com/smazurov/wordclock/internal/metrics"
	"github.com/smazurov/wordclock/internal/metrics/collectors"
	"github.com/smazurov/wordclock/internal/metrics/exporters"
	"github.com/smazurov/wordclock/internal/puzzle"
	"github.com/smazurov/wordclock/internal/settings"
	"github.com/smazurov/wordclock/internal/systemd"
	"github.com/smazurov/wordclock/internal/timesource"
	"github.com/smazurov/wordclock/internal/version"
	"github.com/smazurov/wordclock/internal/wordsource"
)

// Options for the CLI - flat structure with toml mapping. Clock settings
// (mode, colour, ...) live in the [clock] table and are hot-reloaded.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"wordclock.toml"`

	// Server settings
	Port         string `help:"Port to listen on" short:"p" default:":8080" toml:"server.port" env:"SERVER_PORT"`
	AuthUsername string `help:"Basic auth username, empty disables auth" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" toml:"auth.password" env:"AUTH_PASSWORD"`
	Metrics      bool   `help:"Serve Prometheus metrics at /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Display settings
	Layout string `help:"Faceplate layout (english, french, lithuanian)" short:"l" default:"english" toml:"display.layout" env:"DISPLAY_LAYOUT"`
	TickMs int    `help:"Display tick in milliseconds" default:"10" toml:"display.tick_ms" env:"DISPLAY_TICK_MS"`

	// LED strip settings
	StripKind   string `help:"LED strip backend (memory, terminal, ws2812)" default:"memory" toml:"strip.kind" env:"STRIP_KIND"`
	StripCount  int    `help:"LEDs on the strip" default:"114" toml:"strip.count" env:"STRIP_COUNT"`
	StripSPIBus string `help:"SPI port for ws2812, empty for the first one" toml:"strip.spi_bus" env:"STRIP_SPI_BUS"`

	// Light sensor settings
	SensorPath string `help:"sysfs attribute of the ambient light sensor, empty for full brightness" toml:"sensor.path" env:"SENSOR_PATH"`
	SensorMax  int    `help:"Raw sensor value treated as daylight" default:"4095" toml:"sensor.max" env:"SENSOR_MAX"`

	// Time settings
	TimeZone      string `help:"IANA time zone, empty for the host zone" toml:"time.zone" env:"TIME_ZONE"`
	RequireSync   bool   `help:"Keep the face dark until the clock is synchronised" default:"false" toml:"time.require_sync" env:"TIME_REQUIRE_SYNC"`
	SimulateSpeed int    `help:"Run a simulated clock this many times faster, 0 for the system clock" default:"0" toml:"time.simulate_speed" env:"TIME_SIMULATE_SPEED"`

	// Word sources
	Stdin        bool   `help:"Read puzzle words from standard input" default:"false" toml:"words.stdin" env:"WORDS_STDIN"`
	MQTTAddr     string `help:"MQTT broker host:port, empty disables MQTT" toml:"mqtt.addr" env:"MQTT_ADDR"`
	MQTTTopic    string `help:"MQTT topic carrying puzzle words" default:"wordclock/word" toml:"mqtt.topic" env:"MQTT_TOPIC"`
	MQTTUsername string `help:"MQTT username" toml:"mqtt.username" env:"MQTT_USERNAME"`
	MQTTPassword string `help:"MQTT password" toml:"mqtt.password" env:"MQTT_PASSWORD"`

	// Features settings
	FeaturesLEDControl bool   `help:"Drive the board status LED from time sync state" default:"false" toml:"features.led_control_enabled" env:"FEATURES_LED_CONTROL"`
	StatusLEDDevice    string `help:"sysfs LED name for the status LED, auto-detected when empty" toml:"features.status_led" env:"FEATURES_STATUS_LED"`

	// Logging settings, per-module levels come from [logging.modules]
	LoggingLevel  string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		loggingConfig := config.LoadLoggingConfig(opts.Config)
		loggingConfig.Level = opts.LoggingLevel
		loggingConfig.Format = opts.LoggingFormat
		logging.Initialize(loggingConfig)

		logger := logging.GetLogger("main")
		logger.Info("Starting wordclock", "version", version.Get().String(), "layout", opts.Layout)

		// Subcommands run this callback too, so hardware is only opened on start.
		var app atomic.Pointer[clock]
		hooks.OnStart(func() {
			c, err := newClock(opts, logger)
			if err != nil {
				logger.Error("Failed to set up clock", "error", err)
				os.Exit(1)
			}
			app.Store(c)
			c.run()
		})
		hooks.OnStop(func() {
			if c := app.Load(); c != nil {
				c.stop()
			}
		})
	})

	cli.Root().Use = "wordclock"
	cli.Root().Short = "Word clock display service"
	cli.Root().AddCommand(cmd.CreateRenderCmd())
	cli.Root().AddCommand(cmd.CreateFindCmd())
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	cli.Run()
}

// clock holds every long-running part of the service.
type clock struct {
	opts   *Options
	logger *slog.Logger

	bus       *events.Bus
	store     *settings.Store
	strip     led.Strip
	loop      *display.Loop
	monitor   *timesource.Monitor
	watcher   *config.Watcher[settings.Raw]
	mqtt      *wordsource.Subscriber
	stdin     *wordsource.Queue
	ledMgr    *led.Manager
	collector *collectors.EventCollector
	notifier  *systemd.Notifier
	server    *api.Server

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newClock(opts *Options, logger *slog.Logger) (*clock, error) {
	c := &clock{
		opts:     opts,
		logger:   logger,
		bus:      events.New(),
		notifier: systemd.NewNotifier(logging.GetLogger("systemd")),
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())

	initial := settings.Default()
	raw, err := settings.LoadFile(opts.Config)
	switch {
	case err == nil:
		initial = raw.Resolve(initial, logging.GetLogger("config"))
	case errors.Is(err, os.ErrNotExist):
		logger.Info("No config file, using default clock settings", "path", opts.Config)
	default:
		logger.Warn("Failed to read clock settings, using defaults", "error", err)
	}
	c.store = settings.NewStore(initial)

	b, err := face.NewBoard(opts.Layout, initial.SensorPosition)
	if err != nil {
		return nil, err
	}
	renderer, err := face.New(opts.Layout, b, logging.GetLogger("face"))
	if err != nil {
		return nil, err
	}

	c.strip, err = led.Open(led.StripConfig{Kind: opts.StripKind, Count: opts.StripCount, SPIBus: opts.StripSPIBus}, b)
	if err != nil {
		return nil, fmt.Errorf("open %s strip: %w", opts.StripKind, err)
	}
	mirror, frame := led.NewMirror(c.strip)

	var sensor brightness.Sensor = brightness.Fixed(1)
	if opts.SensorPath != "" {
		sensor = brightness.SysfsSensor{Path: opts.SensorPath, Max: float64(opts.SensorMax)}
	}
	bright := brightness.New(sensor, logging.GetLogger("brightness"))

	timeSource, err := c.timeSource()
	if err != nil {
		return nil, err
	}

	lines := &wordLines{}
	if opts.Stdin {
		c.stdin = wordsource.NewQueue(wordsource.DefaultCapacity)
		lines.add("stdin", c.stdin)
	}
	if opts.MQTTAddr != "" {
		queue := wordsource.NewQueue(wordsource.DefaultCapacity)
		c.mqtt = wordsource.NewSubscriber(wordsource.MQTTConfig{
			Addr:     opts.MQTTAddr,
			Topic:    opts.MQTTTopic,
			Username: opts.MQTTUsername,
			Password: opts.MQTTPassword,
		}, queue)
		lines.add("mqtt", queue)
	}

	d, err := display.New(display.Config{
		Renderer:   renderer,
		Solver:     puzzle.New(b, logging.GetLogger("puzzle")),
		Strip:      mirror,
		Brightness: bright,
		Clock:      timeSource,
		Settings:   c.store,
		Lines:      lines,
		Bus:        c.bus,
		Logger:     logging.GetLogger("display"),
	})
	if err != nil {
		return nil, err
	}
	c.loop = display.NewLoop(d, time.Duration(opts.TickMs)*time.Millisecond,
		display.WithTickObserver(func(elapsed time.Duration) {
			metrics.ObserveTick(elapsed)
			metrics.SetBrightnessFactor(bright.Factor())
			c.notifier.Watchdog(time.Now())
		}))

	c.watcher = config.NewWatcher(opts.Config, settings.LoadFile, logging.GetLogger("config"),
		config.WithErrorHandler[settings.Raw](metrics.RecordConfigReload))
	c.watcher.OnReload(c.reloadSettings)

	var ledController led.Controller
	if opts.FeaturesLEDControl {
		ledController = led.New(logging.GetLogger("led"), opts.StatusLEDDevice)
		c.ledMgr = led.NewManager(ledController, c.bus, logging.GetLogger("led"))
	}

	c.collector = collectors.NewEventCollector(c.bus)
	logging.SetLogCallback(func(entry logging.LogEntry) {
		c.bus.Publish(api.LogEvent(entry))
	})

	apiOpts := &api.Options{
		AuthUsername: opts.AuthUsername,
		AuthPassword: opts.AuthPassword,
		Layout:       renderer.Name(),
		Store:        c.store,
		EventBus:     c.bus,
		Frame:        frame.Frame,
		StatusLED:    ledController,
	}
	if opts.Metrics {
		apiOpts.MetricsHandler = exporters.HTTPHandler()
	}
	c.server, err = api.NewServer(apiOpts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *clock) timeSource() (display.TimeSource, error) {
	loc := time.Local
	if c.opts.TimeZone != "" {
		var err error
		if loc, err = time.LoadLocation(c.opts.TimeZone); err != nil {
			return nil, fmt.Errorf("time zone %q: %w", c.opts.TimeZone, err)
		}
	}
	if c.opts.SimulateSpeed > 0 {
		c.logger.Info("Using simulated clock", "speed", c.opts.SimulateSpeed)
		return timesource.NewSimulated(time.Now().In(loc), float64(c.opts.SimulateSpeed)), nil
	}

	system := timesource.NewSystem(loc, c.opts.RequireSync)
	c.monitor = timesource.NewMonitor(system, func(state timesource.SyncState) {
		c.bus.Publish(events.TimeSyncChangedEvent{
			State:     state.String(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
	})
	return system, nil
}

// reloadSettings applies an edited [clock] table on top of the running
// settings; fields missing from the file keep their current value.
func (c *clock) reloadSettings(raw settings.Raw) {
	logger := logging.GetLogger("config")
	next := c.store.Update(func(st *settings.Settings) { *st = raw.Resolve(*st, logger) })
	metrics.RecordConfigReload(nil)
	c.logger.Info("Clock settings reloaded", "mode", next.Mode, "color", next.Color.Hex())
	c.bus.Publish(events.SettingsChangedEvent{
		Source:    "config",
		Mode:      next.Mode.String(),
		Color:     next.Color.Hex(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// run starts the background workers and blocks serving HTTP.
func (c *clock) run() {
	ctx := c.ctx

	c.collector.Start()
	if c.ledMgr != nil {
		c.ledMgr.Start()
	}

	c.goRun("display", func() error { return c.loop.Run(ctx) })
	c.goRun("config watcher", func() error { return c.watcher.Run(ctx) })
	if c.monitor != nil {
		c.goRun("time monitor", func() error { return c.monitor.Run(ctx) })
	}
	if c.mqtt != nil {
		c.goRun("mqtt", func() error { return c.mqtt.Run(ctx) })
	}
	if c.stdin != nil {
		c.goRun("stdin", func() error { return wordsource.ReadLines(ctx, os.Stdin, c.stdin) })
	}
	if term, ok := c.strip.(*led.Terminal); ok {
		// The terminal owns Ctrl-C in raw mode; turn the key back into a signal.
		go term.WatchKeys(func() { _ = unix.Kill(os.Getpid(), unix.SIGINT) })
	}

	c.notifier.Ready()
	c.notifier.Status("Serving on " + c.opts.Port)

	if err := c.server.Start(c.opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		c.logger.Error("Failed to start HTTP server", "error", err)
		c.stop()
		os.Exit(1)
	}
}

func (c *clock) goRun(name string, fn func() error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := fn(); err != nil {
			c.logger.Error("Worker stopped", "worker", name, "error", err)
		}
	}()
}

func (c *clock) stop() {
	c.stopOnce.Do(c.shutdown)
}

func (c *clock) shutdown() {
	c.logger.Info("Shutting down")
	c.notifier.Stopping()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.server.Stop(ctx); err != nil {
		c.logger.Error("Error stopping HTTP server", "error", err)
	}

	// The display blanks the strip on its way out, so close it afterwards.
	c.cancel()
	c.wg.Wait()

	if c.ledMgr != nil {
		c.ledMgr.Stop()
	}
	c.collector.Stop()
	if err := c.strip.Close(); err != nil {
		c.logger.Warn("Failed to close LED strip", "error", err)
	}
}

// wordLines polls several word queues in order, counting each word by its
// source.
type wordLines struct {
	names  []string
	queues []*wordsource.Queue
}

func (w *wordLines) add(name string, q *wordsource.Queue) {
	w.names = append(w.names, name)
	w.queues = append(w.queues, q)
}

func (w *wordLines) Line() (string, bool) {
	for i, q := range w.queues {
		if line, ok := q.Line(); ok {
			metrics.RecordWord(w.names[i])
			return line, true
		}
	}
	return "", false
}
