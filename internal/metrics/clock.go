// Package metrics holds the clock's Prometheus series. Everything registers
// with the default registry through promauto.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wordclock"

// Modes and sync states exported as one-hot gauges.
var (
	modes      = []string{"REAL_TIME", "COLOR_TEST", "PUZZLE_MODE"}
	syncStates = []string{"waiting", "syncing", "synced"}
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "display",
		Name:      "ticks_total",
		Help:      "Display ticks executed",
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "display",
		Name:      "tick_duration_seconds",
		Help:      "Time spent inside one display tick",
		Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
	})

	rendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "face",
		Name:      "renders_total",
		Help:      "Times a new phrase was lit, by layout",
	}, []string{"layout"})

	puzzleResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "puzzle",
		Name:      "results_total",
		Help:      "Puzzle words searched, by outcome",
	}, []string{"found"})

	puzzleCost = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "puzzle",
		Name:      "path_cost",
		Help:      "Manhattan cost of solved puzzle paths",
		Buckets:   prometheus.LinearBuckets(0, 10, 10),
	})

	modeGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "display",
		Name:      "mode",
		Help:      "1 for the active display mode",
	}, []string{"mode"})

	syncGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "time",
		Name:      "sync_state",
		Help:      "1 for the current clock sync state",
	}, []string{"state"})

	brightnessFactor = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "brightness",
		Name:      "factor",
		Help:      "Ambient brightness factor applied to the colour",
	})

	configReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "config",
		Name:      "reloads_total",
		Help:      "Config file reloads, by result",
	}, []string{"result"})

	wordsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "words",
		Name:      "received_total",
		Help:      "Puzzle words staged, by source",
	}, []string{"source"})
)

// ObserveTick records one display tick.
func ObserveTick(d time.Duration) {
	ticksTotal.Inc()
	tickDuration.Observe(d.Seconds())
}

// RecordRender counts a newly lit phrase.
func RecordRender(layout string) {
	rendersTotal.WithLabelValues(layout).Inc()
}

// RecordPuzzle counts a searched word; cost is only observed for hits.
func RecordPuzzle(found bool, cost int) {
	puzzleResults.WithLabelValues(strconv.FormatBool(found)).Inc()
	if found {
		puzzleCost.Observe(float64(cost))
	}
}

// SetMode marks mode as the only active one.
func SetMode(mode string) {
	oneHot(modeGauge, modes, mode)
}

// SetSyncState marks state as the only current one.
func SetSyncState(state string) {
	oneHot(syncGauge, syncStates, state)
}

// SetBrightnessFactor publishes the ambient correction factor.
func SetBrightnessFactor(f float64) {
	brightnessFactor.Set(f)
}

// RecordConfigReload counts a reload attempt.
func RecordConfigReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	configReloads.WithLabelValues(result).Inc()
}

// RecordWord counts a word staged from source ("api", "stdin", "mqtt", "config").
func RecordWord(source string) {
	wordsReceived.WithLabelValues(source).Inc()
}

func oneHot(g *prometheus.GaugeVec, labels []string, active string) {
	for _, l := range labels {
		v := 0.0
		if l == active {
			v = 1
		}
		g.WithLabelValues(l).Set(v)
	}
}
