package scenelod

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	sceneLabel = "scene"
)

var (
	queueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "autolod_queue_depth",
		Help: "The number of maintenance tasks waiting in the queue.",
	}, []string{sceneLabel})

	tickDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "autolod_tick_duration_seconds",
		Help:    "The time spent running maintenance tasks per tick.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
	}, []string{sceneLabel})

	renderersIndexed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "autolod_renderers_indexed",
		Help: "The number of renderers indexed by the volume tree.",
	}, []string{sceneLabel})

	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autolod_scans_total",
		Help: "The total number of full scene scans.",
	}, []string{sceneLabel})
)

func instrumentTick(sceneName string, elapsed time.Duration, pending int) {
	labels := prometheus.Labels{sceneLabel: sceneName}
	tickDuration.With(labels).Observe(elapsed.Seconds())
	queueDepth.With(labels).Set(float64(pending))
}

func instrumentIndexed(sceneName string, count int) {
	renderersIndexed.
		With(prometheus.Labels{sceneLabel: sceneName}).
		Set(float64(count))
}

func instrumentScan(sceneName string) {
	scansTotal.
		With(prometheus.Labels{sceneLabel: sceneName}).
		Inc()
}
