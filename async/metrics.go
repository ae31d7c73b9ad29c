package async

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	asyncJobsRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "autolod_async_jobs_running",
		Help: "The number of background jobs currently running.",
	})

	asyncJobsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autolod_async_jobs_completed_total",
		Help: "The total number of background job completions delivered to the main loop.",
	})
)

func instrumentRunning(n int) {
	asyncJobsRunning.Set(float64(n))
}

func instrumentCompleted(n int) {
	asyncJobsCompletedTotal.Add(float64(n))
}
