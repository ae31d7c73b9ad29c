package hlod

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pathLabel = "path"
)

var (
	hlodProxiesBuiltTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autolod_hlod_proxies_built_total",
		Help: "The total number of HLOD proxies built.",
	}, []string{pathLabel})

	hlodProxiesDestroyedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autolod_hlod_proxies_destroyed_total",
		Help: "The total number of HLOD proxies destroyed.",
	})
)

func instrumentBuilt(path string) {
	hlodProxiesBuiltTotal.
		With(prometheus.Labels{pathLabel: path}).
		Inc()
}

func instrumentDestroyed() {
	hlodProxiesDestroyedTotal.Inc()
}
