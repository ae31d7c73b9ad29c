package volume

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	operationLabel = "operation"

	opInsert  = "insert"
	opRemove  = "remove"
	opSplit   = "split"
	opGrow    = "grow"
	opShrink  = "shrink"
	opCreate  = "create"
	opDestroy = "destroy"
)

var (
	volumeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autolod_volume_operations_total",
		Help: "The total number of volume tree operations.",
	}, []string{operationLabel})
)

func instrumentOperation(op string) {
	volumeOperationsTotal.
		With(prometheus.Labels{operationLabel: op}).
		Inc()
}
