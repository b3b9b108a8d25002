package store

import "github.com/prometheus/client_golang/prometheus"

// dispatchTotal counts dispatches by action type and outcome
// (applied, noop, stale).
var dispatchTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rocketmentor_store_dispatch_total",
		Help: "Total number of state store dispatches.",
	},
	[]string{"action", "result"},
)

func init() {
	prometheus.MustRegister(dispatchTotal)
}
