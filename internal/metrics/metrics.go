package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Connections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_ws_active_connections",
		Help: "Active websocket connections",
	})
	PushesDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_pushes_delivered_total",
		Help: "Realtime events delivered to an online connection",
	})
	PushesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_pushes_skipped_total",
		Help: "Realtime events skipped because the target was offline",
	})
)

func Init() {
	prometheus.MustRegister(Connections, PushesDelivered, PushesSkipped)
}
