package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mavsense",
			Subsystem: "mavlink",
			Name:      "frames_accepted_total",
			Help:      "Inbound frames that passed checksum and payload decode.",
		},
	)
	framesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mavsense",
			Subsystem: "mavlink",
			Name:      "frames_rejected_total",
			Help:      "Inbound frames dropped during decode.",
		},
		[]string{"reason"},
	)
	framesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mavsense",
			Subsystem: "mavlink",
			Name:      "frames_sent_total",
			Help:      "Outbound frames written to the flight controller link.",
		},
	)
	heartbeatsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mavsense",
			Subsystem: "mavlink",
			Name:      "heartbeats_sent_total",
			Help:      "Heartbeat frames sent.",
		},
	)
	sensorRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mavsense",
			Subsystem: "sensor",
			Name:      "rows_total",
			Help:      "Sensor CSV rows handled, by sensor name and outcome.",
		},
		[]string{"sensor", "outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			framesAccepted,
			framesRejected,
			framesSent,
			heartbeatsSent,
			sensorRows,
		)
	})
}

func RecordFrameAccepted() {
	RegisterMetrics()
	framesAccepted.Inc()
}

func RecordFrameRejected(reason string) {
	RegisterMetrics()
	framesRejected.WithLabelValues(reason).Inc()
}

func RecordFrameSent() {
	RegisterMetrics()
	framesSent.Inc()
}

func RecordHeartbeatSent() {
	RegisterMetrics()
	heartbeatsSent.Inc()
}

func RecordSensorRow(sensor, outcome string) {
	RegisterMetrics()
	sensorRows.WithLabelValues(sensor, outcome).Inc()
}
