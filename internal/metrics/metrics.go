package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ludo_client_events_received_total",
			Help: "Inbound authority events by type",
		},
		[]string{"event"},
	)
	RequestsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ludo_client_requests_sent_total",
			Help: "Outbound requests by type",
		},
		[]string{"request"},
	)
	ActionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ludo_client_actions_rejected_total",
			Help: "Local actions dropped before reaching the authority",
		},
		[]string{"reason"},
	)
	Reconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ludo_client_reconnects_total",
			Help: "Transport (re)connections",
		},
	)
	CuesPlayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ludo_client_cues_total",
			Help: "Sound cues emitted",
		},
		[]string{"cue"},
	)
	OverlaysActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ludo_client_overlays_active",
			Help: "Visible overlays by kind",
		},
		[]string{"kind"},
	)
	Countdown = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ludo_client_turn_countdown",
			Help: "Remaining time units of the current turn",
		},
	)
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(
		EventsReceived,
		RequestsSent,
		ActionsRejected,
		Reconnects,
		CuesPlayed,
		OverlaysActive,
		Countdown,
		RLRequests,
		RLBlocked,
	)
}
