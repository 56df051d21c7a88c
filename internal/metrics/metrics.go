package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachdesk_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coachdesk_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Chat metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coachdesk_chat_connections_active",
			Help: "Open classroom chat connections",
		},
	)

	MessagesPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coachdesk_chat_messages_posted_total",
			Help: "Total chat messages posted",
		},
	)

	MessagesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coachdesk_chat_messages_deleted_total",
			Help: "Total chat messages deleted by moderators",
		},
	)

	BroadcastFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coachdesk_chat_broadcast_failures_total",
			Help: "Connections dropped for failing to keep up with broadcasts",
		},
	)

	// Business metrics
	StudentsAdmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coachdesk_students_admitted_total",
			Help: "Total students admitted",
		},
	)

	EnquiriesConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coachdesk_enquiries_confirmed_total",
			Help: "Total admission enquiries confirmed",
		},
	)

	DocumentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachdesk_documents_generated_total",
			Help: "Total PDF documents generated",
		},
		[]string{"kind"}, // "fee_receipt", "salary_slip", "commission_slip"
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachdesk_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)
