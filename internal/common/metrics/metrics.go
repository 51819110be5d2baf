// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlaybooksDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playbooks_dispatched_total",
			Help: "Total number of playbook requests dispatched to the analysis worker",
		},
		[]string{"playbook_type", "outcome"},
	)

	CallbacksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playbook_callbacks_received_total",
			Help: "Total number of worker callbacks received",
		},
		[]string{"outcome"},
	)

	CallbackDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "playbook_callback_duration_seconds",
			Help: "Duration of callback reconciliation in seconds",
		},
	)

	PlaybooksReaped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playbooks_reaped_total",
			Help: "Total number of stuck PENDING playbooks auto-failed by the reaper",
		},
	)

	BillingEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_events_total",
			Help: "Total number of billing webhook events processed",
		},
		[]string{"event_type", "outcome"},
	)
)
