// Package metrics содержит счетчики Prometheus сервиса.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "civic_alert"

// Metrics - набор счетчиков, регистрируемых в одном реестре
type Metrics struct {
	Registry *prometheus.Registry

	IncidentsCreated   prometheus.Counter
	DuplicatesFlagged  prometheus.Counter
	DuplicateFallbacks prometheus.Counter
	Votes              *prometheus.CounterVec
	Promotions         prometheus.Counter
	StatusChanges      *prometheus.CounterVec
	RewardFailures     prometheus.Counter
	WebhookDeliveries  *prometheus.CounterVec
}

// New создает счетчики и регистрирует их в собственном реестре
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		IncidentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_created_total",
			Help:      "Number of incidents reported.",
		}),
		DuplicatesFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_flagged_total",
			Help:      "Number of potential duplicates returned on creation.",
		}),
		DuplicateFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_detection_fallbacks_total",
			Help:      "Candidate fetches that failed or timed out and degraded to no duplicates.",
		}),
		Votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Votes processed, by direction and outcome.",
		}, []string{"direction", "outcome"}),
		Promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_total",
			Help:      "Incidents promoted to verified by votes.",
		}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_changes_total",
			Help:      "Operator status changes, by target status.",
		}, []string{"status"}),
		RewardFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reward_failures_total",
			Help:      "Reward ledger writes that failed and were left for reconciliation.",
		}),
		WebhookDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_total",
			Help:      "Outbound webhook delivery attempts, by result.",
		}, []string{"result"}),
	}

	m.Registry.MustRegister(
		m.IncidentsCreated,
		m.DuplicatesFlagged,
		m.DuplicateFallbacks,
		m.Votes,
		m.Promotions,
		m.StatusChanges,
		m.RewardFailures,
		m.WebhookDeliveries,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler отдает метрики реестра
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
