// Package metrics exports the bot's Prometheus counters:
//   - advisor_messages_total: handled inbound messages, labeled by intent
//   - advisor_escalations_forwarded_total: tickets delivered to the upline
//   - advisor_unmatched_queries_total: health queries that matched nothing
//
// All metrics register with the Prometheus default registry during package
// initialization and are served by internal/server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_messages_total",
			Help: "Total handled inbound messages",
		},
		[]string{"intent"},
	)

	EscalationsForwardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_escalations_forwarded_total",
			Help: "Escalation tickets forwarded to the upline",
		},
	)

	UnmatchedQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_unmatched_queries_total",
			Help: "Health queries that matched no combo or product",
		},
	)
)

func init() {
	prometheus.MustRegister(MessagesTotal)
	prometheus.MustRegister(EscalationsForwardedTotal)
	prometheus.MustRegister(UnmatchedQueriesTotal)
}
