// Package metrics defines the custom Prometheus metrics of the tasktrack API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Collectors are created unregistered; call Register once per registry before
// the HTTP server starts. Registering the same collectors with more than one
// registry is allowed, which lets every router own its own registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "tasktrack"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ── Account metrics ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login and registration attempts.
// Labels:
//   - action: "login" or "register"
//   - result: "success" or "failure"
var AuthAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and registration attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// AvailabilityChecksTotal counts username and email availability probes.
// Labels:
//   - field: "username" or "email"
//   - available: "true" or "false"
var AvailabilityChecksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "availability_checks_total",
		Help:      "Total number of availability checks, by field and answer.",
	},
	[]string{"field", "available"},
)

// SessionsRevokedTotal counts explicit logouts that revoked a server session.
var SessionsRevokedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions revoked by logout.",
	},
)

// ── Todo metrics ──────────────────────────────────────────────────────────────

// TodoMutationsTotal counts todo writes.
// Labels:
//   - op: "create", "update", "delete" or "toggle"
//   - result: "success" or "failure"
var TodoMutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todo_mutations_total",
		Help:      "Total number of todo mutations, by operation and outcome.",
	},
	[]string{"op", "result"},
)

// Register adds the custom collectors and the Go runtime and process
// collectors to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		AuthAttemptsTotal,
		AvailabilityChecksTotal,
		SessionsRevokedTotal,
		TodoMutationsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
