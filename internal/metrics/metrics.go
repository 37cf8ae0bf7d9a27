// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pocket_ledger"

// Budget check outcomes.
const (
	OutcomeAwarded        = "awarded"
	OutcomeOverLimit      = "over_limit"
	OutcomeAlreadyAwarded = "already_awarded"
	OutcomeRace           = "race"
	OutcomeError          = "error"
)

// HTTPRequests counts served requests by route template and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "HTTP requests served, by method, route and status.",
}, []string{"method", "route", "status"})

// HTTPLatency tracks request latency by route template.
var HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// LedgerEntries counts recorded expenses and income.
var LedgerEntries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "entries_recorded_total",
	Help:      "Ledger entries recorded, by kind (expense, income).",
}, []string{"kind"})

// BudgetChecks counts monthly budget checks by outcome.
var BudgetChecks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "rewards",
	Name:      "budget_checks_total",
	Help:      "Monthly budget checks, by outcome.",
}, []string{"outcome"})

// CollaboratorFailures counts failed calls to external collaborators.
var CollaboratorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "collaborators",
	Name:      "failures_total",
	Help:      "Failed calls to external collaborators, by collaborator and kind.",
}, []string{"collaborator", "kind"})

// AdvisorQuestions counts advisor questions by classified intent and answer source.
var AdvisorQuestions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "advisor",
	Name:      "questions_total",
	Help:      "Advisor questions, by intent and answer source.",
}, []string{"intent", "source"})

// Middleware records request count and latency. Unmatched routes are grouped under "unmatched".
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
