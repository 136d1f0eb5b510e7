package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// PlansTotal tracks the number of plans built
	PlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cubeplan_plans_total",
			Help: "Total number of query plans built",
		},
		[]string{"cube", "kind", "status"}, // kind: plan, subplan; status: success, failed
	)

	// PlanDuration measures plan construction time in seconds
	PlanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cubeplan_plan_duration_seconds",
			Help:    "Query plan construction duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~200ms
		},
		[]string{"cube", "kind"},
	)

	// BindingsResolved counts expressions resolved to bindings, by what they resolved to
	BindingsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cubeplan_bindings_resolved_total",
			Help: "Total number of binding expressions resolved",
		},
		[]string{"cube", "kind"}, // kind: measure, level, other
	)

	// SpanComputations counts span lookups
	SpanComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cubeplan_span_computations_total",
			Help: "Total number of group span computations",
		},
		[]string{"result"}, // result: leaf, spanned, unmatched, error
	)

	// SpanLookahead measures how many cursor rows a span computation walked
	SpanLookahead = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cubeplan_span_lookahead_rows",
			Help:    "Cursor rows walked while computing a row span",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1 to 512 rows
		},
	)

	// PlanCacheRequests counts plan cache lookups
	PlanCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cubeplan_plan_cache_requests_total",
			Help: "Total number of plan cache lookups",
		},
		[]string{"result"}, // result: hit, miss, error
	)

	// ErrorsTotal counts errors by component
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cubeplan_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordPlan records a plan build
func RecordPlan(cube, kind, status string, duration float64) {
	PlansTotal.WithLabelValues(cube, kind, status).Inc()
	PlanDuration.WithLabelValues(cube, kind).Observe(duration)
}

// RecordBindingResolved records a resolved binding expression
func RecordBindingResolved(cube, kind string) {
	BindingsResolved.WithLabelValues(cube, kind).Inc()
}

// RecordSpan records a span computation and the rows it walked
func RecordSpan(result string, lookahead int) {
	SpanComputations.WithLabelValues(result).Inc()
	if lookahead > 0 {
		SpanLookahead.Observe(float64(lookahead))
	}
}

// RecordPlanCacheHit records a plan cache hit
func RecordPlanCacheHit() {
	PlanCacheRequests.WithLabelValues("hit").Inc()
}

// RecordPlanCacheMiss records a plan cache miss
func RecordPlanCacheMiss() {
	PlanCacheRequests.WithLabelValues("miss").Inc()
}

// RecordPlanCacheError records a failed plan cache lookup
func RecordPlanCacheError() {
	PlanCacheRequests.WithLabelValues("error").Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
