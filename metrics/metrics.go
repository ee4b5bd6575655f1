// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	MetricsNamespace              = "citeverify"
	MetricsSubsystemCaseLaw       = "caselaw"
	MetricsSubsystemResearch      = "research"
	MetricsSubsystemVerification  = "verification"
	MetricsSubsystemGrading       = "grading"
	MetricsSubsystemGapResolution = "gaps"
)

// Metrics records pipeline instrumentation. Components take a Metrics and
// must tolerate nil so library users can opt out of instrumentation.
type Metrics interface {
	GetRegistry() *prometheus.Registry

	ObserveAPIRequestDuration(endpoint, statusCode string, elapsed float64)
	IncrementAPIRetries(endpoint string)
	IncrementRateLimitWaits(window string)
	IncrementCircuitOpenRejections()

	IncrementQueryRetries(strategy string)
	IncrementCrossBatchFills(element string)
	IncrementResearchGaps(element string)

	IncrementVerificationStatus(status string)

	IncrementHardRuleViolations(rule string)
	IncrementHardRuleWarnings(rule string)

	IncrementGapsDetected(element string)
	IncrementGapsResolved(resolved bool)
}

type metrics struct {
	registry *prometheus.Registry

	apiRequestTime         *prometheus.HistogramVec
	apiRetriesTotal        *prometheus.CounterVec
	rateLimitWaitsTotal    *prometheus.CounterVec
	circuitRejectionsTotal prometheus.Counter

	queryRetriesTotal    *prometheus.CounterVec
	crossBatchFillsTotal *prometheus.CounterVec
	researchGapsTotal    *prometheus.CounterVec

	verificationStatusTotal *prometheus.CounterVec

	hardRuleViolationsTotal *prometheus.CounterVec
	hardRuleWarningsTotal   *prometheus.CounterVec

	gapsDetectedTotal *prometheus.CounterVec
	gapsResolvedTotal *prometheus.CounterVec
}

// NewMetrics Factory method to create a new metrics collector.
func NewMetrics() Metrics {
	m := &metrics{}

	m.registry = prometheus.NewRegistry()
	options := collectors.ProcessCollectorOpts{
		Namespace: MetricsNamespace,
	}
	m.registry.MustRegister(collectors.NewProcessCollector(options))
	m.registry.MustRegister(collectors.NewGoCollector())

	m.apiRequestTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: MetricsSubsystemCaseLaw,
			Name:      "request_time_seconds",
			Help:      "Time spent on case-law API requests.",
		},
		[]string{"endpoint", "status_code"},
	)
	m.registry.MustRegister(m.apiRequestTime)

	m.apiRetriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemCaseLaw,
		Name:      "retries_total",
		Help:      "The total number of retried case-law API requests.",
	}, []string{"endpoint"})
	m.registry.MustRegister(m.apiRetriesTotal)

	m.rateLimitWaitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemCaseLaw,
		Name:      "rate_limit_waits_total",
		Help:      "The total number of waits forced by an exhausted rate window.",
	}, []string{"window"})
	m.registry.MustRegister(m.rateLimitWaitsTotal)

	m.circuitRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemCaseLaw,
		Name:      "circuit_open_rejections_total",
		Help:      "The total number of requests rejected by an open circuit breaker.",
	})
	m.registry.MustRegister(m.circuitRejectionsTotal)

	m.queryRetriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemResearch,
		Name:      "query_retries_total",
		Help:      "The total number of alternative-query retry attempts by strategy.",
	}, []string{"strategy"})
	m.registry.MustRegister(m.queryRetriesTotal)

	m.crossBatchFillsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemResearch,
		Name:      "cross_batch_fills_total",
		Help:      "The total number of candidates salvaged from adjacent batches.",
	}, []string{"element"})
	m.registry.MustRegister(m.crossBatchFillsTotal)

	m.researchGapsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemResearch,
		Name:      "gaps_total",
		Help:      "The total number of batches that exhausted all retries without candidates.",
	}, []string{"element"})
	m.registry.MustRegister(m.researchGapsTotal)

	m.verificationStatusTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemVerification,
		Name:      "status_total",
		Help:      "The total number of citation verifications by resolved status.",
	}, []string{"status"})
	m.registry.MustRegister(m.verificationStatusTotal)

	m.hardRuleViolationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemGrading,
		Name:      "hard_rule_violations_total",
		Help:      "The total number of hard-rule violations that forced a fail.",
	}, []string{"rule"})
	m.registry.MustRegister(m.hardRuleViolationsTotal)

	m.hardRuleWarningsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemGrading,
		Name:      "hard_rule_warnings_total",
		Help:      "The total number of advisory hard-rule warnings.",
	}, []string{"rule"})
	m.registry.MustRegister(m.hardRuleWarningsTotal)

	m.gapsDetectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemGapResolution,
		Name:      "detected_total",
		Help:      "The total number of citation gaps detected in drafts.",
	}, []string{"element"})
	m.registry.MustRegister(m.gapsDetectedTotal)

	m.gapsResolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemGapResolution,
		Name:      "resolved_total",
		Help:      "The total number of gap resolution outcomes.",
	}, []string{"outcome"})
	m.registry.MustRegister(m.gapsResolvedTotal)

	return m
}

func (m *metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

func (m *metrics) ObserveAPIRequestDuration(endpoint, statusCode string, elapsed float64) {
	m.apiRequestTime.With(prometheus.Labels{"endpoint": endpoint, "status_code": statusCode}).Observe(elapsed)
}

func (m *metrics) IncrementAPIRetries(endpoint string) {
	m.apiRetriesTotal.With(prometheus.Labels{"endpoint": endpoint}).Inc()
}

func (m *metrics) IncrementRateLimitWaits(window string) {
	m.rateLimitWaitsTotal.With(prometheus.Labels{"window": window}).Inc()
}

func (m *metrics) IncrementCircuitOpenRejections() {
	m.circuitRejectionsTotal.Inc()
}

func (m *metrics) IncrementQueryRetries(strategy string) {
	m.queryRetriesTotal.With(prometheus.Labels{"strategy": strategy}).Inc()
}

func (m *metrics) IncrementCrossBatchFills(element string) {
	m.crossBatchFillsTotal.With(prometheus.Labels{"element": element}).Inc()
}

func (m *metrics) IncrementResearchGaps(element string) {
	m.researchGapsTotal.With(prometheus.Labels{"element": element}).Inc()
}

func (m *metrics) IncrementVerificationStatus(status string) {
	m.verificationStatusTotal.With(prometheus.Labels{"status": status}).Inc()
}

func (m *metrics) IncrementHardRuleViolations(rule string) {
	m.hardRuleViolationsTotal.With(prometheus.Labels{"rule": rule}).Inc()
}

func (m *metrics) IncrementHardRuleWarnings(rule string) {
	m.hardRuleWarningsTotal.With(prometheus.Labels{"rule": rule}).Inc()
}

func (m *metrics) IncrementGapsDetected(element string) {
	m.gapsDetectedTotal.With(prometheus.Labels{"element": element}).Inc()
}

func (m *metrics) IncrementGapsResolved(resolved bool) {
	outcome := "unresolved"
	if resolved {
		outcome = "resolved"
	}
	m.gapsResolvedTotal.With(prometheus.Labels{"outcome": outcome}).Inc()
}
