// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package metrics exposes Prometheus counters for the OTP workflow.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector served on /metrics.
var Registry = prometheus.NewRegistry()

var (
	otpIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zblogs",
		Name:      "otp_issued_total",
		Help:      "One-time codes generated, by purpose.",
	}, []string{"purpose"})

	otpVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zblogs",
		Name:      "otp_verifications_total",
		Help:      "Code verification attempts, by purpose and result.",
	}, []string{"purpose", "result"})

	emailDispatch = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zblogs",
		Name:      "email_dispatch_total",
		Help:      "Outbound emails, by kind, priority and result.",
	}, []string{"kind", "priority", "result"})

	otpPurged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "zblogs",
		Name:      "otp_purged_total",
		Help:      "Expired codes removed by the maintenance job.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		otpIssued,
		otpVerifications,
		emailDispatch,
		otpPurged,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// OTPIssued counts a generated code.
func OTPIssued(purpose string) {
	otpIssued.WithLabelValues(normalizeLabel(purpose)).Inc()
}

// OTPVerified counts a verification attempt.
func OTPVerified(purpose string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	otpVerifications.WithLabelValues(normalizeLabel(purpose), result).Inc()
}

// EmailDispatched counts a send attempt.
func EmailDispatched(kind, priority string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	emailDispatch.WithLabelValues(normalizeLabel(kind), normalizeLabel(priority), result).Inc()
}

// OTPPurged adds n to the purge counter.
func OTPPurged(n int64) {
	if n > 0 {
		otpPurged.Add(float64(n))
	}
}

func normalizeLabel(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "unknown"
	}
	return v
}
