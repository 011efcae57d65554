// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics contains Prometheus metrics for the extension service. A nil
// *Metrics records nothing.
type Metrics struct {
	MessagesTotal    *prometheus.CounterVec
	FaultsTotal      *prometheus.CounterVec
	CompletionsTotal *prometheus.CounterVec
	ActivationsTotal *prometheus.CounterVec
	PendingRequests  prometheus.GaugeFunc
}

// NewMetrics creates and registers service metrics. pending reports the
// number of in-flight bridge requests; it may be nil.
func NewMetrics(reg prometheus.Registerer, pending func() float64) *Metrics {
	if pending == nil {
		pending = func() float64 { return 0 }
	}
	m := &Metrics{
		MessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exthost_messages_total",
				Help: "Total number of messages by direction and type",
			},
			[]string{"direction", "type"},
		),
		FaultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exthost_faults_total",
				Help: "Total number of extension faults by boundary and severity",
			},
			[]string{"context", "severity"},
		),
		CompletionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exthost_completions_total",
				Help: "Total number of single completion requests by outcome",
			},
			[]string{"outcome"},
		),
		ActivationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exthost_activations_total",
				Help: "Total number of activation attempts by status",
			},
			[]string{"status"},
		),
		PendingRequests: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "exthost_bridge_pending_requests",
				Help: "Number of bridge requests awaiting a response",
			},
			pending,
		),
	}

	reg.MustRegister(m.MessagesTotal)
	reg.MustRegister(m.FaultsTotal)
	reg.MustRegister(m.CompletionsTotal)
	reg.MustRegister(m.ActivationsTotal)
	reg.MustRegister(m.PendingRequests)

	return m
}

func (m *Metrics) message(direction, msgType string) {
	if m == nil {
		return
	}
	m.MessagesTotal.WithLabelValues(direction, msgType).Inc()
}

func (m *Metrics) fault(context string, recoverable bool) {
	if m == nil {
		return
	}
	severity := "fatal"
	if recoverable {
		severity = "recoverable"
	}
	m.FaultsTotal.WithLabelValues(context, severity).Inc()
}

func (m *Metrics) completion(outcome string) {
	if m == nil {
		return
	}
	m.CompletionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) activation(status string) {
	if m == nil {
		return
	}
	m.ActivationsTotal.WithLabelValues(status).Inc()
}
