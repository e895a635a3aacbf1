// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package metrics counts the client's round trips to the paper service.
// The registry is private to the process; WriteTextfile exports it in the
// format read by the node exporter's textfile collector.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch records one sample per completed round trip.
type Dispatch struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New builds a Dispatch with its own registry.
func New() *Dispatch {
	d := &Dispatch{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paperassist",
			Name:      "requests_total",
			Help:      "Requests sent to the paper service, by path and status code (0 when no response).",
		}, []string{"method", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "paperassist",
			Name:      "request_duration_seconds",
			Help:      "Round-trip time of requests to the paper service.",
			// summaries from local models can take minutes
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"method", "path"}),
	}
	d.reg.MustRegister(d.requests, d.duration)
	return d
}

// ObserveRequest implements backend.Observer.
func (d *Dispatch) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	d.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	d.duration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Gatherer exposes the registry.
func (d *Dispatch) Gatherer() prometheus.Gatherer {
	return d.reg
}

// WriteTextfile atomically replaces filename with the current samples.
func (d *Dispatch) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, d.reg)
}
