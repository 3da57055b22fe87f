// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package metrics exposes renderer activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/reverseclock"
	"github.com/gogpu/reverseclock/internal/version"
)

const namespace = "reverseclock"

// Metrics implements reverseclock.Observer and records into Prometheus
// collectors. All methods are safe for concurrent use.
type Metrics struct {
	framesTotal        *prometheus.CounterVec
	renderDuration     prometheus.Histogram
	geometryRebuilds   prometheus.Counter
	redrawRequests     prometheus.Counter
	encodeDuration     *prometheus.HistogramVec
	requestErrorsTotal *prometheus.CounterVec
	ntpOffset          prometheus.Gauge
	ntpHealthy         prometheus.Gauge
	buildInfo          *prometheus.GaugeVec
}

var _ reverseclock.Observer = (*Metrics)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		framesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      "Frames built by the renderer, by theme.",
		}, []string{"theme"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_build_seconds",
			Help:      "Time spent building a frame's draw commands.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		geometryRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geometry_rebuilds_total",
			Help:      "Surface size changes that rebuilt the geometry.",
		}),
		redrawRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redraw_requests_total",
			Help:      "Redraw requests issued to the scheduler.",
		}),
		encodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "encode_seconds",
			Help:      "Time spent playing a frame back to an output format.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		requestErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_errors_total",
			Help:      "HTTP requests that failed, by reason.",
		}, []string{"reason"}),
		ntpOffset: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ntp_offset_seconds",
			Help:      "Offset applied to the system clock by the NTP source.",
		}),
		ntpHealthy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ntp_healthy",
			Help:      "1 if the last NTP query succeeded within the offset threshold.",
		}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build version information.",
		}, []string{"version", "git_commit", "build_date", "go_version"}),
	}

	info := version.Info()
	m.buildInfo.With(prometheus.Labels{
		"version":    info["version"],
		"git_commit": info["git_commit"],
		"build_date": info["build_date"],
		"go_version": info["go_version"],
	}).Set(1)

	for _, c := range []prometheus.Collector{
		m.framesTotal, m.renderDuration, m.geometryRebuilds, m.redrawRequests,
		m.encodeDuration, m.requestErrorsTotal, m.ntpOffset, m.ntpHealthy, m.buildInfo,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// GeometryRebuilt implements reverseclock.Observer.
func (m *Metrics) GeometryRebuilt(int, int) {
	m.geometryRebuilds.Inc()
}

// FrameRendered implements reverseclock.Observer.
func (m *Metrics) FrameRendered(theme string, elapsed time.Duration) {
	m.framesTotal.WithLabelValues(theme).Inc()
	m.renderDuration.Observe(elapsed.Seconds())
}

// RedrawRequested implements reverseclock.Observer.
func (m *Metrics) RedrawRequested(time.Duration) {
	m.redrawRequests.Inc()
}

// ObserveEncode records the playback time of one frame.
func (m *Metrics) ObserveEncode(format string, elapsed time.Duration) {
	m.encodeDuration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// RequestError counts a failed HTTP request.
func (m *Metrics) RequestError(reason string) {
	m.requestErrorsTotal.WithLabelValues(reason).Inc()
}

// SetNTP records the state of the NTP clock.
func (m *Metrics) SetNTP(offset time.Duration, healthy bool) {
	m.ntpOffset.Set(offset.Seconds())
	if healthy {
		m.ntpHealthy.Set(1)
	} else {
		m.ntpHealthy.Set(0)
	}
}
