// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

const (
	namespace string = "meshsignal"
)

var (
	initialized atomic.Bool

	promRequestCounter  *prometheus.CounterVec
	promRequestDuration *prometheus.HistogramVec
)

// Init registers collectors. Recording before Init only updates the in process counters.
func Init(nodeID string) {
	if initialized.Load() {
		return
	}

	promRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "signal",
			Name:        "requests",
			ConstLabels: prometheus.Labels{"node_id": nodeID},
		},
		[]string{"op", "status"},
	)
	promRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "signal",
			Name:        "request_duration_ms",
			ConstLabels: prometheus.Labels{"node_id": nodeID},
			Buckets:     []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"op"},
	)

	prometheus.MustRegister(promRequestCounter)
	prometheus.MustRegister(promRequestDuration)

	initMeshStats(nodeID)

	initialized.Store(true)
}

func RecordRequest(op string, status int, durationMs float64) {
	requestsTotal.Inc()
	if !initialized.Load() {
		return
	}
	promRequestCounter.WithLabelValues(op, statusClass(status)).Inc()
	promRequestDuration.WithLabelValues(op).Observe(durationMs)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}
