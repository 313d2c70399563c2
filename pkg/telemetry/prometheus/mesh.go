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
	CleanupKindPeer = "peer"
	CleanupKindEdge = "edge"

	ForwardResultSuccess = "success"
	ForwardResultFailure = "failure"
	ForwardResultSkipped = "skipped"
)

var (
	peerCurrent   atomic.Int32
	edgeCurrent   atomic.Int32
	requestsTotal atomic.Uint64
	forwardsTotal atomic.Uint64

	promPeerCurrent    prometheus.Gauge
	promEdgeCurrent    prometheus.Gauge
	promTrackForwards  *prometheus.CounterVec
	promCleanupCounter *prometheus.CounterVec
)

func initMeshStats(nodeID string) {
	promPeerCurrent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   "peer",
		Name:        "total",
		ConstLabels: prometheus.Labels{"node_id": nodeID},
	})
	promEdgeCurrent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   "edge",
		Name:        "total",
		ConstLabels: prometheus.Labels{"node_id": nodeID},
	})
	promTrackForwards = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   "track",
		Name:        "forwards",
		ConstLabels: prometheus.Labels{"node_id": nodeID},
	}, []string{"result"})
	promCleanupCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   "lifecycle",
		Name:        "cleanups",
		ConstLabels: prometheus.Labels{"node_id": nodeID},
	}, []string{"kind"})

	prometheus.MustRegister(promPeerCurrent)
	prometheus.MustRegister(promEdgeCurrent)
	prometheus.MustRegister(promTrackForwards)
	prometheus.MustRegister(promCleanupCounter)

	promPeerCurrent.Set(float64(peerCurrent.Load()))
	promEdgeCurrent.Set(float64(edgeCurrent.Load()))
}

// SetMeshSize records the current registry population
func SetMeshSize(peers, edges int) {
	peerCurrent.Store(int32(peers))
	edgeCurrent.Store(int32(edges))
	if !initialized.Load() {
		return
	}
	promPeerCurrent.Set(float64(peers))
	promEdgeCurrent.Set(float64(edges))
}

func RecordTrackForward(result string) {
	forwardsTotal.Inc()
	if !initialized.Load() {
		return
	}
	promTrackForwards.WithLabelValues(result).Inc()
}

func RecordCleanup(kind string) {
	if !initialized.Load() {
		return
	}
	promCleanupCounter.WithLabelValues(kind).Inc()
}

type MeshStats struct {
	Peers    int32
	Edges    int32
	Requests uint64
	Forwards uint64
}

func GetMeshStats() MeshStats {
	return MeshStats{
		Peers:    peerCurrent.Load(),
		Edges:    edgeCurrent.Load(),
		Requests: requestsTotal.Load(),
		Forwards: forwardsTotal.Load(),
	}
}
