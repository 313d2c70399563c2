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

package rtc

import (
	"github.com/pion/webrtc/v3"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/rtc/types"
	"github.com/livekit/meshsignal/pkg/telemetry/prometheus"
	"github.com/livekit/meshsignal/pkg/utils"
)

// LifecycleManager tears down peers and links whose connections reached a terminal state.
// Engine callbacks only enqueue, all registry changes happen on a single ops queue.
type LifecycleManager struct {
	registry *Registry
	queue    *utils.OpsQueue
	logger   logger.Logger
}

func NewLifecycleManager(registry *Registry, l logger.Logger) *LifecycleManager {
	l = l.WithComponent("lifecycle")
	m := &LifecycleManager{
		registry: registry,
		queue:    utils.NewOpsQueue(l, "lifecycle"),
		logger:   l,
	}
	m.queue.Start()
	return m
}

func (m *LifecycleManager) ServerConnectionStateChanged(identity types.ParticipantIdentity, conn types.Connection, state webrtc.PeerConnectionState) {
	m.logger.Debugw("server connection state changed", "participant", identity, "connID", conn.ID(), "state", state.String())
	if !types.IsTerminal(state) {
		return
	}
	m.queue.Enqueue(func() {
		m.cleanupServerConnection(identity, conn, state)
	})
}

func (m *LifecycleManager) EdgeConnectionStateChanged(key EdgeKey, conn types.Connection, state webrtc.PeerConnectionState) {
	m.logger.Debugw("direct connection state changed", "link", key, "connID", conn.ID(), "state", state.String())
	if !types.IsTerminal(state) {
		return
	}
	m.queue.Enqueue(func() {
		m.cleanupEdge(key, conn, state)
	})
}

// CleanupPeer removes identity and its links regardless of connection state. Repeated calls are no-ops.
func (m *LifecycleManager) CleanupPeer(identity types.ParticipantIdentity) {
	m.queue.Enqueue(func() {
		state, edges, ok := m.registry.Remove(identity)
		if !ok {
			return
		}
		m.teardown(state, edges, "removed")
	})
}

// Close stops processing events and closes every connection still registered
func (m *LifecycleManager) Close() {
	m.queue.Stop()

	states, edges := m.registry.Clear()
	for _, edge := range edges {
		m.closeConnection(edge.Conn, "link", edge.Key)
	}
	for _, state := range states {
		m.closeConnection(state.Conn, "participant", state.Identity)
	}
	m.logger.Infow("closed all connections", "participants", len(states), "links", len(edges))
}

func (m *LifecycleManager) cleanupServerConnection(identity types.ParticipantIdentity, conn types.Connection, state webrtc.PeerConnectionState) {
	peerState, edges, ok := m.registry.RemoveIfServerConnection(identity, conn)
	if !ok {
		// already removed, or conn was replaced by a newer offer
		m.closeConnection(conn, "participant", identity)
		return
	}
	m.teardown(peerState, edges, state.String())
}

func (m *LifecycleManager) cleanupEdge(key EdgeKey, conn types.Connection, state webrtc.PeerConnectionState) {
	edge, ok := m.registry.RemoveEdge(key, conn)
	if ok {
		prometheus.RecordCleanup(prometheus.CleanupKindEdge)
		m.logger.Infow("direct connection removed", "edge", edge, "state", state.String())
	}
	m.closeConnection(conn, "link", key)
}

func (m *LifecycleManager) teardown(state PeerState, edges []*Edge, reason string) {
	prometheus.RecordCleanup(prometheus.CleanupKindPeer)
	m.logger.Infow("participant removed", "participant", state.Identity, "reason", reason,
		"links", len(edges), "tracks", len(state.Tracks))

	for _, edge := range edges {
		prometheus.RecordCleanup(prometheus.CleanupKindEdge)
		m.closeConnection(edge.Conn, "link", edge.Key)
	}
	m.closeConnection(state.Conn, "participant", state.Identity)
}

func (m *LifecycleManager) closeConnection(conn types.Connection, keysAndValues ...interface{}) {
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		m.logger.Warnw("error closing connection", err, append(keysAndValues, "connID", conn.ID())...)
	}
}
