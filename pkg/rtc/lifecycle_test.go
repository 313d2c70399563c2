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
	"context"
	"fmt"
	"testing"

	"github.com/pion/webrtc/v3"
	"github.com/stretchr/testify/require"

	"github.com/livekit/meshsignal/pkg/rtc/types"
	"github.com/livekit/meshsignal/pkg/testutils"
)

func TestServerConnectionTerminalStates(t *testing.T) {
	for _, state := range []webrtc.PeerConnectionState{
		webrtc.PeerConnectionStateFailed,
		webrtc.PeerConnectionStateClosed,
		webrtc.PeerConnectionStateDisconnected,
	} {
		t.Run(state.String(), func(t *testing.T) {
			m := newTestMesh()
			aliceConn, err := m.join("alice")
			require.NoError(t, err)
			_, _ = m.join("bob")
			_, _ = m.join("carol")
			_, err = m.router.HandleConnectPeer(context.Background(), ConnectPeerRequest{Identity: "alice", Target: "bob", SDP: testSDP, Type: "offer"})
			require.NoError(t, err)
			direct := m.lastConn()

			aliceConn.OnConnectionStateChangeArgsForCall(0)(state)

			testutils.WithTimeout(t, func() string {
				if m.registry.Has("alice") {
					return "alice still registered"
				}
				if m.registry.EdgeCount() != 0 {
					return fmt.Sprintf("expected no links, got %d", m.registry.EdgeCount())
				}
				if direct.CloseCallCount() != 1 {
					return "direct connection not closed"
				}
				if aliceConn.CloseCallCount() != 1 {
					return "server connection not closed"
				}
				return ""
			})
			require.Equal(t, []types.ParticipantIdentity{"bob", "carol"}, m.registry.Identities())
			bob, _ := m.registry.Get("bob")
			require.Empty(t, bob.Links)
		})
	}
}

func TestNonTerminalStatesIgnored(t *testing.T) {
	m := newTestMesh()
	aliceConn, err := m.join("alice")
	require.NoError(t, err)

	notify := aliceConn.OnConnectionStateChangeArgsForCall(0)
	notify(webrtc.PeerConnectionStateConnecting)
	notify(webrtc.PeerConnectionStateConnected)

	// Close drains the queue before clearing
	m.lifecycle.CleanupPeer("nobody")
	require.True(t, m.registry.Has("alice"))
	m.lifecycle.Close()
	require.Equal(t, 1, aliceConn.CloseCallCount())
}

func TestStaleServerConnectionIgnored(t *testing.T) {
	m := newTestMesh()
	first, err := m.join("alice")
	require.NoError(t, err)
	second, err := m.join("alice")
	require.NoError(t, err)

	// replaced connection failing must not remove the new session
	first.OnConnectionStateChangeArgsForCall(0)(webrtc.PeerConnectionStateFailed)

	testutils.WithTimeout(t, func() string {
		if first.CloseCallCount() < 2 {
			return "replaced connection not closed by cleanup"
		}
		return ""
	})
	state, ok := m.registry.Get("alice")
	require.True(t, ok)
	require.Equal(t, types.Connection(second), state.Conn)
	require.Equal(t, 0, second.CloseCallCount())
}

func TestEdgeTerminalState(t *testing.T) {
	m := newTestMesh()
	_, _ = m.join("alice")
	_, _ = m.join("bob")
	_, err := m.router.HandleConnectPeer(context.Background(), ConnectPeerRequest{Identity: "alice", Target: "bob", SDP: testSDP, Type: "offer"})
	require.NoError(t, err)
	direct := m.lastConn()

	direct.OnConnectionStateChangeArgsForCall(0)(webrtc.PeerConnectionStateFailed)

	testutils.WithTimeout(t, func() string {
		if m.registry.EdgeCount() != 0 {
			return "link still registered"
		}
		if direct.CloseCallCount() != 1 {
			return "direct connection not closed"
		}
		return ""
	})
	require.True(t, m.registry.Has("alice"))
	require.True(t, m.registry.Has("bob"))
}

func TestReplacedEdgeFailureKeepsNewLink(t *testing.T) {
	m := newTestMesh()
	_, _ = m.join("alice")
	_, _ = m.join("bob")
	req := ConnectPeerRequest{Identity: "alice", Target: "bob", SDP: testSDP, Type: "offer"}
	_, err := m.router.HandleConnectPeer(context.Background(), req)
	require.NoError(t, err)
	first := m.lastConn()
	_, err = m.router.HandleConnectPeer(context.Background(), req)
	require.NoError(t, err)
	second := m.lastConn()

	first.OnConnectionStateChangeArgsForCall(0)(webrtc.PeerConnectionStateClosed)

	testutils.WithTimeout(t, func() string {
		if first.CloseCallCount() < 2 {
			return "replaced link not closed by cleanup"
		}
		return ""
	})
	edge, ok := m.registry.GetEdge("alice", "bob")
	require.True(t, ok)
	require.Equal(t, types.Connection(second), edge.Conn)
}

func TestCleanupPeer(t *testing.T) {
	m := newTestMesh()
	aliceConn, _ := m.join("alice")
	_, _ = m.join("bob")

	m.lifecycle.CleanupPeer("alice")
	testutils.WithTimeout(t, func() string {
		if m.registry.Has("alice") {
			return "alice still registered"
		}
		if aliceConn.CloseCallCount() != 1 {
			return "server connection not closed"
		}
		return ""
	})
	require.True(t, m.registry.Has("bob"))
}

func TestLifecycleClose(t *testing.T) {
	m := newTestMesh()
	aliceConn, _ := m.join("alice")
	bobConn, _ := m.join("bob")
	_, err := m.router.HandleConnectPeer(context.Background(), ConnectPeerRequest{Identity: "alice", Target: "bob", SDP: testSDP, Type: "offer"})
	require.NoError(t, err)
	direct := m.lastConn()

	m.lifecycle.Close()

	require.Equal(t, 0, m.registry.Len())
	require.Equal(t, 0, m.registry.EdgeCount())
	require.Equal(t, 1, aliceConn.CloseCallCount())
	require.Equal(t, 1, bobConn.CloseCallCount())
	require.Equal(t, 1, direct.CloseCallCount())
}
